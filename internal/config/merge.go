package config

// MergeAll folds documents ordered from most specific (closest to the
// working directory) to least specific into one resolved Document. Scalar
// fields use first-non-empty-wins: a value from a more specific document is
// never replaced, only absent fields are backfilled. Targets merge by name
// in first-appearance order.
func MergeAll(docs []*Document) *Document {
	merged := &Document{}
	if len(docs) == 0 {
		return merged
	}

	merged.Version = docs[0].Version

	index := make(map[string]int)
	for _, doc := range docs {
		mergeOperational(merged, doc)
		for i := range doc.Targets {
			incoming := &doc.Targets[i]
			if at, ok := index[incoming.Target]; ok {
				mergeTarget(&merged.Targets[at], incoming)
				continue
			}
			index[incoming.Target] = len(merged.Targets)
			merged.Targets = append(merged.Targets, incoming.Clone())
		}
	}

	if merged.Config == nil {
		merged.Config = &OperationalSettings{}
	}
	merged.Config.Sanitize()
	return merged
}

func mergeOperational(merged, doc *Document) {
	if doc.Config == nil {
		return
	}
	if merged.Config == nil {
		merged.Config = &OperationalSettings{}
	}
	if merged.Config.RetryDelaySec == nil && doc.Config.RetryDelaySec != nil {
		delay := *doc.Config.RetryDelaySec
		merged.Config.RetryDelaySec = &delay
	}
}

// mergeTarget backfills missing scalar fields on the accumulated target
// from a less specific record and unions its set-valued fields. The port
// list is adopted only when the accumulated target has none; individual
// port entries are never reconciled.
func mergeTarget(acc *Target, incoming *Target) {
	if acc.Name == "" {
		acc.Name = incoming.Name
	}
	if acc.Context == "" {
		acc.Context = incoming.Context
	}
	if acc.Cluster == "" {
		acc.Cluster = incoming.Cluster
	}
	if acc.Tags == nil {
		acc.Tags = NewTagSet()
	}
	acc.Tags.Union(incoming.Tags)
	acc.ListenAddrs = unionAddrs(acc.ListenAddrs, incoming.ListenAddrs)
	if len(acc.Ports) == 0 {
		acc.Ports = append([]PortMapping(nil), incoming.Ports...)
	}
}

// unionAddrs appends addresses not already present, preserving
// first-appearance order.
func unionAddrs(acc, incoming []string) []string {
	seen := make(map[string]struct{}, len(acc))
	for _, a := range acc {
		seen[a] = struct{}{}
	}
	for _, a := range incoming {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		acc = append(acc, a)
	}
	return acc
}
