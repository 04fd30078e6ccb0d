package config

import (
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Load parses one configuration source into a Document. Malformed documents
// and schema violations surface as a *ParseError carrying the source path;
// a version outside the supported range surfaces as
// *UnsupportedVersionError. Targets of a load-config-only source are
// discarded after parsing; all remaining targets are stamped with the
// source path for diagnostics.
func Load(src Source, data []byte, versions SupportedVersions) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: src.Path, Err: err}
	}

	version, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, &ParseError{Path: src.Path, Err: err}
	}
	if !versions.Contains(version) {
		return nil, &UnsupportedVersionError{Version: doc.Version}
	}

	for i := range doc.Targets {
		doc.Targets[i].applyDefaults()
		if err := doc.Targets[i].validate(); err != nil {
			return nil, &ParseError{Path: src.Path, Err: err}
		}
	}

	if src.LoadConfigOnly {
		doc.Targets = nil
	} else {
		for i := range doc.Targets {
			doc.Targets[i].SourceFile = src.Path
		}
	}

	return &doc, nil
}

// LoadAll loads every source in order, failing on the first invalid one.
func LoadAll(sources []SourceContent, versions SupportedVersions) ([]*Document, error) {
	docs := make([]*Document, 0, len(sources))
	for _, src := range sources {
		doc, err := Load(src.Source, src.Data, versions)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
