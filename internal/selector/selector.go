// Package selector filters the resolved target list by tag expressions and
// name prefixes and assigns per-run target identifiers.
package selector

import (
	"strings"

	"kfwd/internal/config"
)

// TagSelection is the conjunction of tags in one selection expression,
// e.g. "foo+bar". A target satisfies the expression when its tag set is a
// superset of the expression's tags.
type TagSelection config.TagSet

// ParseTagSelection parses an expression like "foo+bar". Empty components
// are dropped; an empty expression yields an empty, always-true selection.
func ParseTagSelection(raw string) (TagSelection, error) {
	sel := TagSelection{}
	for _, part := range strings.Split(raw, "+") {
		if part == "" {
			continue
		}
		tag, err := config.ParseTag(part)
		if err != nil {
			return nil, err
		}
		sel[tag] = struct{}{}
	}
	return sel, nil
}

// ParseTagSelections parses a list of expressions.
func ParseTagSelections(raw []string) ([]TagSelection, error) {
	selections := make([]TagSelection, 0, len(raw))
	for _, r := range raw {
		sel, err := ParseTagSelection(r)
		if err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}
	return selections, nil
}

// Matches reports whether any expression's tag set is a subset of tags.
// An empty expression list matches every target.
func Matches(expressions []TagSelection, tags config.TagSet) bool {
	if len(expressions) == 0 {
		return true
	}
	for _, expr := range expressions {
		if tags.ContainsAll(config.TagSet(expr)) {
			return true
		}
	}
	return false
}

// matchesName reports whether any filter is a case-insensitive prefix of
// the target's resource name or display name. An empty filter list matches
// every target.
func matchesName(filters []string, t *config.Target) bool {
	if len(filters) == 0 {
		return true
	}
	target := strings.ToLower(t.Target)
	name := strings.ToLower(t.Name)
	for _, f := range filters {
		f = strings.ToLower(f)
		if f == "" {
			return true
		}
		if strings.HasPrefix(target, f) {
			return true
		}
		if name != "" && strings.HasPrefix(name, f) {
			return true
		}
	}
	return false
}

// Selection is one selected target together with its per-run identifier.
type Selection struct {
	ID     config.TargetID
	Target config.Target
}

// Select applies the tag dimension and the name dimension (ANDed) to the
// resolved target list. Selected targets receive sequential identifiers in
// selection order, stable for the lifetime of the run.
func Select(targets []config.Target, expressions []TagSelection, filters []string) []Selection {
	var selected []Selection
	for i := range targets {
		t := &targets[i]
		if !Matches(expressions, t.Tags) {
			continue
		}
		if !matchesName(filters, t) {
			continue
		}
		selected = append(selected, Selection{
			ID:     config.TargetID(len(selected)),
			Target: t.Clone(),
		})
	}
	return selected
}
