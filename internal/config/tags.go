package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Tag is a label attached to a target for selection purposes. A valid tag
// starts with an ASCII letter followed by letters, digits, '-' or '_'. The
// empty tag is permitted as a degenerate always-present default.
type Tag string

// ParseTag validates a raw string as a tag.
func ParseTag(raw string) (Tag, error) {
	if raw == "" {
		return Tag(""), nil
	}
	for i, c := range raw {
		if i == 0 {
			if !isASCIIAlpha(c) {
				return "", fmt.Errorf("tag name must begin with an alphabetic character, got %q", c)
			}
			continue
		}
		if !isASCIIAlpha(c) && !isASCIIDigit(c) && c != '-' && c != '_' {
			return "", fmt.Errorf("tag name must contain only alphanumeric characters, \"-\" or \"_\", got %q", c)
		}
	}
	return Tag(raw), nil
}

func isASCIIAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func (t *Tag) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	tag, err := ParseTag(raw)
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// TagSet is an unordered set of tags.
type TagSet map[Tag]struct{}

// NewTagSet builds a set from pre-validated tags.
func NewTagSet(tags ...Tag) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// Contains reports whether the tag is in the set.
func (s TagSet) Contains(t Tag) bool {
	_, ok := s[t]
	return ok
}

// ContainsAll reports whether every tag of other is in the set.
func (s TagSet) ContainsAll(other TagSet) bool {
	for t := range other {
		if !s.Contains(t) {
			return false
		}
	}
	return true
}

// Union inserts every tag of other into the set.
func (s TagSet) Union(other TagSet) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// Sorted returns the tags in lexical order, for deterministic output.
func (s TagSet) Sorted() []Tag {
	tags := make([]Tag, 0, len(s))
	for t := range s {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

func (s *TagSet) UnmarshalYAML(value *yaml.Node) error {
	var raw []Tag
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = NewTagSet(raw...)
	return nil
}
