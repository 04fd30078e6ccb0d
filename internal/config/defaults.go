package config

import "github.com/Masterminds/semver/v3"

// DefaultConfigFile is the dotfile name probed during discovery.
const DefaultConfigFile = ".kfwd"

// SupportedVersions is the inclusive range of document versions a loader
// accepts. The range is passed explicitly so tests can exercise arbitrary
// ranges.
type SupportedVersions struct {
	Lowest  *semver.Version
	Highest *semver.Version
}

// Contains reports whether v lies within the range, inclusive.
func (sv SupportedVersions) Contains(v *semver.Version) bool {
	return !v.LessThan(sv.Lowest) && !v.GreaterThan(sv.Highest)
}

// DefaultSupportedVersions is the range this build of kfwd understands.
var DefaultSupportedVersions = SupportedVersions{
	Lowest:  semver.MustParse("0.1.0"),
	Highest: semver.MustParse("0.3.0"),
}
