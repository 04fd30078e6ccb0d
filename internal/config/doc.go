// Package config resolves the cascading .kfwd configuration hierarchy.
//
// Configuration files are discovered along the working directory's parent
// chain, then in the user's home and platform config directories. Each file
// is parsed into a Document, gated against the supported version range and
// folded into a single resolved Document under first-non-empty-wins
// precedence, closest files winning over farther ones.
package config
