package config

import (
	"errors"
	"fmt"
)

// ErrNoConfig is returned when no configuration file could be found
// anywhere in the discovery order.
var ErrNoConfig = errors.New("no configuration file found in the path hierarchy")

// ParseError reports a malformed configuration document, attributed to the
// source file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedVersionError reports a document version outside the supported
// range.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("configuration version %s is not supported by this application", e.Version)
}
