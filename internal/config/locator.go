package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// For mocking in tests
var (
	osGetwd         = os.Getwd
	osUserHomeDir   = os.UserHomeDir
	osUserConfigDir = os.UserConfigDir
)

// Source describes where a configuration document came from and how it is
// to be handled. Provenance metadata, never merged into the document.
type Source struct {
	// Path to the file, relative to the working directory when nearby.
	Path string
	// AutoDetected is true when the file was discovered rather than named
	// on the command line.
	AutoDetected bool
	// LoadConfigOnly restricts the source to its operational settings; its
	// targets are discarded after parsing.
	LoadConfigOnly bool
}

// SourceContent pairs a source with its raw file content.
type SourceContent struct {
	Source Source
	Data   []byte
}

// relPathMaxDepth bounds how far up the hierarchy discovered files are
// still reported relative to the working directory.
const relPathMaxDepth = 4

// Locate enumerates configuration files: explicit files first, then the
// default-named file in the working directory and each of its parents, then
// the user's home directory and the user's platform config directory.
// Explicit files that cannot be read are a hard error; auto-detected
// candidates that cannot be read are skipped. Every visited file and
// directory is tracked by canonical identity so symlinked paths are not
// read twice. When explicit files are given, all auto-detected sources are
// restricted to their operational settings.
func Locate(explicit []string) ([]SourceContent, error) {
	var sources []SourceContent
	var visited visitTracker

	loadConfigOnly := len(explicit) > 0

	for _, path := range explicit {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		seen, err := visited.visit(path)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if seen {
			continue
		}
		sources = append(sources, SourceContent{
			Source: Source{Path: path},
			Data:   data,
		})
	}

	workingDir, err := osGetwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}

	dir := workingDir
	for depth := 0; ; depth++ {
		if seen, err := visited.visit(dir); err == nil && !seen {
			path := filepath.Join(dir, DefaultConfigFile)
			if src, ok := readAutoDetected(&visited, path, loadConfigOnly); ok {
				// Keep nearby paths relative for readability.
				if depth <= relPathMaxDepth {
					if rel, err := filepath.Rel(workingDir, path); err == nil {
						src.Source.Path = rel
					}
				}
				sources = append(sources, src)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if home, err := osUserHomeDir(); err == nil {
		if seen, err := visited.visit(home); err == nil && !seen {
			path := filepath.Join(home, DefaultConfigFile)
			if src, ok := readAutoDetected(&visited, path, loadConfigOnly); ok {
				sources = append(sources, src)
			}
		}
	}

	if configDir, err := osUserConfigDir(); err == nil {
		if seen, err := visited.visit(configDir); err == nil && !seen {
			path := filepath.Join(configDir, DefaultConfigFile)
			if src, ok := readAutoDetected(&visited, path, loadConfigOnly); ok {
				sources = append(sources, src)
			}
		}
	}

	if len(sources) == 0 {
		return nil, ErrNoConfig
	}
	return sources, nil
}

func readAutoDetected(visited *visitTracker, path string, loadConfigOnly bool) (SourceContent, bool) {
	seen, err := visited.visit(path)
	if err != nil || seen {
		return SourceContent{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceContent{}, false
	}
	return SourceContent{
		Source: Source{
			Path:           path,
			AutoDetected:   true,
			LoadConfigOnly: loadConfigOnly,
		},
		Data: data,
	}, true
}
