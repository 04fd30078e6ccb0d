package config

import "os"

// visitTracker records filesystem locations by canonical identity so that
// reaching the same physical file or directory through a different path,
// e.g. via a symlink, is detected as a revisit.
type visitTracker struct {
	seen []os.FileInfo
}

// visit records the path and reports whether it was seen before. Identity
// is compared with os.SameFile, not by path string.
func (v *visitTracker) visit(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	for _, s := range v.seen {
		if os.SameFile(s, info) {
			return true, nil
		}
	}
	v.seen = append(v.seen, info)
	return false, nil
}
