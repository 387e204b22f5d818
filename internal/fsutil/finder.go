// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
)

// MissingFiles returns, in input order, every path that does not exist.
// Paths that exist but cannot be stat'ed for another reason are reported as
// an error instead, since their existence is unknown.
func MissingFiles(paths []string) ([]string, error) {
	var missing []string
	for _, p := range paths {
		_, err := os.Stat(p)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, p)
		default:
			return nil, err
		}
	}
	return missing, nil
}
