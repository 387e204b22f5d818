package codegen

import (
	"fmt"
	"os"
)

// Emit writes header followed by body to path in a single write, truncating
// any existing file. A failed write may leave a partial file behind; the
// next successful run replaces it entirely.
func Emit(path string, header, body []byte) error {
	buf := make([]byte, 0, len(header)+len(body))
	buf = append(buf, header...)
	buf = append(buf, body...)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
