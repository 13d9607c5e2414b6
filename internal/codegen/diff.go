package codegen

import (
	"fmt"
	"os"

	udiff "github.com/aymanbagabas/go-udiff"
)

// Diff returns a unified diff between the file at path and generated. The
// result is empty when the file is up to date. A missing file diffs against
// empty content.
func Diff(path string, generated []byte) (string, error) {
	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if string(current) == string(generated) {
		return "", nil
	}
	return udiff.Unified(path, path+" (generated)", string(current), string(generated)), nil
}
