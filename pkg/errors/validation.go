package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a file path that a document will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must not name an existing directory
//   - The parent directory must exist
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return New(ErrCodeInvalidPath, "output path %q is a directory", path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "output directory %q does not exist", dir)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "cannot access output directory %q", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "%q is not a directory", dir)
	}

	return nil
}

// ValidateRange checks the half-open interval [start, endExclusive) used at
// entry points that require at least one value.
func ValidateRange(start, endExclusive int) error {
	if start >= endExclusive {
		return New(ErrCodeInvalidRange, "start (%d) must be less than end (%d)", start, endExclusive)
	}
	return nil
}

// ValidatePositive checks that a structural setting such as a column count is
// greater than zero.
func ValidatePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidatePositiveFloat is [ValidatePositive] for measurements such as widths
// and resolutions.
func ValidatePositiveFloat(name string, v float64) error {
	if !(v > 0) {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %g", name, v)
	}
	return nil
}
