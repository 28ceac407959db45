package csvload

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// validator handles input validation for the Loader.
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validatePaths validates the whole path list before any file is read.
// An empty list fails immediately, before touching the filesystem.
func (v *validator) validatePaths(paths []string) error {
	if len(paths) == 0 {
		return ErrEmptyPathList
	}

	for _, path := range paths {
		if err := v.validatePath(path); err != nil {
			return err
		}
	}
	return nil
}

// validatePath validates a single file path.
func (v *validator) validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("csvload: path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("csvload: failed to stat path %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path)
	}

	if !isSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return nil
}
