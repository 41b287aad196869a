package utils

import (
	"fmt"
	"os"
)

// MustNotExist returns an error when path already exists.
func MustNotExist(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file or directory: %s", path)
	}
	return nil
}
