// Package utils holds small shared helpers.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}

	return filepath.Abs(path)
}
