// Package filex contains small filesystem helpers used by the client to keep
// its session state between runs.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubDir creates (if needed) and returns a subdirectory of the user's
// home directory. The client keeps its cached session token there.
func EnsureSubDir(dirName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}

	dir := filepath.Join(home, dirName)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteString stores s in path with owner-only permissions, replacing any
// previous content.
func WriteString(path, s string) error {
	return os.WriteFile(path, []byte(s), 0o600)
}

// ReadString returns the trimmed content of path, or "" if the file does
// not exist.
func ReadString(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
