package testgap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindFiles lists files in dir whose name ends with ext. Subdirectories are
// not searched, and directories and dot-files never match. names holds base
// names and paths the joined paths, both sorted by name.
//
// A directory that does not exist yields no files.
func FindFiles(dir, ext string) (names, paths []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("testgap: list %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, name)
		paths = append(paths, filepath.Join(dir, name))
	}
	return names, paths, nil
}
