package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sourceExts are the recognized source document extensions
var sourceExts = map[string]bool{
	".xml":   true,
	".steps": true,
	".yaml":  true,
	".yml":   true,
}

// Scanner finds test-case source documents under a root path
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all source documents under root. A root that is itself a
// source document is returned as-is, so a single file can be run
// directly.
func (s *Scanner) Scan(root string) ([]string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cases path does not exist: %s", root)
	}
	if !info.IsDir() {
		if !sourceExts[strings.ToLower(filepath.Ext(root))] {
			return nil, fmt.Errorf("cases path is not a source document: %s", root)
		}
		return []string{root}, nil
	}

	var sources []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") && name != "." && name != ".." {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		if sourceExts[strings.ToLower(filepath.Ext(d.Name()))] {
			sources = append(sources, path)
		}

		return nil
	})

	return sources, err
}
