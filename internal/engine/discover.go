package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverSources walks baseDir with filepath.Walk, skipping hidden
// directories and files, and returns every relative, slash-normalized
// path matching at least one of patterns, deduplicated and sorted
// lexicographically. path/filepath.Match has no "**" support, so
// matchGlob below handles the multi-segment case itself.
func DiscoverSources(baseDir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var matched []string

	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != baseDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, pat := range patterns {
			if matchGlob(pat, rel) {
				if !seen[rel] {
					seen[rel] = true
					matched = append(matched, rel)
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", baseDir, err)
	}

	sort.Strings(matched)
	return matched, nil
}

// matchGlob matches path against a pattern where "**" stands for any
// number of path segments (including zero) and "*"/"?"/"[...]" retain
// their path/filepath.Match meaning within a single segment.
func matchGlob(pattern, path string) bool {
	return matchParts(strings.Split(pattern, "/"), strings.Split(path, "/"))
}

func matchParts(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		if matchParts(pattern[1:], path) {
			return true
		}
		if len(path) == 0 {
			return false
		}
		return matchParts(pattern, path[1:])
	}
	if len(path) == 0 {
		return false
	}
	ok, err := filepath.Match(pattern[0], path[0])
	if err != nil || !ok {
		return false
	}
	return matchParts(pattern[1:], path[1:])
}
