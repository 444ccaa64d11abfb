// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// valueExts are the extensions of files read as values when a directory
// is expanded.
var valueExts = map[string]bool{
	".gleam": true,
	".json":  true,
	".yaml":  true,
	".yml":   true,
}

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// value files found recursively under the given directory. Non-pattern
// arguments pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findValueFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return out, nil
}

func findValueFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if valueExts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes drops the paths matching any of the exclude patterns.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether a pattern matches the whole path, its base
// name, or any one of its directory components.
func matchesAny(path string, patterns []string) bool {
	components := splitPath(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, filepath.ToSlash(path)); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pat, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the components of path, base name last.
func splitPath(path string) []string {
	return strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
}
