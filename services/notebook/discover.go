// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package notebook

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultIgnorePatterns are skipped during directory discovery.
var DefaultIgnorePatterns = []string{
	`\.ipynb_checkpoints`,
	`__pycache__`,
	`\.git`,
}

// DefaultExtensions are the cell document extensions picked up from directories.
var DefaultExtensions = []string{".json", ".yaml", ".yml"}

// Discoverer finds cell documents under a set of roots.
type Discoverer struct {
	ignore     []*regexp.Regexp
	extensions map[string]bool
}

// NewDiscoverer compiles the ignore patterns.
//
// Nil patterns or extensions fall back to the defaults. An empty,
// non-nil slice disables filtering for that dimension.
func NewDiscoverer(ignorePatterns, extensions []string) (*Discoverer, error) {
	if ignorePatterns == nil {
		ignorePatterns = DefaultIgnorePatterns
	}
	if extensions == nil {
		extensions = DefaultExtensions
	}

	d := &Discoverer{extensions: make(map[string]bool, len(extensions))}
	for _, p := range ignorePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", p, err)
		}
		d.ignore = append(d.ignore, re)
	}
	for _, ext := range extensions {
		d.extensions[strings.ToLower(ext)] = true
	}
	return d, nil
}

// Ignored reports whether a path matches any ignore pattern.
func (d *Discoverer) Ignored(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, re := range d.ignore {
		if re.MatchString(slashed) {
			return true
		}
	}
	return false
}

// Matches reports whether a file found during a walk would be picked up:
// it has a known extension and no ignore pattern matches.
func (d *Discoverer) Matches(path string) bool {
	return d.hasExtension(path) && !d.Ignored(path)
}

func (d *Discoverer) hasExtension(path string) bool {
	return len(d.extensions) == 0 || d.extensions[strings.ToLower(filepath.Ext(path))]
}

// Discover expands roots into a sorted, de-duplicated list of files.
//
// Description:
//
//	A root that is a file is returned as given, regardless of extension
//	or ignore patterns, because the caller named it explicitly. A root
//	that is a directory is walked; ignored directories are pruned and
//	only files with a known extension are kept.
//
// Outputs:
//
//	[]string - File paths sorted lexically.
//	error    - Non-nil if a root does not exist or a walk fails.
func (d *Discoverer) Discover(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, &LoadError{Path: root, Cause: err}
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && d.Ignored(path) {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if entry.IsDir() {
				return nil
			}
			if d.hasExtension(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
