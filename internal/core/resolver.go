package core

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ReadFunc reads a whole file.
type ReadFunc func(name string) ([]byte, error)

// InputResolver expands input patterns into a sorted InputSet.
//
// Expansion only stats the filesystem; file contents are read through Read,
// which is where instrumented reads are reported.
type InputResolver struct {
	// BaseDir anchors relative patterns.
	BaseDir string

	// Read loads file content. Defaults to os.ReadFile.
	Read ReadFunc
}

// NewInputResolver creates an InputResolver that reads through read. A nil
// read falls back to os.ReadFile.
func NewInputResolver(baseDir string, read ReadFunc) *InputResolver {
	if read == nil {
		read = os.ReadFile
	}
	return &InputResolver{BaseDir: baseDir, Read: read}
}

// Resolve expands patterns and reads every matched file once, in path order.
// Directories are skipped. A literal path that does not exist is ignored,
// matching a glob with no matches.
func (r *InputResolver) Resolve(patterns []string) (*InputSet, error) {
	set := &InputSet{Inputs: []Input{}}
	if len(patterns) == 0 {
		return set, nil
	}

	var paths []string
	for _, pattern := range patterns {
		expanded, err := r.expandPattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding pattern %q: %w", pattern, err)
		}
		paths = append(paths, expanded...)
	}
	// Directory order differs across filesystems; sort explicitly.
	slices.Sort(paths)
	paths = slices.Compact(paths)

	for _, path := range paths {
		content, err := r.Read(filepath.FromSlash(path))
		if err != nil {
			return nil, fmt.Errorf("reading input %q: %w", path, err)
		}
		set.Inputs = append(set.Inputs, Input{Path: path, Content: content})
	}
	return set, nil
}

func (r *InputResolver) expandPattern(pattern string) ([]string, error) {
	full := pattern
	if !filepath.IsAbs(pattern) {
		full = filepath.Join(r.BaseDir, pattern)
	}

	matches, err := filepath.Glob(full)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 && !containsGlobChar(pattern) {
		if _, err := os.Stat(full); err == nil {
			matches = []string{full}
		}
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", match, err)
		}
		if info.IsDir() {
			continue
		}
		out = append(out, filepath.ToSlash(match))
	}
	return out, nil
}

func containsGlobChar(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', ']':
			return true
		}
	}
	return false
}
