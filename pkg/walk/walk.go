// Package walk lists the files of a directory tree without recursion, so
// nesting depth is bounded by memory rather than the call stack.
package walk

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Entry is a file found under a walk root.
type Entry struct {
	Path string // absolute (or root-joined) path on disk
	Rel  string // path relative to the root, always '/'-separated
	Name string // base name
	Dir  bool
}

// Predicate decides whether a file is included. It receives the file's path
// and base name.
type Predicate func(path, name string) bool

// Files returns every regular file under root accepted by pred (nil accepts
// all). Order is unspecified. A missing root yields no entries and no error.
func Files(root string, pred Predicate) ([]Entry, error) {
	return walk(root, pred, false)
}

// Tree is Files plus an entry for every directory below root, whether or not
// it holds accepted files. Directories come before their contents.
func Tree(root string, pred Predicate) ([]Entry, error) {
	return walk(root, pred, true)
}

func walk(root string, pred Predicate, withDirs bool) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}

	var entries []Entry
	stack := []string{root}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dirEntries, err := os.ReadDir(current)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read directory %s", current)
		}

		for _, de := range dirEntries {
			path := filepath.Join(current, de.Name())
			if de.IsDir() {
				stack = append(stack, path)
				if !withDirs {
					continue
				}
			} else if pred != nil && !pred(path, de.Name()) {
				continue
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to relativize %s", path)
			}
			entries = append(entries, Entry{
				Path: path,
				Rel:  filepath.ToSlash(rel),
				Name: de.Name(),
				Dir:  de.IsDir(),
			})
		}
	}

	return entries, nil
}

// Count returns the number of files Files would return.
func Count(root string, pred Predicate) (int, error) {
	entries, err := Files(root, pred)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
