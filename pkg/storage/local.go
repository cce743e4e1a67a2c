package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Local implements Source on top of a local directory.
type Local struct {
	root string
}

// NewLocal creates a Local source rooted at dir. The directory must exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %s is not a directory", abs)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string { return l.root }

// rel turns a source path into a root-relative name. Leading "..", "/"
// and the like are cleaned away; an empty path is an error.
func (l *Local) rel(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("storage: empty path")
	}
	return filepath.FromSlash(strings.TrimPrefix(clean, "/")), nil
}

// Open and Stat go through os.Root, so symlinks that lead out of the root
// fail instead of being followed.

func (l *Local) Open(_ context.Context, p string) (io.ReadCloser, error) {
	name, err := l.rel(p)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenInRoot(l.root, name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (l *Local) Stat(_ context.Context, p string) (Object, error) {
	name, err := l.rel(p)
	if err != nil {
		return Object{}, err
	}
	root, err := os.OpenRoot(l.root)
	if err != nil {
		return Object{}, err
	}
	defer root.Close()
	info, err := root.Stat(name)
	if err != nil {
		return Object{}, err
	}
	if info.IsDir() {
		return Object{}, fmt.Errorf("storage: %s is a directory: %w", p, fs.ErrNotExist)
	}
	return Object{Path: filepath.ToSlash(name), Size: info.Size(), ModTime: info.ModTime()}, nil
}

// List walks the tree under prefix. A prefix naming a single file returns
// just that file; a missing prefix returns an empty list.
func (l *Local) List(ctx context.Context, prefix string) ([]Object, error) {
	start := l.root
	if p := strings.Trim(prefix, "/"); p != "" {
		name, err := l.rel(p)
		if err != nil {
			return nil, err
		}
		start = filepath.Join(l.root, name)
	}

	var out []Object
	err := filepath.WalkDir(start, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && full == start {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.root, full)
		if err != nil {
			return err
		}
		out = append(out, Object{Path: filepath.ToSlash(rel), Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

var _ Source = (*Local)(nil)
