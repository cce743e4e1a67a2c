// Package storage defines the Source interface that sync reads upload
// content from. A Source is either a local directory or an S3-compatible
// bucket prefix, so manifests can point at either without the caller caring.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Object describes one entry in a Source.
type Object struct {
	// Path is forward-slash separated and relative to the source root.
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time,omitzero" yaml:"mod_time,omitempty"`
}

// Source is a read-only view over a tree of files.
//
// Paths are forward-slash separated and relative to the source root.
// Implementations must be safe for concurrent use.
type Source interface {
	// Open opens the named file for reading. The caller must close it.
	// A missing file returns an error wrapping os.ErrNotExist.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat describes the named file, with the same not-found contract as Open.
	Stat(ctx context.Context, path string) (Object, error)

	// List returns every file under prefix ("" for all), sorted by path.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// Location is a parsed source URI.
type Location struct {
	// Scheme is "s3" or "file".
	Scheme string
	// Bucket is set for s3 locations.
	Bucket string
	// Path is the key prefix for s3, or the directory for file.
	Path string
}

// IsS3 reports whether l points at a bucket.
func (l Location) IsS3() bool { return l.Scheme == "s3" }

func (l Location) String() string {
	if l.IsS3() {
		if l.Path == "" {
			return "s3://" + l.Bucket
		}
		return "s3://" + l.Bucket + "/" + l.Path
	}
	return l.Path
}

// ParseLocation parses "s3://bucket/prefix", "file:///dir" or a plain
// directory path. An empty string means the current directory.
func ParseLocation(uri string) (Location, error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		rest := strings.TrimPrefix(uri, "s3://")
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("storage: %q has no bucket", uri)
		}
		return Location{Scheme: "s3", Bucket: bucket, Path: strings.Trim(prefix, "/")}, nil
	case strings.HasPrefix(uri, "file://"):
		return Location{Scheme: "file", Path: strings.TrimPrefix(uri, "file://")}, nil
	case strings.Contains(uri, "://"):
		return Location{}, fmt.Errorf("storage: unsupported scheme in %q", uri)
	case uri == "":
		return Location{Scheme: "file", Path: "."}, nil
	default:
		return Location{Scheme: "file", Path: uri}, nil
	}
}

// Open returns the Source a Location points at. s3cfg is only consulted for
// s3 locations.
func Open(loc Location, s3cfg S3Config) (Source, error) {
	if !loc.IsS3() {
		l, err := NewLocal(loc.Path)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	client, err := NewS3Client(s3cfg)
	if err != nil {
		return nil, err
	}
	return NewS3(client, loc.Bucket, loc.Path), nil
}
