// Package syncer makes a vector store hold a declared set of files. A
// Manifest names the store and the files; Run resolves each piece with the
// get-or-create operations of vsclient, so repeated runs reuse what already
// exists instead of duplicating it.
package syncer

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/storage"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

// Manifest declares the desired state of one vector store.
//
//	store: product-docs
//	purpose: assistants
//	source: s3://docs-bucket/product
//	files:
//	  - guide.pdf
//	  - faq.md
type Manifest struct {
	// Store is the vector store name. Required.
	Store string `json:"store" yaml:"store" toml:"store"`

	// Purpose applies to uploaded files. Empty means user_data.
	Purpose string `json:"purpose,omitempty" yaml:"purpose,omitempty" toml:"purpose"`

	// Source is a directory or s3://bucket/prefix. Empty means the
	// manifest's own directory.
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source"`

	// Files lists paths relative to Source. Empty means every file there.
	Files []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files"`

	// S3 configures access when Source is an s3:// URI.
	S3 *S3Settings `json:"s3,omitempty" yaml:"s3,omitempty" toml:"s3"`
}

// S3Settings are the non-secret S3 connection settings. Keys come from the
// environment.
type S3Settings struct {
	Region    string `json:"region,omitempty" yaml:"region,omitempty" toml:"region"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint"`
	PathStyle bool   `json:"path_style,omitempty" yaml:"path_style,omitempty" toml:"path_style"`
}

// LoadManifest reads a YAML, JSON or TOML manifest and validates it. A
// relative local Source is resolved against the manifest's directory.
func LoadManifest(file string) (*Manifest, error) {
	var m Manifest
	if err := cli.LoadRequest(file, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if file != "-" {
		loc, err := storage.ParseLocation(m.Source)
		if err == nil && !loc.IsS3() && !filepath.IsAbs(loc.Path) && !strings.HasPrefix(m.Source, "file://") {
			m.Source = filepath.Join(filepath.Dir(file), loc.Path)
		}
	}
	return &m, nil
}

// Validate checks required fields and the source URI.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Store) == "" {
		return errors.New("manifest: store is required")
	}
	if _, err := storage.ParseLocation(m.Source); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	seen := make(map[string]string, len(m.Files))
	for _, f := range m.Files {
		if strings.TrimSpace(f) == "" {
			return errors.New("manifest: empty file entry")
		}
		base := path.Base(f)
		if prev, dup := seen[base]; dup {
			return fmt.Errorf("manifest: %q and %q share the remote name %q", prev, f, base)
		}
		seen[base] = f
	}
	return nil
}

// FilePurpose returns the upload purpose.
func (m *Manifest) FilePurpose() vsclient.FilePurpose {
	if m.Purpose == "" {
		return vsclient.DefaultPurpose
	}
	return vsclient.FilePurpose(m.Purpose)
}

// Location parses Source.
func (m *Manifest) Location() (storage.Location, error) {
	return storage.ParseLocation(m.Source)
}

// S3Config returns the storage settings for an s3 Source.
func (m *Manifest) S3Config() storage.S3Config {
	if m.S3 == nil {
		return storage.S3Config{}
	}
	return storage.S3Config{Region: m.S3.Region, Endpoint: m.S3.Endpoint, PathStyle: m.S3.PathStyle}
}
