package cli

import (
	"os"
	"path/filepath"
)

// Paths resolves the per-app directory layout under ~/.vecfiles.
type Paths struct {
	AppName string
	HomeDir string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{
		AppName: appName,
		HomeDir: home,
	}, nil
}

// AppDir returns ~/.vecfiles/<app>
func (p *Paths) AppDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir, p.AppName)
}

// ConfigFile returns ~/.vecfiles/<app>/config.yaml
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// DataDir returns ~/.vecfiles/<app>/data
func (p *Paths) DataDir() string {
	return filepath.Join(p.AppDir(), "data")
}

// DataPath returns a path within the data directory
func (p *Paths) DataPath(name string) string {
	return filepath.Join(p.DataDir(), name)
}

// EnsureDataDir creates the data directory if it doesn't exist
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir(), 0755)
}
