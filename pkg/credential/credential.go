// Package credential resolves the API key used to build a vsclient.Client.
//
// Sources are tried in order: an explicit value, the OPENAI_API_KEY
// environment variable, then a key file. The first non-blank value wins.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/haivivi/vecfiles/pkg/vsclient"
)

const (
	// EnvAPIKey is the environment variable consulted by Resolve.
	EnvAPIKey = "OPENAI_API_KEY"

	// DefaultKeyFile is the key file location relative to the working
	// directory.
	DefaultKeyFile = "APIKeys/openaiapikey.txt"
)

// ErrNoCredential is returned when no source yields a key. It matches
// vsclient.ErrInvalidCredential under errors.Is, the error vsclient.New
// returns for a blank key.
var ErrNoCredential = fmt.Errorf("credential: no API key found: %w", vsclient.ErrInvalidCredential)

// Source names where a key came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceEnv      Source = "env"
	SourceFile     Source = "file"
)

// ReadFile reads a key file and trims surrounding whitespace. A missing file
// returns an error wrapping os.ErrNotExist; an empty file returns
// ErrNoCredential.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("credential: read %s: %w", path, err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("credential: %s is empty: %w", path, ErrNoCredential)
	}
	return key, nil
}

// Resolve returns the first available key. keyFile may be empty to use
// DefaultKeyFile. A missing key file is not an error unless no other source
// produced a key.
func Resolve(explicit, keyFile string) (string, Source, error) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, SourceExplicit, nil
	}
	if k := strings.TrimSpace(os.Getenv(EnvAPIKey)); k != "" {
		return k, SourceEnv, nil
	}
	if keyFile == "" {
		keyFile = DefaultKeyFile
	}
	k, err := ReadFile(keyFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%w (tried --api-key, $%s, %s)", ErrNoCredential, EnvAPIKey, keyFile)
		}
		return "", "", err
	}
	return k, SourceFile, nil
}
