package credential

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/haivivi/vecfiles/pkg/vsclient"
)

func TestResolve_Explicit(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-env")
	key, src, err := Resolve("  sk-flag ", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if key != "sk-flag" || src != SourceExplicit {
		t.Errorf("Resolve = %q, %q; want sk-flag, explicit", key, src)
	}
}

func TestResolve_Env(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-env")
	key, src, err := Resolve("", filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if key != "sk-env" || src != SourceEnv {
		t.Errorf("Resolve = %q, %q; want sk-env, env", key, src)
	}
}

func TestResolve_File(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	path := filepath.Join(t.TempDir(), "key.txt")
	if err := os.WriteFile(path, []byte("sk-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	key, src, err := Resolve("", path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if key != "sk-file" || src != SourceFile {
		t.Errorf("Resolve = %q, %q; want sk-file, file", key, src)
	}
}

func TestResolve_Nothing(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	_, _, err := Resolve("", filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
	if !errors.Is(err, vsclient.ErrInvalidCredential) {
		t.Fatalf("err = %v, want vsclient.ErrInvalidCredential", err)
	}
}

func TestReadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
}
