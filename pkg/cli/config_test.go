package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"1234", "****"},
		{"12345678", "********"},
		{"123456789", "1234*6789"},
		{"sk-1234567890abcdef", "sk-1***********cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := MaskAPIKey(tt.key); got != tt.want {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestContext_Extra(t *testing.T) {
	ctx := &Context{Name: "test"}
	if got := ctx.GetExtra("key"); got != "" {
		t.Errorf("GetExtra on nil map = %q, want empty string", got)
	}
	ctx.SetExtra("key", "value")
	if got := ctx.GetExtra("key"); got != "value" {
		t.Errorf("GetExtra(key) = %q, want %q", got, "value")
	}
}

func TestLoadConfigWithPath_NewConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfigWithPath("vecfiles", path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if cfg.Dir() != filepath.Dir(path) {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), filepath.Dir(path))
	}
	if len(cfg.Contexts) != 0 {
		t.Errorf("new config has %d contexts", len(cfg.Contexts))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath("vecfiles", path)
	if err != nil {
		t.Fatal(err)
	}

	retries := 0
	if err := cfg.AddContext("work", &Context{
		APIKey:     "sk-work",
		BaseURL:    "http://localhost:8080/v1/",
		Timeout:    30,
		MaxRetries: &retries,
		TieBreak:   "newest",
	}); err != nil {
		t.Fatalf("AddContext: %v", err)
	}
	if err := cfg.UseContext("work"); err != nil {
		t.Fatalf("UseContext: %v", err)
	}

	loaded, err := LoadConfigWithPath("vecfiles", path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.CurrentContext != "work" {
		t.Errorf("CurrentContext = %q, want work", loaded.CurrentContext)
	}
	ctx, err := loaded.GetCurrentContext()
	if err != nil {
		t.Fatalf("GetCurrentContext: %v", err)
	}
	if ctx.Name != "work" || ctx.APIKey != "sk-work" || ctx.Timeout != 30 || ctx.TieBreak != "newest" {
		t.Errorf("context = %+v", ctx)
	}
	if ctx.MaxRetries == nil || *ctx.MaxRetries != 0 {
		t.Errorf("MaxRetries = %v, want pointer to 0", ctx.MaxRetries)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}
}

func TestConfig_AddContext_EmptyName(t *testing.T) {
	cfg, err := LoadConfigWithPath("vecfiles", filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddContext("  ", &Context{}); err == nil {
		t.Error("AddContext with blank name should fail")
	}
}

func TestConfig_DeleteContext(t *testing.T) {
	cfg, err := LoadConfigWithPath("vecfiles", filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	_ = cfg.AddContext("a", &Context{})
	_ = cfg.UseContext("a")

	if err := cfg.DeleteContext("a"); err != nil {
		t.Fatalf("DeleteContext: %v", err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext = %q after deleting it", cfg.CurrentContext)
	}
	if err := cfg.DeleteContext("a"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("second DeleteContext err = %v", err)
	}
}

func TestConfig_ResolveContext(t *testing.T) {
	cfg, err := LoadConfigWithPath("vecfiles", filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cfg.ResolveContext(""); err == nil {
		t.Error("ResolveContext with no current context should fail")
	}

	_ = cfg.AddContext("b", &Context{})
	_ = cfg.AddContext("a", &Context{})
	_ = cfg.UseContext("b")

	ctx, err := cfg.ResolveContext("")
	if err != nil || ctx.Name != "b" {
		t.Errorf("ResolveContext(\"\") = %v, %v", ctx, err)
	}
	ctx, err = cfg.ResolveContext("a")
	if err != nil || ctx.Name != "a" {
		t.Errorf("ResolveContext(a) = %v, %v", ctx, err)
	}
	if _, err := cfg.ResolveContext("missing"); err == nil {
		t.Error("ResolveContext(missing) should fail")
	}

	names := cfg.ListContexts()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("ListContexts() = %v, want [a b]", names)
	}
}

func TestPaths(t *testing.T) {
	p := &Paths{AppName: "vecfiles", HomeDir: "/home/u"}
	if got, want := p.ConfigFile(), filepath.Join("/home/u", ".vecfiles", "vecfiles", "config.yaml"); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
	if got, want := p.DataPath("journal"), filepath.Join("/home/u", ".vecfiles", "vecfiles", "data", "journal"); got != want {
		t.Errorf("DataPath() = %q, want %q", got, want)
	}
}
