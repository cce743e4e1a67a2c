package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haivivi/vecfiles/pkg/journal"
	"github.com/haivivi/vecfiles/pkg/vsclient"
	"github.com/haivivi/vecfiles/pkg/vsclient/mock"
)

type testEnv struct {
	backend *mock.Mock
	config  string
	dir     string
}

// setupTestEnv points the CLI at a fresh config file and an in-memory
// backend, with a current context whose journal lives in the temp dir.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		backend: mock.New(),
		config:  filepath.Join(dir, "config.yaml"),
		dir:     dir,
	}
	testBackendOverride = env.backend
	t.Cleanup(func() { testBackendOverride = nil })

	if _, _, err := env.run(t, "config", "add-context", "test", "--journal-dir", filepath.Join(dir, "journal")); err != nil {
		t.Fatalf("add-context: %v", err)
	}
	if _, _, err := env.run(t, "config", "use-context", "test"); err != nil {
		t.Fatalf("use-context: %v", err)
	}
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runCmd(t, append([]string{"--config", e.config}, args...)...)
}

// client talks to the same backend the commands use.
func (e *testEnv) client() *vsclient.Client {
	return vsclient.NewWithBackend(e.backend)
}

func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	var outBuf, errBuf bytes.Buffer
	outBuf.ReadFrom(rOut)
	errBuf.ReadFrom(rErr)

	resetFlags(rootCmd)
	return outBuf.String(), errBuf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Changed = false
		f.Value.Set(f.DefValue)
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestStoreCreateTakenName(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := env.run(t, "store", "create", "docs", "--json")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	var vs vsclient.VectorStore
	if err := json.Unmarshal([]byte(stdout), &vs); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if vs.Name != "docs" || vs.ID == "" {
		t.Fatalf("created store = %+v", vs)
	}

	stdout, stderr, err := env.run(t, "store", "create", "docs")
	if err != nil {
		t.Fatalf("second create should exit 0, got %v", err)
	}
	if strings.TrimSpace(stdout) != "" {
		t.Errorf("second create wrote to stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "already exists") {
		t.Errorf("expected a warning, got: %q", stderr)
	}

	stores, err := env.client().ListVectorStores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stores) != 1 {
		t.Fatalf("stores = %d, want 1", len(stores))
	}
}

func TestSyncPartialFailureExitsNonZero(t *testing.T) {
	env := setupTestEnv(t)

	docs := filepath.Join(env.dir, "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{"a.txt": "alpha", "b.txt": "beta"} {
		if err := os.WriteFile(filepath.Join(docs, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	manifest := filepath.Join(env.dir, "kb.yaml")
	if err := os.WriteFile(manifest, []byte("store: kb\nsource: docs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	env.backend.FailUpload("b.txt", errors.New("quota exceeded"))

	stdout, stderr, err := env.run(t, "sync", "-f", manifest, "--json")
	if err == nil {
		t.Fatal("expected sync to fail")
	}
	if !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(stderr, "incomplete") {
		t.Errorf("expected an incomplete summary on stderr, got: %q", stderr)
	}

	var run journal.Run
	if err := json.Unmarshal([]byte(stdout), &run); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if got := run.Summary(); got.Uploaded != 1 || got.Failed != 1 {
		t.Errorf("summary = %+v", got)
	}

	stdout, _, err = env.run(t, "journal", "list", "--json")
	if err != nil {
		t.Fatalf("journal list: %v", err)
	}
	var runs []journal.Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID || runs[0].Context != "test" {
		t.Fatalf("journaled runs = %+v", runs)
	}
}

func TestStoreFilenamesKeepsErrors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	client := env.client()

	vs, _, err := client.EnsureVectorStore(ctx, "kb")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, name := range []string{"a.txt", "b.txt"} {
		f, err := client.UploadFile(ctx, strings.NewReader(name), name, vsclient.DefaultPurpose)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := client.CreateVectorStoreFile(ctx, vs.ID, f.ID); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, f.ID)
	}
	// The membership of b.txt now dangles.
	if err := client.DeleteFile(ctx, ids[1]); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := env.run(t, "store", "filenames", "kb", "--json")
	if err != nil {
		t.Fatalf("filenames: %v", err)
	}
	var entries []filename
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	for _, e := range entries {
		switch e.MembershipID {
		case ids[0]:
			if e.Filename != "a.txt" || e.Error != "" {
				t.Errorf("resolved entry = %+v", e)
			}
		case ids[1]:
			if e.Filename != "" || e.Error == "" {
				t.Errorf("dangling entry = %+v", e)
			}
		default:
			t.Errorf("unexpected entry %+v", e)
		}
	}

	stdout, _, err = env.run(t, "store", "filenames", "kb", "--json", "-q", ".[] | select(.error) | .membership_id")
	if err != nil {
		t.Fatalf("filenames with query: %v", err)
	}
	if got := strings.TrimSpace(stdout); got != `"`+ids[1]+`"` {
		t.Errorf("query output = %q, want %q", got, ids[1])
	}
}
