package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type sampleList []sample

func (l sampleList) TableHeaders() []string { return []string{"ID", "NAME"} }
func (l sampleList) TableRows() [][]string {
	rows := make([][]string, len(l))
	for i, s := range l {
		rows[i] = []string{s.ID, s.Name}
	}
	return rows
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sample{ID: "file-1", Name: "a.txt"}, OutputOptions{Format: FormatJSON, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if got["id"] != "file-1" {
		t.Errorf("id = %v, want file-1", got["id"])
	}
}

func TestOutput_YAMLDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sample{ID: "file-1", Name: "a.txt"}, OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "name: a.txt") {
		t.Errorf("YAML output = %q", buf.String())
	}
}

func TestOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	list := sampleList{{ID: "file-1", Name: "a.txt"}, {ID: "file-2", Name: "b.txt"}}
	if err := Output(list, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "NAME", "file-1", "b.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestOutput_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sampleList{}, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "(none)") {
		t.Errorf("empty table output = %q", buf.String())
	}
}

func TestOutput_TableFallsBackToYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(sample{ID: "x"}, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "id: x") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestOutput_Query(t *testing.T) {
	var buf bytes.Buffer
	list := sampleList{{ID: "file-1", Name: "a.txt"}, {ID: "file-2", Name: "b.txt"}}
	err := Output(list, OutputOptions{Format: FormatJSON, Writer: &buf, Query: ".[] | .id"})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if got, want := buf.String(), "\"file-1\"\n\"file-2\"\n"; got != want {
		t.Errorf("query output = %q, want %q", got, want)
	}
}

func TestQuery(t *testing.T) {
	values, err := Query(map[string]any{"n": 2, "items": []string{"a", "b"}}, ".items | length")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("got %d values", len(values))
	}
	if n, ok := values[0].(int); !ok || n != 2 {
		t.Errorf("length = %#v, want 2", values[0])
	}

	if _, err := Query(nil, ".[[["); err == nil {
		t.Error("invalid query should fail")
	}
	if _, err := Query("text", ".foo"); err == nil {
		t.Error("indexing a string should fail")
	}
}

func TestOutput_Raw(t *testing.T) {
	var buf bytes.Buffer
	if err := Output("hello", OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("raw output = %q", buf.String())
	}
}

func TestOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Output(sample{ID: "f"}, OutputOptions{Format: FormatJSON, File: path}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"id": "f"`) {
		t.Errorf("file content = %s", data)
	}
}

func TestOutput_UnknownFormat(t *testing.T) {
	if err := Output(1, OutputOptions{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "yaml", "json", "table", "raw"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("ParseFormat(csv) should fail")
	}
}
