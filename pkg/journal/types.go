package journal

import (
	"strconv"
	"time"
)

// Run is one sync invocation.
type Run struct {
	ID string `json:"id" yaml:"id" msgpack:"id"`

	// Timestamp is the start time in Unix nanoseconds. It orders runs.
	Timestamp  int64 `json:"ts" yaml:"ts" msgpack:"ts"`
	FinishedAt int64 `json:"finished_at,omitempty" yaml:"finished_at,omitempty" msgpack:"fin,omitempty"`

	// Context is the CLI context the run used.
	Context string `json:"context,omitempty" yaml:"context,omitempty" msgpack:"ctx,omitempty"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty" msgpack:"src,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty" msgpack:"dry,omitempty"`

	Store StoreOutcome  `json:"store" yaml:"store" msgpack:"store"`
	Files []FileOutcome `json:"files,omitempty" yaml:"files,omitempty" msgpack:"files,omitempty"`

	// Error is set when the run aborted before processing every file.
	Error string `json:"error,omitempty" yaml:"error,omitempty" msgpack:"err,omitempty"`
}

// StoreOutcome is the vector store a run resolved.
type StoreOutcome struct {
	Name    string `json:"name" yaml:"name" msgpack:"name"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Created bool   `json:"created,omitempty" yaml:"created,omitempty" msgpack:"created,omitempty"`
}

// FileOutcome is what happened to one source file.
type FileOutcome struct {
	Path     string `json:"path" yaml:"path" msgpack:"path"`
	Filename string `json:"filename" yaml:"filename" msgpack:"name"`
	FileID   string `json:"file_id,omitempty" yaml:"file_id,omitempty" msgpack:"fid,omitempty"`
	Uploaded bool   `json:"uploaded,omitempty" yaml:"uploaded,omitempty" msgpack:"up,omitempty"`

	MembershipID string `json:"membership_id,omitempty" yaml:"membership_id,omitempty" msgpack:"mid,omitempty"`
	Attached     bool   `json:"attached,omitempty" yaml:"attached,omitempty" msgpack:"att,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty" msgpack:"status,omitempty"`

	Error string `json:"error,omitempty" yaml:"error,omitempty" msgpack:"err,omitempty"`
}

// Summary counts a run's outcomes.
type Summary struct {
	Uploaded int `json:"uploaded" yaml:"uploaded"`
	Reused   int `json:"reused" yaml:"reused"`
	Attached int `json:"attached" yaml:"attached"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Summary tallies the file outcomes.
func (r *Run) Summary() Summary {
	var s Summary
	for _, f := range r.Files {
		switch {
		case f.Error != "":
			s.Failed++
			continue
		case f.Uploaded:
			s.Uploaded++
		default:
			s.Reused++
		}
		if f.Attached {
			s.Attached++
		}
	}
	return s
}

// Started returns the start time.
func (r *Run) Started() time.Time {
	return time.Unix(0, r.Timestamp)
}

// Duration is zero for runs without a finish time.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == 0 {
		return 0
	}
	return time.Duration(r.FinishedAt - r.Timestamp)
}

// Runs renders as a table in the CLI.
type Runs []Run

func (rs Runs) TableHeaders() []string {
	return []string{"ID", "STARTED", "STORE", "UPLOADED", "REUSED", "ATTACHED", "FAILED", "ERROR"}
}

func (rs Runs) TableRows() [][]string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		s := r.Summary()
		rows = append(rows, []string{
			r.ID,
			r.Started().Local().Format("2006-01-02 15:04:05"),
			r.Store.Name,
			strconv.Itoa(s.Uploaded),
			strconv.Itoa(s.Reused),
			strconv.Itoa(s.Attached),
			strconv.Itoa(s.Failed),
			r.Error,
		})
	}
	return rows
}
