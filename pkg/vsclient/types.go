package vsclient

import "time"

// FilePurpose is the intended use of an uploaded file.
type FilePurpose string

// File purposes accepted by the files endpoint.
const (
	PurposeUserData   FilePurpose = "user_data"
	PurposeAssistants FilePurpose = "assistants"
	PurposeBatch      FilePurpose = "batch"
	PurposeFineTune   FilePurpose = "fine-tune"
	PurposeVision     FilePurpose = "vision"
	PurposeEvals      FilePurpose = "evals"
)

// DefaultPurpose is used when a caller passes an empty purpose.
const DefaultPurpose = PurposeUserData

// File is a remote file object. Filenames are not unique on the service.
type File struct {
	ID        string      `json:"id" yaml:"id"`
	Filename  string      `json:"filename" yaml:"filename"`
	Purpose   FilePurpose `json:"purpose" yaml:"purpose"`
	Bytes     int64       `json:"bytes" yaml:"bytes"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
	Status    string      `json:"status,omitempty" yaml:"status,omitempty"`
}

// FileCounts summarizes the processing state of files in a vector store.
type FileCounts struct {
	InProgress int64 `json:"in_progress" yaml:"in_progress"`
	Completed  int64 `json:"completed" yaml:"completed"`
	Failed     int64 `json:"failed" yaml:"failed"`
	Cancelled  int64 `json:"cancelled" yaml:"cancelled"`
	Total      int64 `json:"total" yaml:"total"`
}

// VectorStore is a named remote container of file memberships.
type VectorStore struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	Status     string     `json:"status,omitempty" yaml:"status,omitempty"`
	UsageBytes int64      `json:"usage_bytes" yaml:"usage_bytes"`
	FileCounts FileCounts `json:"file_counts" yaml:"file_counts"`
}

// Membership links a vector store to a file. Its ID is the membership
// identifier; FileID is the underlying file. On the OpenAI service the two
// carry the same value, other backends may differ.
type Membership struct {
	ID            string    `json:"id" yaml:"id"`
	VectorStoreID string    `json:"vector_store_id" yaml:"vector_store_id"`
	FileID        string    `json:"file_id" yaml:"file_id"`
	Status        string    `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UsageBytes    int64     `json:"usage_bytes" yaml:"usage_bytes"`
	LastError     string    `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}

// FilenameResult is one entry of ListVectorStoreFilenames. Exactly one of
// Filename and Err is meaningful: Err is non-nil when the membership's file
// could not be resolved.
type FilenameResult struct {
	MembershipID string `json:"membership_id" yaml:"membership_id"`
	Filename     string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Err          error  `json:"-" yaml:"-"`
}

// OK reports whether the filename was resolved.
func (r FilenameResult) OK() bool {
	return r.Err == nil
}

// TieBreak selects one resource when several share a name.
type TieBreak int

const (
	// TieBreakFirst keeps the first match in the order the service listed it.
	TieBreakFirst TieBreak = iota

	// TieBreakNewest picks the match with the latest creation time.
	TieBreakNewest
)

// String returns the policy name.
func (t TieBreak) String() string {
	switch t {
	case TieBreakFirst:
		return "first"
	case TieBreakNewest:
		return "newest"
	default:
		return "unknown"
	}
}

// ParseTieBreak parses "first" or "newest".
func ParseTieBreak(s string) (TieBreak, bool) {
	switch s {
	case "", "first":
		return TieBreakFirst, true
	case "newest":
		return TieBreakNewest, true
	}
	return TieBreakFirst, false
}
