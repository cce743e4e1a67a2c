package commands

import (
	"strconv"

	"github.com/haivivi/vecfiles/pkg/cli"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

// Table views over client results. They marshal exactly like the
// underlying slices, so --json and --query see the plain objects.

type fileList []vsclient.File

func (l fileList) TableHeaders() []string {
	return []string{"ID", "FILENAME", "PURPOSE", "SIZE", "CREATED", "STATUS"}
}

func (l fileList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, f := range l {
		rows = append(rows, []string{f.ID, f.Filename, string(f.Purpose), cli.FormatBytes(f.Bytes), cli.FormatTime(f.CreatedAt), f.Status})
	}
	return rows
}

type storeList []vsclient.VectorStore

func (l storeList) TableHeaders() []string {
	return []string{"ID", "NAME", "FILES", "USAGE", "CREATED", "STATUS"}
}

func (l storeList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, vs := range l {
		rows = append(rows, []string{vs.ID, vs.Name, strconv.FormatInt(vs.FileCounts.Total, 10), cli.FormatBytes(vs.UsageBytes), cli.FormatTime(vs.CreatedAt), vs.Status})
	}
	return rows
}

type membershipList []vsclient.Membership

func (l membershipList) TableHeaders() []string {
	return []string{"ID", "FILE_ID", "STATUS", "USAGE", "CREATED", "LAST_ERROR"}
}

func (l membershipList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, m := range l {
		rows = append(rows, []string{m.ID, m.FileID, m.Status, cli.FormatBytes(m.UsageBytes), cli.FormatTime(m.CreatedAt), m.LastError})
	}
	return rows
}

// filename is the printable form of a vsclient.FilenameResult.
type filename struct {
	MembershipID string `json:"membership_id" yaml:"membership_id"`
	Filename     string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

type filenameList []filename

func newFilenameList(results []vsclient.FilenameResult) filenameList {
	out := make(filenameList, 0, len(results))
	for _, r := range results {
		f := filename{MembershipID: r.MembershipID, Filename: r.Filename}
		if r.Err != nil {
			f.Error = r.Err.Error()
		}
		out = append(out, f)
	}
	return out
}

func (l filenameList) TableHeaders() []string { return []string{"MEMBERSHIP_ID", "FILENAME", "ERROR"} }

func (l filenameList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, f := range l {
		rows = append(rows, []string{f.MembershipID, f.Filename, f.Error})
	}
	return rows
}

// ensured reports a get-or-create result together with whether it created.
type ensured[T any] struct {
	Created  bool `json:"created" yaml:"created"`
	Resource T    `json:"resource" yaml:"resource"`
}

// exists is the output of the exists commands.
type exists struct {
	Name   string `json:"name" yaml:"name"`
	Exists bool   `json:"exists" yaml:"exists"`
}

func (e exists) String() string { return strconv.FormatBool(e.Exists) }
