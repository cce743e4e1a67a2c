package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"

	"github.com/haivivi/vecfiles/pkg/journal"
	"github.com/haivivi/vecfiles/pkg/storage"
	"github.com/haivivi/vecfiles/pkg/vsclient"
)

// Syncer applies manifests.
type Syncer struct {
	client  *vsclient.Client
	journal *journal.Journal
	logger  *slog.Logger

	concurrency int
	dryRun      bool
	context     string
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithJournal records every run. Without it runs are not recorded.
func WithJournal(j *journal.Journal) Option {
	return func(s *Syncer) { s.journal = j }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// WithConcurrency bounds how many files are processed at once. Values
// below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(s *Syncer) { s.concurrency = n }
}

// WithDryRun reports what a run would do without creating anything.
func WithDryRun(dry bool) Option {
	return func(s *Syncer) { s.dryRun = dry }
}

// WithContextName tags journaled runs with the CLI context name.
func WithContextName(name string) Option {
	return func(s *Syncer) { s.context = name }
}

// New creates a Syncer.
func New(client *vsclient.Client, opts ...Option) *Syncer {
	s := &Syncer{client: client, logger: slog.Default(), concurrency: 1}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	return s
}

// Run ensures the manifest's store exists, every listed file is uploaded,
// and every file is attached to the store. A failure on one file is
// recorded in its FileOutcome and does not stop the others; failures that
// affect the whole run (store resolution, listing the source) abort it.
//
// The returned Run is non-nil whenever the manifest got far enough to
// start, even with a non-nil error.
func (s *Syncer) Run(ctx context.Context, m *Manifest, src storage.Source) (*journal.Run, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	run := s.begin(m)
	err := s.run(ctx, m, src, run)
	if err != nil {
		run.Error = err.Error()
	}
	if s.journal != nil && !s.dryRun {
		// The journal write uses a fresh context so a cancelled run still
		// leaves a record.
		if jerr := s.journal.Record(context.WithoutCancel(ctx), run); jerr != nil {
			s.logger.Warn("syncer: journal write failed", "run", run.ID, "error", jerr)
		}
	}
	if err == nil {
		if failed := run.Summary().Failed; failed > 0 {
			err = fmt.Errorf("syncer: %d of %d files failed", failed, len(run.Files))
		}
	}
	return run, err
}

func (s *Syncer) begin(m *Manifest) *journal.Run {
	var run *journal.Run
	if s.journal != nil {
		run = s.journal.Begin(m.Store, m.Source)
	} else {
		run = &journal.Run{Store: journal.StoreOutcome{Name: m.Store}, Source: m.Source}
	}
	run.Context = s.context
	run.DryRun = s.dryRun
	return run
}

func (s *Syncer) run(ctx context.Context, m *Manifest, src storage.Source, run *journal.Run) error {
	objects, err := s.resolveObjects(ctx, m, src)
	if err != nil {
		return err
	}
	s.logger.Info("syncer: starting", "store", m.Store, "files", len(objects), "dry_run", s.dryRun)

	vs, created, err := s.ensureStore(ctx, m.Store)
	if err != nil {
		return err
	}
	if vs != nil {
		run.Store.ID = vs.ID
	}
	run.Store.Created = created

	run.Files = make([]journal.FileOutcome, len(objects))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, obj := range objects {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			for j := i; j < len(objects); j++ {
				run.Files[j] = skipped(objects[j], err)
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer func() { <-sem; wg.Done() }()
			run.Files[i] = s.syncFile(ctx, m.FilePurpose(), vs, src, obj)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// skipped is the outcome of a file the run never started.
func skipped(obj storage.Object, err error) journal.FileOutcome {
	return journal.FileOutcome{Path: obj.Path, Filename: path.Base(obj.Path), Error: err.Error()}
}

func (s *Syncer) resolveObjects(ctx context.Context, m *Manifest, src storage.Source) ([]storage.Object, error) {
	if len(m.Files) == 0 {
		objects, err := src.List(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("syncer: list source: %w", err)
		}
		seen := make(map[string]string, len(objects))
		for _, o := range objects {
			base := path.Base(o.Path)
			if prev, dup := seen[base]; dup {
				return nil, fmt.Errorf("syncer: %q and %q share the remote name %q", prev, o.Path, base)
			}
			seen[base] = o.Path
		}
		return objects, nil
	}
	objects := make([]storage.Object, 0, len(m.Files))
	for _, f := range m.Files {
		obj, err := src.Stat(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("syncer: %s: %w", f, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (s *Syncer) ensureStore(ctx context.Context, name string) (*vsclient.VectorStore, bool, error) {
	if s.dryRun {
		vs, ok, err := s.client.GetVectorStoreByName(ctx, name)
		if err != nil {
			return nil, false, err
		}
		return vs, !ok, nil
	}
	return s.client.EnsureVectorStore(ctx, name)
}

func (s *Syncer) syncFile(ctx context.Context, purpose vsclient.FilePurpose, vs *vsclient.VectorStore, src storage.Source, obj storage.Object) journal.FileOutcome {
	out := journal.FileOutcome{Path: obj.Path, Filename: path.Base(obj.Path)}
	fail := func(err error) journal.FileOutcome {
		out.Error = err.Error()
		s.logger.Warn("syncer: file failed", "path", obj.Path, "error", err)
		return out
	}

	if s.dryRun {
		return s.planFile(ctx, vs, out)
	}

	file, uploaded, err := s.client.GetOrUploadFile(ctx, out.Filename, purpose, func() (io.ReadCloser, error) {
		return src.Open(ctx, obj.Path)
	})
	if err != nil {
		return fail(err)
	}
	out.FileID = file.ID
	out.Uploaded = uploaded

	m, attached, err := s.client.EnsureVectorStoreFile(ctx, vs.ID, file.ID)
	if err != nil {
		return fail(err)
	}
	out.MembershipID = m.ID
	out.Attached = attached
	out.Status = m.Status
	return out
}

// planFile fills out with what a real run would do. Uploaded and Attached
// mean "would upload" and "would attach".
func (s *Syncer) planFile(ctx context.Context, vs *vsclient.VectorStore, out journal.FileOutcome) journal.FileOutcome {
	file, ok, err := s.client.GetFileByName(ctx, out.Filename)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	if !ok {
		out.Uploaded = true
		out.Attached = true
		return out
	}
	out.FileID = file.ID
	if vs == nil {
		out.Attached = true
		return out
	}
	m, err := s.client.GetVectorStoreFile(ctx, vs.ID, file.ID)
	switch {
	case err == nil:
		out.MembershipID = m.ID
		out.Status = m.Status
	case errors.Is(err, vsclient.ErrNotFound):
		out.Attached = true
	default:
		out.Error = err.Error()
	}
	return out
}
