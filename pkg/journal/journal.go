// Package journal records what each `vecfiles sync` run did: which vector
// store it used, which files it reused or uploaded, and which memberships it
// created. Entries are msgpack-encoded in a kv.Store.
//
// The journal is write-mostly history for operators. Resource lookups never
// consult it; they always list the remote service.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/vecfiles/pkg/kv"
)

// Key layout:
//
//	run:{YYYYMMDD}:{ts_ns}  → msgpack-encoded Run
//	rid:{id}                → ts_ns (reverse index)
//
// Lexicographic key order matches chronological order within the run space.
const (
	runSegment = "run"
	ridSegment = "rid"
	dateLayout = "20060102"
)

// ErrNotFound is returned by Get for unknown run IDs.
var ErrNotFound = errors.New("journal: run not found")

// Journal appends and reads sync runs.
type Journal struct {
	store kv.Store
	now   func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// New creates a Journal over store. The caller owns store and closes it.
func New(store kv.Store, opts ...Option) *Journal {
	j := &Journal{store: store, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func runKey(ts int64) kv.Key {
	date := time.Unix(0, ts).UTC().Format(dateLayout)
	return kv.Key{runSegment, date, strconv.FormatInt(ts, 10)}
}

// Begin starts a run with a fresh ID and start time. Nothing is written
// until Record.
func (j *Journal) Begin(storeName, source string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Timestamp: j.now().UnixNano(),
		Store:     StoreOutcome{Name: storeName},
		Source:    source,
	}
}

// Record writes r, assigning an ID and timestamp if they are unset. A run
// recorded twice under the same ID overwrites the first entry.
func (j *Journal) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp == 0 {
		r.Timestamp = j.now().UnixNano()
	}
	if r.FinishedAt == 0 {
		r.FinishedAt = j.now().UnixNano()
	}

	if prev, err := j.store.Get(ctx, kv.Key{ridSegment, r.ID}); err == nil {
		ts, perr := strconv.ParseInt(string(prev), 10, 64)
		if perr == nil && ts != r.Timestamp {
			if err := j.store.Delete(ctx, runKey(ts)); err != nil {
				return fmt.Errorf("journal: replace %s: %w", r.ID, err)
			}
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("journal: lookup %s: %w", r.ID, err)
	}

	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("journal: encode run: %w", err)
	}
	if err := j.store.Set(ctx, runKey(r.Timestamp), data); err != nil {
		return fmt.Errorf("journal: write run: %w", err)
	}
	if err := j.store.Set(ctx, kv.Key{ridSegment, r.ID}, []byte(strconv.FormatInt(r.Timestamp, 10))); err != nil {
		return fmt.Errorf("journal: write index: %w", err)
	}
	return nil
}

// Get returns the run with the given ID.
func (j *Journal) Get(ctx context.Context, id string) (*Run, error) {
	raw, err := j.store.Get(ctx, kv.Key{ridSegment, id})
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ts, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("journal: malformed index for %s: %w", id, err)
	}
	data, err := j.store.Get(ctx, runKey(ts))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var r Run
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("journal: decode run %s: %w", id, err)
	}
	return &r, nil
}

// Recent returns up to n runs, newest first. n <= 0 returns every run.
func (j *Journal) Recent(ctx context.Context, n int) ([]Run, error) {
	return j.scan(ctx, kv.Key{runSegment}, true, n)
}

// OnDate returns the runs started on the given UTC day, oldest first.
func (j *Journal) OnDate(ctx context.Context, day time.Time) ([]Run, error) {
	return j.scan(ctx, kv.Key{runSegment, day.UTC().Format(dateLayout)}, false, 0)
}

func (j *Journal) scan(ctx context.Context, prefix kv.Key, reverse bool, limit int) ([]Run, error) {
	var runs []Run
	for entry, err := range j.store.List(ctx, prefix, reverse) {
		if err != nil {
			return nil, err
		}
		var r Run
		if err := msgpack.Unmarshal(entry.Value, &r); err != nil {
			continue // skip malformed entries
		}
		runs = append(runs, r)
		if limit > 0 && len(runs) == limit {
			break
		}
	}
	return runs, nil
}

// ParseDate accepts YYYYMMDD or YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{dateLayout, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("journal: invalid date %q (want YYYYMMDD)", s)
}
