package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Store backed by BadgerDB v4.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures NewBadger.
type BadgerOptions struct {
	// Dir holds the data files. Required unless InMemory is set.
	Dir string

	// InMemory runs badger without disk persistence.
	InMemory bool

	// Logger receives badger's warnings and errors. Nil means slog.Default().
	Logger *slog.Logger
}

// NewBadger opens a badger database.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("kv: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(slogAdapter{l: logger})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("kv: open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(_ context.Context, key Key) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.encode())
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

func (b *Badger) Set(_ context.Context, key Key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key.encode(), value)
	})
}

func (b *Badger) Delete(_ context.Context, key Key) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key.encode())
	})
}

func (b *Badger) List(ctx context.Context, prefix Key, reverse bool) iter.Seq2[Entry, error] {
	p := prefix.prefixBytes()

	return func(yield func(Entry, error) bool) {
		err := b.db.View(func(txn *badger.Txn) error {
			iterOpts := badger.DefaultIteratorOptions
			iterOpts.Prefix = p
			iterOpts.Reverse = reverse
			it := txn.NewIterator(iterOpts)
			defer it.Close()

			// A reverse scan must start past every key with the prefix.
			seek := p
			if reverse {
				seek = append(bytes.Clone(p), 0xff)
			}
			for it.Seek(seek); it.ValidForPrefix(p); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}
				item := it.Item()
				val, err := item.ValueCopy(nil)
				if err != nil {
					if !yield(Entry{}, err) {
						return nil
					}
					continue
				}
				if !yield(Entry{Key: decodeKey(item.KeyCopy(nil)), Value: val}, nil) {
					return nil
				}
			}
			return nil
		})
		if err != nil {
			yield(Entry{}, err)
		}
	}
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// slogAdapter routes badger's printf-style logging into slog. Info and
// debug chatter is demoted to debug.
type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Errorf(f string, v ...any) {
	a.l.Error("kv: badger: " + strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (a slogAdapter) Warningf(f string, v ...any) {
	a.l.Warn("kv: badger: " + strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (a slogAdapter) Infof(f string, v ...any) {
	a.l.Debug("kv: badger: " + strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (a slogAdapter) Debugf(f string, v ...any) {
	a.l.Debug("kv: badger: " + strings.TrimSpace(fmt.Sprintf(f, v...)))
}

var _ Store = (*Badger)(nil)
