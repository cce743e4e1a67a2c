// Package kv is the small ordered key-value layer the sync journal sits on.
// Keys are segment paths (e.g. ["run", "20250101", "1735689600000000000"])
// joined with ':' so that lexicographic order follows segment order.
//
// Badger backs the on-disk store; Memory serves tests and dry runs.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins key segments. Segments must not contain it.
const Separator = ':'

// Key is a hierarchical path of string segments.
type Key []string

// String returns the encoded key.
func (k Key) String() string {
	return strings.Join(k, string(Separator))
}

func (k Key) encode() []byte {
	return []byte(k.String())
}

// prefixBytes returns the scan prefix for k. The trailing separator stops
// "run:2025" from matching "run:20250".
func (k Key) prefixBytes() []byte {
	if len(k) == 0 {
		return nil
	}
	return append(k.encode(), Separator)
}

func decodeKey(b []byte) Key {
	return Key(strings.Split(string(b), string(Separator)))
}

// Entry is a key-value pair returned by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is an ordered key-value store.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// List iterates entries under prefix in ascending key order. Set
	// reverse to walk from the greatest key down.
	List(ctx context.Context, prefix Key, reverse bool) iter.Seq2[Entry, error]

	// Close releases any resources held by the store.
	Close() error
}
