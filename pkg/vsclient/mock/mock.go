// Package mock provides an in-memory vsclient.Backend for tests and offline
// runs. It mirrors the service's observable behavior: names are not unique,
// memberships are keyed by file ID, and deleting a file leaves its
// memberships dangling.
package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/vecfiles/pkg/vsclient"
)

type fileEntry struct {
	file vsclient.File
	data []byte
}

// Mock implements vsclient.Backend in memory. The zero value is not usable;
// call New.
type Mock struct {
	mu          sync.RWMutex
	files       []*fileEntry
	stores      []*vsclient.VectorStore
	memberships map[string][]*vsclient.Membership // store ID -> members

	calls      atomic.Int64
	latency    time.Duration
	clock      func() time.Time
	failGet    map[string]error
	failUpload map[string]error
}

// Option configures a Mock.
type Option func(*Mock)

// WithLatency delays every call, widening check-then-act windows in tests.
func WithLatency(d time.Duration) Option {
	return func(m *Mock) {
		m.latency = d
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Mock) {
		m.clock = now
	}
}

// New constructs an empty backend.
func New(opts ...Option) *Mock {
	var tick atomic.Int64
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &Mock{
		memberships: make(map[string][]*vsclient.Membership),
		failGet:     make(map[string]error),
		failUpload:  make(map[string]error),
		// Strictly increasing so creation order is observable.
		clock: func() time.Time {
			return base.Add(time.Duration(tick.Add(1)) * time.Second)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ vsclient.Backend = (*Mock)(nil)

// Calls returns how many backend calls have been made.
func (m *Mock) Calls() int64 {
	return m.calls.Load()
}

// FailGetFile makes GetFile(fileID) return err until cleared with a nil err.
func (m *Mock) FailGetFile(fileID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failGet, fileID)
		return
	}
	m.failGet[fileID] = err
}

// FailUpload makes UploadFile for filename return err until cleared with a
// nil err.
func (m *Mock) FailUpload(filename string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failUpload, filename)
		return
	}
	m.failUpload[filename] = err
}

// Content returns the uploaded bytes of a file.
func (m *Mock) Content(fileID string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.files {
		if e.file.ID == fileID {
			return bytes.Clone(e.data), true
		}
	}
	return nil, false
}

func (m *Mock) enter(ctx context.Context) error {
	m.calls.Add(1)
	if m.latency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.latency):
		}
	}
	return ctx.Err()
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func notFound(kind, id string) error {
	return &vsclient.Error{
		HTTPStatus: 404,
		Type:       "invalid_request_error",
		Message:    fmt.Sprintf("No such %s: '%s'", kind, id),
	}
}

func (m *Mock) ListFiles(ctx context.Context) ([]vsclient.File, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]vsclient.File, 0, len(m.files))
	for _, e := range m.files {
		out = append(out, e.file)
	}
	return out, nil
}

func (m *Mock) UploadFile(ctx context.Context, r io.Reader, filename string, purpose vsclient.FilePurpose) (*vsclient.File, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mock: read upload: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failUpload[filename]; ok {
		return nil, err
	}
	e := &fileEntry{
		file: vsclient.File{
			ID:        newID("file-"),
			Filename:  filename,
			Purpose:   purpose,
			Bytes:     int64(len(data)),
			CreatedAt: m.clock(),
			Status:    "processed",
		},
		data: data,
	}
	m.files = append(m.files, e)
	f := e.file
	return &f, nil
}

func (m *Mock) GetFile(ctx context.Context, fileID string) (*vsclient.File, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.failGet[fileID]; ok {
		return nil, err
	}
	for _, e := range m.files {
		if e.file.ID == fileID {
			f := e.file
			return &f, nil
		}
	}
	return nil, notFound("file", fileID)
}

func (m *Mock) DeleteFile(ctx context.Context, fileID string) error {
	if err := m.enter(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.files {
		if e.file.ID == fileID {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return nil
		}
	}
	return notFound("file", fileID)
}

func (m *Mock) ListVectorStores(ctx context.Context) ([]vsclient.VectorStore, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]vsclient.VectorStore, 0, len(m.stores))
	for _, vs := range m.stores {
		out = append(out, m.withCounts(vs))
	}
	return out, nil
}

func (m *Mock) CreateVectorStore(ctx context.Context, name string) (*vsclient.VectorStore, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vs := &vsclient.VectorStore{
		ID:        newID("vs_"),
		Name:      name,
		CreatedAt: m.clock(),
		Status:    "completed",
	}
	m.stores = append(m.stores, vs)
	out := *vs
	return &out, nil
}

func (m *Mock) GetVectorStore(ctx context.Context, storeID string) (*vsclient.VectorStore, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	vs := m.store(storeID)
	if vs == nil {
		return nil, notFound("vector store", storeID)
	}
	out := m.withCounts(vs)
	return &out, nil
}

func (m *Mock) DeleteVectorStore(ctx context.Context, storeID string) error {
	if err := m.enter(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, vs := range m.stores {
		if vs.ID == storeID {
			m.stores = append(m.stores[:i], m.stores[i+1:]...)
			delete(m.memberships, storeID)
			return nil
		}
	}
	return notFound("vector store", storeID)
}

func (m *Mock) ListVectorStoreFiles(ctx context.Context, storeID string) ([]vsclient.Membership, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.store(storeID) == nil {
		return nil, notFound("vector store", storeID)
	}
	members := m.memberships[storeID]
	out := make([]vsclient.Membership, 0, len(members))
	for _, mem := range members {
		out = append(out, *mem)
	}
	return out, nil
}

func (m *Mock) CreateVectorStoreFile(ctx context.Context, storeID, fileID string) (*vsclient.Membership, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store(storeID) == nil {
		return nil, notFound("vector store", storeID)
	}
	if m.file(fileID) == nil {
		return nil, notFound("file", fileID)
	}
	// The service treats re-attaching as an update of the same membership.
	for _, mem := range m.memberships[storeID] {
		if mem.FileID == fileID {
			out := *mem
			return &out, nil
		}
	}
	mem := &vsclient.Membership{
		ID:            fileID,
		VectorStoreID: storeID,
		FileID:        fileID,
		Status:        "completed",
		CreatedAt:     m.clock(),
		UsageBytes:    m.file(fileID).file.Bytes,
	}
	m.memberships[storeID] = append(m.memberships[storeID], mem)
	out := *mem
	return &out, nil
}

func (m *Mock) GetVectorStoreFile(ctx context.Context, storeID, membershipID string) (*vsclient.Membership, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mem := range m.memberships[storeID] {
		if mem.ID == membershipID {
			out := *mem
			return &out, nil
		}
	}
	return nil, notFound("vector store file", membershipID)
}

func (m *Mock) DeleteVectorStoreFile(ctx context.Context, storeID, fileID string) error {
	if err := m.enter(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.memberships[storeID]
	for i, mem := range members {
		if mem.FileID == fileID {
			m.memberships[storeID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return notFound("vector store file", fileID)
}

// store and file expect m.mu to be held.
func (m *Mock) store(id string) *vsclient.VectorStore {
	for _, vs := range m.stores {
		if vs.ID == id {
			return vs
		}
	}
	return nil
}

func (m *Mock) file(id string) *fileEntry {
	for _, e := range m.files {
		if e.file.ID == id {
			return e
		}
	}
	return nil
}

func (m *Mock) withCounts(vs *vsclient.VectorStore) vsclient.VectorStore {
	out := *vs
	out.FileCounts = vsclient.FileCounts{}
	out.UsageBytes = 0
	for _, mem := range m.memberships[vs.ID] {
		out.FileCounts.Completed++
		out.FileCounts.Total++
		out.UsageBytes += mem.UsageBytes
	}
	return out
}
