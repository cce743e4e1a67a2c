package vsclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haivivi/vecfiles/pkg/vsclient"
)

// fakeOpenAI serves the subset of the OpenAI REST API the backend calls.
type fakeOpenAI struct {
	t *testing.T

	mu       sync.Mutex
	requests []string
	uploads  []string
}

func (f *fakeOpenAI) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

func (f *fakeOpenAI) notFound(w http.ResponseWriter, what string) {
	f.writeJSON(w, http.StatusNotFound, map[string]any{
		"error": map[string]any{
			"message": "No such " + what,
			"type":    "invalid_request_error",
			"code":    nil,
		},
	})
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
		f.t.Errorf("Authorization = %q", got)
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/")
	switch {
	case r.Method == http.MethodGet && path == "files":
		f.writeJSON(w, http.StatusOK, map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "file-1", "object": "file", "filename": "a.txt", "purpose": "user_data", "bytes": 3, "created_at": 1700000000, "status": "processed"},
				{"id": "file-2", "object": "file", "filename": "b.txt", "purpose": "assistants", "bytes": 5, "created_at": 1700000100, "status": "processed"},
			},
			"has_more": false,
		})
	case r.Method == http.MethodPost && path == "files":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			f.t.Errorf("parse multipart: %v", err)
		}
		name := ""
		if fhs := r.MultipartForm.File["file"]; len(fhs) > 0 {
			name = fhs[0].Filename
		}
		f.mu.Lock()
		f.uploads = append(f.uploads, name+"|"+r.FormValue("purpose"))
		f.mu.Unlock()
		f.writeJSON(w, http.StatusOK, map[string]any{
			"id": "file-new", "object": "file", "filename": name, "purpose": r.FormValue("purpose"),
			"bytes": 5, "created_at": 1700000200, "status": "uploaded",
		})
	case r.Method == http.MethodGet && path == "files/file-1":
		f.writeJSON(w, http.StatusOK, map[string]any{
			"id": "file-1", "object": "file", "filename": "a.txt", "purpose": "user_data", "bytes": 3, "created_at": 1700000000,
		})
	case strings.HasPrefix(path, "files/"):
		f.notFound(w, "file")
	case r.Method == http.MethodGet && path == "vector_stores":
		f.writeJSON(w, http.StatusOK, map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "vs_1", "object": "vector_store", "name": "kb", "created_at": 1700000000, "status": "completed", "usage_bytes": 8,
					"file_counts": map[string]any{"in_progress": 0, "completed": 1, "failed": 0, "cancelled": 0, "total": 1}},
			},
			"has_more": false,
		})
	case r.Method == http.MethodPost && path == "vector_stores":
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decode body: %v", err)
		}
		f.writeJSON(w, http.StatusOK, map[string]any{
			"id": "vs_new", "object": "vector_store", "name": body.Name, "created_at": 1700000300, "status": "completed",
		})
	case r.Method == http.MethodGet && path == "vector_stores/vs_1/files":
		f.writeJSON(w, http.StatusOK, map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "file-1", "object": "vector_store.file", "vector_store_id": "vs_1", "status": "completed", "created_at": 1700000000, "usage_bytes": 8},
				{"id": "file-9", "object": "vector_store.file", "vector_store_id": "vs_1", "status": "completed", "created_at": 1700000001, "usage_bytes": 0},
			},
			"has_more": false,
		})
	case r.Method == http.MethodPost && path == "vector_stores/vs_1/files":
		f.writeJSON(w, http.StatusOK, map[string]any{
			"id": "file-2", "object": "vector_store.file", "vector_store_id": "vs_1", "status": "in_progress", "created_at": 1700000400,
		})
	default:
		f.notFound(w, path)
	}
}

func newOpenAIClient(t *testing.T) (*vsclient.Client, *fakeOpenAI) {
	t.Helper()
	fake := &fakeOpenAI{t: t}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client, err := vsclient.New("sk-test",
		vsclient.WithBaseURL(srv.URL+"/v1/"),
		vsclient.WithRetry(0),
	)
	require.NoError(t, err)
	return client, fake
}

func TestOpenAI_ListAndLookupFiles(t *testing.T) {
	ctx := context.Background()
	client, _ := newOpenAIClient(t)

	files, err := client.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "file-1", files[0].ID)
	assert.Equal(t, "a.txt", files[0].Filename)
	assert.Equal(t, int64(1700000000), files[0].CreatedAt.Unix())

	f, ok, err := client.GetFileByName(ctx, "b.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vsclient.PurposeAssistants, f.Purpose)

	got, err := client.GetFile(ctx, "file-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Bytes)
}

func TestOpenAI_NotFound(t *testing.T) {
	client, _ := newOpenAIClient(t)

	_, err := client.GetFile(context.Background(), "file-missing")
	require.ErrorIs(t, err, vsclient.ErrNotFound)
	apiErr, ok := vsclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus)
}

func TestOpenAI_GetOrCreateFileUploadsOnMiss(t *testing.T) {
	ctx := context.Background()
	client, fake := newOpenAIClient(t)

	existing, err := client.GetOrCreateFile(ctx, writeTemp(t, "a.txt", "abc"), "")
	require.NoError(t, err)
	assert.Equal(t, "file-1", existing.ID)

	created, err := client.GetOrCreateFile(ctx, writeTemp(t, "c.txt", "hello"), vsclient.PurposeAssistants)
	require.NoError(t, err)
	assert.Equal(t, "file-new", created.ID)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"c.txt|assistants"}, fake.uploads)
}

func TestOpenAI_VectorStores(t *testing.T) {
	ctx := context.Background()
	client, _ := newOpenAIClient(t)

	vs, err := client.GetOrCreateVectorStore(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, "vs_1", vs.ID)
	assert.Equal(t, int64(1), vs.FileCounts.Completed)

	created, err := client.GetOrCreateVectorStore(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "vs_new", created.ID)
	assert.Equal(t, "other", created.Name)

	_, made, err := client.CreateVectorStore(ctx, "kb")
	require.NoError(t, err)
	assert.False(t, made)
}

func TestOpenAI_VectorStoreFiles(t *testing.T) {
	ctx := context.Background()
	client, _ := newOpenAIClient(t)

	members, err := client.ListVectorStoreFiles(ctx, "vs_1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "file-1", members[0].FileID)
	assert.Equal(t, "vs_1", members[0].VectorStoreID)

	names, err := client.ListVectorStoreFilenames(ctx, "vs_1")
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "a.txt", names[0].Filename)
	assert.ErrorIs(t, names[1].Err, vsclient.ErrNotFound)

	got, err := client.GetOrCreateVectorStoreFile(ctx, "vs_1", "file-1")
	require.NoError(t, err)
	assert.Equal(t, "file-1", got.ID)

	attached, err := client.GetOrCreateVectorStoreFile(ctx, "vs_1", "file-2")
	require.NoError(t, err)
	assert.Equal(t, "file-2", attached.FileID)
	assert.Equal(t, "in_progress", attached.Status)
}
