package vsclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const uploadContentType = "application/octet-stream"

// openaiBackend implements Backend with the official OpenAI Go SDK.
type openaiBackend struct {
	client *openai.Client
}

var _ Backend = (*openaiBackend)(nil)

func newOpenAIBackend(apiKey string, cfg *clientConfig) *openaiBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.httpClient))
	}
	if cfg.timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.timeout))
	}
	if cfg.maxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.maxRetries))
	}
	if cfg.organization != "" {
		opts = append(opts, option.WithOrganization(cfg.organization))
	}
	if cfg.project != "" {
		opts = append(opts, option.WithProject(cfg.project))
	}
	client := openai.NewClient(opts...)
	return &openaiBackend{client: &client}
}

func (b *openaiBackend) ListFiles(ctx context.Context) ([]File, error) {
	var files []File
	iter := b.client.Files.ListAutoPaging(ctx, openai.FileListParams{})
	for iter.Next() {
		obj := iter.Current()
		files = append(files, fileFromSDK(&obj))
	}
	if err := iter.Err(); err != nil {
		return nil, translateError(err)
	}
	return files, nil
}

func (b *openaiBackend) UploadFile(ctx context.Context, r io.Reader, filename string, purpose FilePurpose) (*File, error) {
	obj, err := b.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(r, filename, uploadContentType),
		Purpose: openai.FilePurpose(purpose),
	})
	if err != nil {
		return nil, translateError(err)
	}
	f := fileFromSDK(obj)
	return &f, nil
}

func (b *openaiBackend) GetFile(ctx context.Context, fileID string) (*File, error) {
	obj, err := b.client.Files.Get(ctx, fileID)
	if err != nil {
		return nil, translateError(err)
	}
	f := fileFromSDK(obj)
	return &f, nil
}

func (b *openaiBackend) DeleteFile(ctx context.Context, fileID string) error {
	_, err := b.client.Files.Delete(ctx, fileID)
	return translateError(err)
}

func (b *openaiBackend) ListVectorStores(ctx context.Context) ([]VectorStore, error) {
	var stores []VectorStore
	iter := b.client.VectorStores.ListAutoPaging(ctx, openai.VectorStoreListParams{})
	for iter.Next() {
		vs := iter.Current()
		stores = append(stores, vectorStoreFromSDK(&vs))
	}
	if err := iter.Err(); err != nil {
		return nil, translateError(err)
	}
	return stores, nil
}

func (b *openaiBackend) CreateVectorStore(ctx context.Context, name string) (*VectorStore, error) {
	obj, err := b.client.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(name),
	})
	if err != nil {
		return nil, translateError(err)
	}
	vs := vectorStoreFromSDK(obj)
	return &vs, nil
}

func (b *openaiBackend) GetVectorStore(ctx context.Context, storeID string) (*VectorStore, error) {
	obj, err := b.client.VectorStores.Get(ctx, storeID)
	if err != nil {
		return nil, translateError(err)
	}
	vs := vectorStoreFromSDK(obj)
	return &vs, nil
}

func (b *openaiBackend) DeleteVectorStore(ctx context.Context, storeID string) error {
	_, err := b.client.VectorStores.Delete(ctx, storeID)
	return translateError(err)
}

func (b *openaiBackend) ListVectorStoreFiles(ctx context.Context, storeID string) ([]Membership, error) {
	var members []Membership
	iter := b.client.VectorStores.Files.ListAutoPaging(ctx, storeID, openai.VectorStoreFileListParams{})
	for iter.Next() {
		vsf := iter.Current()
		members = append(members, membershipFromSDK(&vsf))
	}
	if err := iter.Err(); err != nil {
		return nil, translateError(err)
	}
	return members, nil
}

func (b *openaiBackend) CreateVectorStoreFile(ctx context.Context, storeID, fileID string) (*Membership, error) {
	obj, err := b.client.VectorStores.Files.New(ctx, storeID, openai.VectorStoreFileNewParams{
		FileID: fileID,
	})
	if err != nil {
		return nil, translateError(err)
	}
	m := membershipFromSDK(obj)
	return &m, nil
}

func (b *openaiBackend) GetVectorStoreFile(ctx context.Context, storeID, membershipID string) (*Membership, error) {
	obj, err := b.client.VectorStores.Files.Get(ctx, storeID, membershipID)
	if err != nil {
		return nil, translateError(err)
	}
	m := membershipFromSDK(obj)
	return &m, nil
}

func (b *openaiBackend) DeleteVectorStoreFile(ctx context.Context, storeID, fileID string) error {
	_, err := b.client.VectorStores.Files.Delete(ctx, storeID, fileID)
	return translateError(err)
}

func fileFromSDK(obj *openai.FileObject) File {
	return File{
		ID:        obj.ID,
		Filename:  obj.Filename,
		Purpose:   FilePurpose(obj.Purpose),
		Bytes:     obj.Bytes,
		CreatedAt: unixTime(obj.CreatedAt),
		Status:    string(obj.Status),
	}
}

func vectorStoreFromSDK(obj *openai.VectorStore) VectorStore {
	return VectorStore{
		ID:         obj.ID,
		Name:       obj.Name,
		CreatedAt:  unixTime(obj.CreatedAt),
		Status:     string(obj.Status),
		UsageBytes: obj.UsageBytes,
		FileCounts: FileCounts{
			InProgress: obj.FileCounts.InProgress,
			Completed:  obj.FileCounts.Completed,
			Failed:     obj.FileCounts.Failed,
			Cancelled:  obj.FileCounts.Cancelled,
			Total:      obj.FileCounts.Total,
		},
	}
}

// membershipFromSDK maps a vector store file. The service identifies the
// membership by the attached file's ID, so both fields carry obj.ID.
func membershipFromSDK(obj *openai.VectorStoreFile) Membership {
	return Membership{
		ID:            obj.ID,
		VectorStoreID: obj.VectorStoreID,
		FileID:        obj.ID,
		Status:        string(obj.Status),
		CreatedAt:     unixTime(obj.CreatedAt),
		UsageBytes:    obj.UsageBytes,
		LastError:     obj.LastError.Message,
	}
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// translateError converts SDK API errors into *Error so callers can match
// ErrNotFound without importing the SDK.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.StatusCode)
	}
	return &Error{
		HTTPStatus: apiErr.StatusCode,
		Code:       apiErr.Code,
		Type:       apiErr.Type,
		Message:    msg,
		err:        err,
	}
}
