package vsclient

import (
	"context"
	"io"
)

// Backend is the set of remote calls the Client is built on. Each method maps
// to exactly one service endpoint (list methods may page internally).
//
// Implementations must return an error satisfying errors.Is(err, ErrNotFound)
// when an ID is unknown, and must be safe for concurrent use.
type Backend interface {
	ListFiles(ctx context.Context) ([]File, error)
	UploadFile(ctx context.Context, r io.Reader, filename string, purpose FilePurpose) (*File, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DeleteFile(ctx context.Context, fileID string) error

	ListVectorStores(ctx context.Context) ([]VectorStore, error)
	CreateVectorStore(ctx context.Context, name string) (*VectorStore, error)
	GetVectorStore(ctx context.Context, storeID string) (*VectorStore, error)
	DeleteVectorStore(ctx context.Context, storeID string) error

	ListVectorStoreFiles(ctx context.Context, storeID string) ([]Membership, error)
	CreateVectorStoreFile(ctx context.Context, storeID, fileID string) (*Membership, error)
	GetVectorStoreFile(ctx context.Context, storeID, membershipID string) (*Membership, error)
	DeleteVectorStoreFile(ctx context.Context, storeID, fileID string) error
}
