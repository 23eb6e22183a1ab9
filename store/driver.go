package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Query model related methods.
	CreateQuery(ctx context.Context, create *Query) (*Query, error)
	ListQueries(ctx context.Context, find *FindQuery) ([]*Query, error)
	DeleteQueries(ctx context.Context, delete *DeleteQuery) error

	// Document model related methods.
	CreateDocument(ctx context.Context, create *Document) (*Document, error)
	ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error)
	DeleteDocument(ctx context.Context, delete *DeleteDocument) error

	// UpsertDocumentEmbedding stores the embedding vector for a document.
	UpsertDocumentEmbedding(ctx context.Context, embedding *DocumentEmbedding) (*DocumentEmbedding, error)

	// VectorSearch performs semantic search using vector similarity.
	VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*DocumentWithScore, error)
}
