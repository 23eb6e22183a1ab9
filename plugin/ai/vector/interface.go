// Package vector provides the vector retrieval service interface consumed by
// the answer pipeline.
package vector

import "context"

// Document is one retrieved document with its similarity score.
type Document struct {
	UID     string  `json:"uid"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float32 `json:"score"` // similarity score 0-1
}

// SearchService defines the vector retrieval service interface.
type SearchService interface {
	// Search returns the top-limit documents most similar to the query,
	// in descending rank order. An empty result is not an error.
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}
