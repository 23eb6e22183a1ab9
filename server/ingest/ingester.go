// Package ingest loads documents into the knowledge base and embeds them
// for vector search.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/askdesk/askdesk/plugin/ai"
	"github.com/askdesk/askdesk/plugin/ai/timeout"
	"github.com/askdesk/askdesk/store"
)

// maxConcurrentEmbeds bounds parallel embedding calls during ingestion.
const maxConcurrentEmbeds = 3

// Ingester chunks documents, embeds each chunk and stores both.
type Ingester struct {
	store     *store.Store
	embedding ai.EmbeddingService
	chunker   *Chunker
	model     string
	sem       *semaphore.Weighted
}

// NewIngester creates an Ingester.
func NewIngester(st *store.Store, embedding ai.EmbeddingService, model string) *Ingester {
	return &Ingester{
		store:     st,
		embedding: embedding,
		chunker:   NewChunker(),
		model:     model,
		sem:       semaphore.NewWeighted(maxConcurrentEmbeds),
	}
}

// Ingest splits content into chunks and stores one embedded document per
// chunk. It returns the number of chunks stored.
func (g *Ingester) Ingest(ctx context.Context, title, content string) (int, error) {
	chunks := g.chunker.Split(content)
	if len(chunks) == 0 {
		return 0, errors.New("document is empty")
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer g.sem.Release(1)

	embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
	defer cancel()

	vectors, err := g.embedding.EmbedBatch(embedCtx, chunks)
	if err != nil {
		return 0, errors.Wrap(err, "embed chunks")
	}
	if len(vectors) != len(chunks) {
		return 0, errors.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	for i, chunk := range chunks {
		chunkTitle := title
		if len(chunks) > 1 {
			chunkTitle = fmt.Sprintf("%s (%d/%d)", title, i+1, len(chunks))
		}

		doc, err := g.store.CreateDocument(ctx, &store.Document{
			Title:   chunkTitle,
			Content: chunk,
		})
		if err != nil {
			return i, errors.Wrap(err, "create document")
		}

		if _, err := g.store.UpsertDocumentEmbedding(ctx, &store.DocumentEmbedding{
			DocumentID: doc.ID,
			Embedding:  vectors[i],
			Model:      g.model,
		}); err != nil {
			return i, errors.Wrap(err, "store embedding")
		}

		slog.Debug("ingested document chunk",
			"title", chunkTitle,
			"chunk_length", len(chunk))
	}
	return len(chunks), nil
}
