// Package retrieval searches the document knowledge base by semantic
// similarity.
package retrieval

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askdesk/askdesk/plugin/ai"
	"github.com/askdesk/askdesk/plugin/ai/timeout"
	"github.com/askdesk/askdesk/plugin/ai/vector"
	"github.com/askdesk/askdesk/store"
)

// rerankFetchFactor widens the candidate set handed to the reranker.
const rerankFetchFactor = 3

// DocumentRetriever embeds the query, runs a vector search against the
// store and optionally reranks the hits.
type DocumentRetriever struct {
	store     *store.Store
	embedding ai.EmbeddingService
	reranker  ai.RerankerService
	model     string
}

var _ vector.SearchService = (*DocumentRetriever)(nil)

// NewDocumentRetriever creates a DocumentRetriever. The reranker may be nil.
func NewDocumentRetriever(st *store.Store, embedding ai.EmbeddingService, reranker ai.RerankerService, model string) *DocumentRetriever {
	return &DocumentRetriever{
		store:     st,
		embedding: embedding,
		reranker:  reranker,
		model:     model,
	}
}

// Search returns up to limit documents ranked by relevance to query.
func (r *DocumentRetriever) Search(ctx context.Context, query string, limit int) ([]vector.Document, error) {
	embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
	defer cancel()

	queryVector, err := r.embedding.Embed(embedCtx, query)
	if err != nil {
		return nil, errors.Wrap(err, "embed query")
	}

	fetchLimit := limit
	if r.rerankEnabled() {
		fetchLimit = limit * rerankFetchFactor
	}

	hits, err := r.store.VectorSearch(ctx, &store.VectorSearchOptions{
		Vector: queryVector,
		Model:  r.model,
		Limit:  fetchLimit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vector search")
	}

	docs := make([]vector.Document, len(hits))
	for i, hit := range hits {
		docs[i] = vector.Document{
			UID:     hit.Document.UID,
			Title:   hit.Document.Title,
			Content: hit.Document.Content,
			Score:   hit.Score,
		}
	}

	if !r.rerankEnabled() || len(docs) == 0 {
		return docs, nil
	}
	return r.rerank(ctx, query, docs, limit)
}

func (r *DocumentRetriever) rerankEnabled() bool {
	return r.reranker != nil && r.reranker.IsEnabled()
}

func (r *DocumentRetriever) rerank(ctx context.Context, query string, docs []vector.Document, limit int) ([]vector.Document, error) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	results, err := r.reranker.Rerank(ctx, query, texts, limit)
	if err != nil {
		// Reranking is an enhancement; degrade to vector order.
		if len(docs) > limit {
			docs = docs[:limit]
		}
		return docs, nil
	}

	reranked := make([]vector.Document, 0, len(results))
	for _, res := range results {
		if res.Index < 0 || res.Index >= len(docs) {
			continue
		}
		doc := docs[res.Index]
		doc.Score = res.Score
		reranked = append(reranked, doc)
	}
	if len(reranked) > limit {
		reranked = reranked[:limit]
	}
	return reranked, nil
}
