package vector

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MockSearchService is an in-memory SearchService for testing. Scoring is a
// crude token-overlap ratio, which is enough to make rank order deterministic.
type MockSearchService struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMockSearchService creates an empty mock.
func NewMockSearchService() *MockSearchService {
	return &MockSearchService{}
}

// Add stores a document.
func (m *MockSearchService) Add(doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
}

// Search scores stored documents against the query tokens.
func (m *MockSearchService) Search(_ context.Context, query string, limit int) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return []Document{}, nil
	}

	results := make([]Document, 0, len(m.docs))
	for _, doc := range m.docs {
		content := strings.ToLower(doc.Content + " " + doc.Title)
		matched := 0
		for _, token := range tokens {
			if strings.Contains(content, token) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		scored := doc
		scored.Score = float32(matched) / float32(len(tokens))
		results = append(results, scored)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

var _ SearchService = (*MockSearchService)(nil)
