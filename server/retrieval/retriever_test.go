package retrieval

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	storetest "github.com/askdesk/askdesk/store/test"
)

type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbeddingService) Dimensions() int {
	return 3
}

func TestDocumentRetrieverEmbedFailure(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)
	defer ts.Close()

	embedding := &MockEmbeddingService{}
	embedding.On("Embed", mock.Anything, "question").Return(nil, errors.New("provider down"))

	r := NewDocumentRetriever(ts, embedding, nil, "test-model")
	_, err := r.Search(ctx, "question", 4)
	require.Error(t, err)
	require.Contains(t, err.Error(), "embed query")
}

func TestDocumentRetrieverSearchFailurePropagates(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)
	defer ts.Close()

	embedding := &MockEmbeddingService{}
	embedding.On("Embed", mock.Anything, "question").Return([]float32{0.1, 0.2, 0.3}, nil)

	// SQLite has no vector index; the driver error must surface instead
	// of being swallowed.
	r := NewDocumentRetriever(ts, embedding, nil, "test-model")
	_, err := r.Search(ctx, "question", 4)
	require.Error(t, err)
	require.Contains(t, err.Error(), "vector search")
}
