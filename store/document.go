package store

// Document is one entry of the knowledge base the retrieval stage searches.
type Document struct {
	ID        int32
	UID       string
	Title     string
	Content   string
	CreatedTs int64
}

type FindDocument struct {
	ID  *int32
	UID *string
}

type DeleteDocument struct {
	ID int32
}

// DocumentEmbedding stores the vector for one document.
type DocumentEmbedding struct {
	ID         int32
	DocumentID int32
	Embedding  []float32
	Model      string
	CreatedTs  int64
}

// DocumentWithScore pairs a document with its similarity score.
type DocumentWithScore struct {
	Document *Document
	Score    float32
}

// VectorSearchOptions controls similarity search over document embeddings.
type VectorSearchOptions struct {
	Vector   []float32
	Model    string
	Limit    int
	MinScore float32
}
