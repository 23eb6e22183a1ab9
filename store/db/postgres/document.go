package postgres

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/askdesk/askdesk/store"
)

func (d *DB) CreateDocument(ctx context.Context, create *store.Document) (*store.Document, error) {
	fields := []string{"uid", "title", "content", "created_ts"}
	args := []any{create.UID, create.Title, create.Content, create.CreatedTs}

	stmt := `INSERT INTO document (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create document")
	}

	return create, nil
}

func (d *DB) ListDocuments(ctx context.Context, find *store.FindDocument) ([]*store.Document, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}

	query := `SELECT id, uid, title, content, created_ts FROM document WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	defer rows.Close()

	list := make([]*store.Document, 0)
	for rows.Next() {
		doc := &store.Document{}
		if err := rows.Scan(&doc.ID, &doc.UID, &doc.Title, &doc.Content, &doc.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan document")
		}
		list = append(list, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate documents")
	}

	return list, nil
}

func (d *DB) DeleteDocument(ctx context.Context, delete *store.DeleteDocument) error {
	// document_embedding rows go with it via ON DELETE CASCADE.
	if _, err := d.db.ExecContext(ctx, `DELETE FROM document WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete document")
	}
	return nil
}

func (d *DB) UpsertDocumentEmbedding(ctx context.Context, embedding *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	stmt := `
		INSERT INTO document_embedding (document_id, embedding, model, created_ts)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, model = EXCLUDED.model, created_ts = EXCLUDED.created_ts
		RETURNING id
	`

	vector := pgvector.NewVector(embedding.Embedding)
	if err := d.db.QueryRowContext(ctx, stmt, embedding.DocumentID, vector, embedding.Model, embedding.CreatedTs).Scan(&embedding.ID); err != nil {
		return nil, errors.Wrap(err, "failed to upsert document embedding")
	}

	return embedding, nil
}

// VectorSearch performs vector similarity search using pgvector.
// The <=> operator computes cosine distance (1 - cosine_similarity),
// so ordering by distance ASC yields the most similar documents first.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.DocumentWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			doc.id, doc.uid, doc.title, doc.content, doc.created_ts,
			1 - (de.embedding <=> $1) AS score
		FROM document doc
		JOIN document_embedding de ON doc.id = de.document_id
		WHERE de.model = $2
		ORDER BY de.embedding <=> $1
		LIMIT $3
	`

	vector := pgvector.NewVector(opts.Vector)
	rows, err := d.db.QueryContext(ctx, query, vector, opts.Model, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run vector search")
	}
	defer rows.Close()

	results := make([]*store.DocumentWithScore, 0)
	for rows.Next() {
		doc := &store.Document{}
		var score float32
		if err := rows.Scan(&doc.ID, &doc.UID, &doc.Title, &doc.Content, &doc.CreatedTs, &score); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		if score < opts.MinScore {
			continue
		}
		results = append(results, &store.DocumentWithScore{Document: doc, Score: score})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate vector search results")
	}

	return results, nil
}
