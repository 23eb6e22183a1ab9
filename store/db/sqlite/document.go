package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/askdesk/askdesk/store"
)

// SQLite does not support vector search (no pgvector equivalent).
// Documents themselves are stored so that dev setups can ingest and inspect
// content, but similarity search requires PostgreSQL.

// ErrSQLiteVectorNotSupported is returned when vector features are requested on SQLite.
var ErrSQLiteVectorNotSupported = errors.New("vector search requires PostgreSQL with the pgvector extension")

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
	if _, err := d.db.ExecContext(ctx, `DELETE FROM document WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete document")
	}
	return nil
}

func (d *DB) UpsertDocumentEmbedding(ctx context.Context, _ *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	return nil, ErrSQLiteVectorNotSupported
}

func (d *DB) VectorSearch(ctx context.Context, _ *store.VectorSearchOptions) ([]*store.DocumentWithScore, error) {
	return nil, ErrSQLiteVectorNotSupported
}
