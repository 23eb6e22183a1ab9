package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/askdesk/askdesk/store"
)

func (d *DB) CreateQuery(ctx context.Context, create *store.Query) (*store.Query, error) {
	fields := []string{"uid", "user_id", "session_id", "query_type", "query_text", "device_type", "location", "intent_detected", "created_ts"}
	args := []any{create.UID, create.UserID, create.SessionID, string(create.Type), create.Text, create.DeviceType, create.Location, create.IntentDetected, create.CreatedTs}

	stmt := `INSERT INTO query (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create query")
	}

	return create, nil
}

func (d *DB) ListQueries(ctx context.Context, find *store.FindQuery) ([]*store.Query, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.SessionID != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *find.SessionID)
	}
	if find.Type != nil {
		where, args = append(where, "query_type = "+placeholder(len(args)+1)), append(args, string(*find.Type))
	}

	// Submission order: created_ts with id as tiebreaker for same-second rows.
	query := `SELECT id, uid, user_id, session_id, query_type, query_text, device_type, location, intent_detected, created_ts FROM query WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_ts ASC, id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list queries")
	}
	defer rows.Close()

	list := make([]*store.Query, 0)
	for rows.Next() {
		q := &store.Query{}
		var queryType string
		if err := rows.Scan(&q.ID, &q.UID, &q.UserID, &q.SessionID, &queryType, &q.Text, &q.DeviceType, &q.Location, &q.IntentDetected, &q.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan query")
		}
		q.Type = store.QueryType(queryType)
		list = append(list, q)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate queries")
	}

	return list, nil
}

func (d *DB) DeleteQueries(ctx context.Context, delete *store.DeleteQuery) error {
	where, args := []string{}, []any{}

	if delete.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *delete.ID)
	}
	if delete.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *delete.UserID)
	}
	if delete.SessionID != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *delete.SessionID)
	}

	if len(where) == 0 {
		return errors.New("no condition to delete")
	}

	stmt := `DELETE FROM query WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to delete queries")
	}

	return nil
}
