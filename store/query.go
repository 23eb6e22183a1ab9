package store

// QueryType distinguishes who produced a turn in a conversation.
type QueryType string

const (
	QueryTypeHuman QueryType = "human"
	QueryTypeAI    QueryType = "ai"
)

// Query is one persisted turn of a conversation. Rows are immutable once
// created; ordering within a session is (created_ts, id).
//
// Sessions have no row of their own. A session is the set of queries sharing
// a client-generated session_id, and it exists exactly as long as at least
// one such row does.
type Query struct {
	ID             int32
	UID            string
	UserID         int32
	SessionID      string
	Type           QueryType
	Text           string
	DeviceType     string
	Location       string
	IntentDetected bool
	CreatedTs      int64
}

type FindQuery struct {
	ID        *int32
	UID       *string
	UserID    *int32
	SessionID *string
	Type      *QueryType
}

type DeleteQuery struct {
	ID        *int32
	UserID    *int32
	SessionID *string
}
