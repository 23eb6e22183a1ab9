package session

import (
	"context"

	"github.com/askdesk/askdesk/internal/client"
)

// ConversationLabel identifies one stored conversation in a picker list.
// The label text is the first human turn of the session.
type ConversationLabel struct {
	SessionID string
	Title     string
	CreatedTs int64
}

// PickConversations reduces a flat query log to one label per session, in
// order of each session's first appearance. Sessions whose first surviving
// turn is an assistant turn fall back to that turn's text.
func PickConversations(records []*client.QueryRecord) []ConversationLabel {
	var labels []ConversationLabel
	position := make(map[string]int)
	titled := make(map[string]bool)

	for _, record := range records {
		i, seen := position[record.SessionID]
		if !seen {
			position[record.SessionID] = len(labels)
			labels = append(labels, ConversationLabel{
				SessionID: record.SessionID,
				Title:     record.QueryText,
				CreatedTs: record.CreatedTs,
			})
			titled[record.SessionID] = record.QueryType == "human"
			continue
		}
		if !titled[record.SessionID] && record.QueryType == "human" {
			labels[i].Title = record.QueryText
			titled[record.SessionID] = true
		}
	}
	return labels
}

// Picker lists and deletes stored conversations for one user.
type Picker struct {
	store  TurnStore
	userID int32
}

// NewPicker creates a Picker.
func NewPicker(store TurnStore, userID int32) *Picker {
	return &Picker{store: store, userID: userID}
}

// List fetches the user's query log and reduces it to conversation labels.
func (p *Picker) List(ctx context.Context) ([]ConversationLabel, error) {
	records, err := p.store.ListQueries(ctx, p.userID)
	if err != nil {
		return nil, err
	}
	return PickConversations(records), nil
}

// Delete removes a stored conversation.
func (p *Picker) Delete(ctx context.Context, sessionID string) error {
	return p.store.DeleteSession(ctx, sessionID)
}
