package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/askdesk/askdesk/server/internal/errors"
	"github.com/askdesk/askdesk/store"
)

type queryResponse struct {
	ID             int32  `json:"id"`
	UID            string `json:"uid"`
	UserID         int32  `json:"userId"`
	SessionID      string `json:"sessionId"`
	QueryType      string `json:"queryType"`
	QueryText      string `json:"queryText"`
	DeviceType     string `json:"deviceType"`
	Location       string `json:"location"`
	IntentDetected bool   `json:"intentDetected"`
	CreatedTs      int64  `json:"createdTs"`
}

type createQueryRequest struct {
	SessionID      string `json:"sessionId"`
	QueryType      string `json:"queryType"`
	QueryText      string `json:"queryText"`
	DeviceType     string `json:"deviceType"`
	Location       string `json:"location"`
	IntentDetected bool   `json:"intentDetected"`
}

// createQuery appends one conversation turn to the caller's query log.
func (s *APIV1Service) createQuery(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	var req createQueryRequest
	if err := c.Bind(&req); err != nil {
		return replyError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.SessionID == "" {
		return replyError(c, apierrors.InvalidArgument("sessionId is required"))
	}
	if req.QueryText == "" {
		return replyError(c, apierrors.InvalidArgument("queryText is required"))
	}
	queryType := store.QueryType(req.QueryType)
	if queryType != store.QueryTypeHuman && queryType != store.QueryTypeAI {
		return replyError(c, apierrors.InvalidArgument("queryType must be human or ai"))
	}

	query, err := s.Store.CreateQuery(ctx, &store.Query{
		UserID:         user.ID,
		SessionID:      req.SessionID,
		Type:           queryType,
		Text:           req.QueryText,
		DeviceType:     req.DeviceType,
		Location:       req.Location,
		IntentDetected: req.IntentDetected,
	})
	if err != nil {
		return replyError(c, apierrors.Internal("create query", err))
	}
	return c.JSON(http.StatusOK, convertQuery(query))
}

// listUserQueries returns the full query log of a user, oldest first.
// Users can only read their own log.
func (s *APIV1Service) listUserQueries(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return replyError(c, apierrors.InvalidArgument("invalid user id"))
	}
	if userID != user.ID {
		return replyError(c, apierrors.Unauthorized("cannot read another user's queries"))
	}

	queries, err := s.Store.ListQueries(ctx, &store.FindQuery{UserID: &userID})
	if err != nil {
		return replyError(c, apierrors.Internal("list queries", err))
	}
	return c.JSON(http.StatusOK, convertQueries(queries))
}

func convertQuery(query *store.Query) *queryResponse {
	return &queryResponse{
		ID:             query.ID,
		UID:            query.UID,
		UserID:         query.UserID,
		SessionID:      query.SessionID,
		QueryType:      string(query.Type),
		QueryText:      query.Text,
		DeviceType:     query.DeviceType,
		Location:       query.Location,
		IntentDetected: query.IntentDetected,
		CreatedTs:      query.CreatedTs,
	}
}

func convertQueries(queries []*store.Query) []*queryResponse {
	result := make([]*queryResponse, len(queries))
	for i, query := range queries {
		result[i] = convertQuery(query)
	}
	return result
}
