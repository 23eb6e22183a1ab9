package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/askdesk/askdesk/server/internal/errors"
	"github.com/askdesk/askdesk/store"
)

// getConversation returns the turns of one session, oldest first. A session
// with no rows is a 404; sessions exist only through their queries.
func (s *APIV1Service) getConversation(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return replyError(c, apierrors.InvalidArgument("session id is required"))
	}

	queries, err := s.Store.ListQueries(ctx, &store.FindQuery{
		UserID:    &user.ID,
		SessionID: &sessionID,
	})
	if err != nil {
		return replyError(c, apierrors.Internal("list queries", err))
	}
	if len(queries) == 0 {
		return replyError(c, apierrors.NotFound("conversation not found"))
	}
	return c.JSON(http.StatusOK, convertQueries(queries))
}

// deleteConversation removes every turn of a session owned by the caller.
func (s *APIV1Service) deleteConversation(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return replyError(c, apierrors.InvalidArgument("session id is required"))
	}

	// Ownership check before the delete; DeleteQueries itself is keyed by
	// session only.
	queries, err := s.Store.ListQueries(ctx, &store.FindQuery{SessionID: &sessionID})
	if err != nil {
		return replyError(c, apierrors.Internal("list queries", err))
	}
	if len(queries) == 0 {
		return replyError(c, apierrors.NotFound("conversation not found"))
	}
	for _, query := range queries {
		if query.UserID != user.ID {
			return replyError(c, apierrors.Unauthorized("cannot delete another user's conversation"))
		}
	}

	if err := s.Store.DeleteQueries(ctx, &store.DeleteQuery{UserID: &user.ID, SessionID: &sessionID}); err != nil {
		return replyError(c, apierrors.Internal("delete queries", err))
	}
	return c.NoContent(http.StatusNoContent)
}
