package v1

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/askdesk/askdesk/server/internal/errors"
	"github.com/askdesk/askdesk/server/internal/observability"
)

// maxQuestionLength rejects pathological inputs before they reach the LLM.
const maxQuestionLength = 4096

type chatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	RequestID string `json:"requestId"`
}

// chat runs the question through the answer pipeline. The pipeline never
// fails outward; callers always get an answer string.
func (s *APIV1Service) chat(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	if s.Pipeline == nil {
		return replyError(c, &apierrors.ServiceError{
			Code:    apierrors.ErrCodeLLMUnavailable,
			Message: "chat is not configured on this server",
		})
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return replyError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.Question == "" {
		return replyError(c, apierrors.InvalidArgument("question is required"))
	}
	if len(req.Question) > maxQuestionLength {
		return replyError(c, apierrors.InvalidArgument("question is too long"))
	}

	if !s.chatLimiter.Allow(fmt.Sprint(user.ID)) {
		return replyError(c, &apierrors.ServiceError{
			Code:    apierrors.ErrCodeRateLimitExceeded,
			Message: "too many chat requests, slow down",
		})
	}

	if err := s.chatSemaphore.Acquire(ctx, 1); err != nil {
		return replyError(c, &apierrors.ServiceError{
			Code:    apierrors.ErrCodeTimeout,
			Message: "chat capacity exhausted",
			Cause:   err,
		})
	}
	defer s.chatSemaphore.Release(1)

	reqCtx := observability.NewRequestContext(slog.Default(), user.ID)
	reqCtx.Info("chat request received",
		slog.String(observability.LogFieldSessionID, req.SessionID),
		slog.Int(observability.LogFieldQuestionLen, len(req.Question)))

	answer := s.Pipeline.Answer(ctx, req.Question)

	reqCtx.Info("chat request completed",
		slog.String(observability.LogFieldSessionID, req.SessionID),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, &chatResponse{
		Answer:    answer,
		RequestID: reqCtx.RequestID,
	})
}
