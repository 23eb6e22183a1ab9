// Package v1 exposes the JSON API: accounts, query logs, conversations and
// the chat endpoint.
package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/askdesk/askdesk/internal/profile"
	"github.com/askdesk/askdesk/plugin/ai"
	"github.com/askdesk/askdesk/plugin/ai/pipeline"
	"github.com/askdesk/askdesk/server/auth"
	apierrors "github.com/askdesk/askdesk/server/internal/errors"
	"github.com/askdesk/askdesk/server/middleware"
	"github.com/askdesk/askdesk/server/retrieval"
	"github.com/askdesk/askdesk/store"
)

// maxConcurrentChats bounds in-flight pipeline runs; each one holds an LLM
// connection for up to two minutes.
const maxConcurrentChats = 8

// userContextKey is the echo context key holding the authenticated user.
const userContextKey = "auth-user"

type APIV1Service struct {
	Secret   string
	Profile  *profile.Profile
	Store    *store.Store
	Pipeline *pipeline.Pipeline

	chatLimiter   *middleware.RateLimiter
	chatSemaphore *semaphore.Weighted
}

// NewAPIV1Service creates the v1 service. The answer pipeline is wired only
// when AI is configured and the driver supports vector search.
func NewAPIV1Service(secret string, profile *profile.Profile, store *store.Store) *APIV1Service {
	s := &APIV1Service{
		Secret:        secret,
		Profile:       profile,
		Store:         store,
		chatLimiter:   middleware.NewRateLimiter(1, 5),
		chatSemaphore: semaphore.NewWeighted(maxConcurrentChats),
	}

	if profile.IsAIEnabled() && profile.Driver == "postgres" {
		aiConfig := ai.NewConfigFromProfile(profile)
		if err := aiConfig.Validate(); err != nil {
			slog.Warn("AI config invalid, chat disabled", "error", err)
			return s
		}
		embeddingService, err := ai.NewEmbeddingService(&aiConfig.Embedding)
		if err != nil {
			slog.Warn("embedding service unavailable, chat disabled", "error", err)
			return s
		}
		llmService, err := ai.NewLLMService(&aiConfig.LLM)
		if err != nil {
			slog.Warn("LLM service unavailable, chat disabled", "error", err)
			return s
		}
		rerankerService := ai.NewRerankerService(&aiConfig.Reranker)
		retriever := retrieval.NewDocumentRetriever(store, embeddingService, rerankerService, aiConfig.Embedding.Model)
		s.Pipeline = pipeline.New(llmService, retriever, pipeline.Config{})
	}

	return s
}

// Register mounts the v1 routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1", s.authMiddleware)

	g.POST("/users/", s.signUp)
	g.POST("/auth/signin", s.signIn)
	g.GET("/users/me", s.me)

	g.POST("/queries/", s.createQuery)
	g.GET("/queries/:userId", s.listUserQueries)

	g.GET("/conversations/:sessionId", s.getConversation)
	g.DELETE("/conversations/:sessionId", s.deleteConversation)

	g.POST("/chat", s.chat)
}

// isPublicPath reports whether the route is reachable without a token.
func isPublicPath(method, path string) bool {
	if method == http.MethodPost && path == "/api/v1/users/" {
		return true
	}
	if method == http.MethodPost && path == "/api/v1/auth/signin" {
		return true
	}
	return false
}

func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if isPublicPath(c.Request().Method, c.Path()) {
			return next(c)
		}

		user, err := s.authenticate(c)
		if err != nil {
			return replyError(c, err)
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// authenticate resolves the bearer token to a user.
func (s *APIV1Service) authenticate(c echo.Context) (*store.User, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return nil, apierrors.Unauthorized("missing access token")
	}

	claims, err := auth.ParseAccessToken(token, []byte(s.Secret))
	if err != nil {
		return nil, apierrors.Unauthorized("invalid access token")
	}

	userID, err := parseID(claims.Subject)
	if err != nil {
		return nil, apierrors.Unauthorized("malformed token subject")
	}

	user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &userID})
	if err != nil {
		return nil, apierrors.Internal("find user", err)
	}
	if user == nil {
		return nil, apierrors.Unauthorized("user not found")
	}
	return user, nil
}

func currentUser(c echo.Context) *store.User {
	user, _ := c.Get(userContextKey).(*store.User)
	return user
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code    apierrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

// replyError maps a ServiceError to its HTTP status and JSON body.
func replyError(c echo.Context, err error) error {
	serviceErr, ok := err.(*apierrors.ServiceError)
	if !ok {
		serviceErr = apierrors.Internal("unexpected error", err)
	}

	status := http.StatusInternalServerError
	switch serviceErr.Code {
	case apierrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case apierrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case apierrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apierrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case apierrors.ErrCodeLLMUnavailable:
		status = http.StatusServiceUnavailable
	case apierrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	if serviceErr.Cause != nil {
		slog.Error("request failed",
			"code", serviceErr.Code,
			"message", serviceErr.Message,
			"error", serviceErr.Cause)
	}
	return c.JSON(status, &errorResponse{Code: serviceErr.Code, Message: serviceErr.Message})
}
