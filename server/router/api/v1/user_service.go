package v1

import (
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/askdesk/askdesk/server/auth"
	apierrors "github.com/askdesk/askdesk/server/internal/errors"
	"github.com/askdesk/askdesk/store"
)

type userResponse struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedTs int64  `json:"createdTs"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User        *userResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
}

func (s *APIV1Service) signUp(c echo.Context) error {
	ctx := c.Request().Context()

	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return replyError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.Name == "" || req.Password == "" {
		return replyError(c, apierrors.InvalidArgument("name and password are required"))
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return replyError(c, apierrors.InvalidArgument("invalid email address"))
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &req.Email})
	if err != nil {
		return replyError(c, apierrors.Internal("find user", err))
	}
	if existing != nil {
		return replyError(c, apierrors.InvalidArgument("email is already registered"))
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return replyError(c, apierrors.Internal("hash password", err))
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		return replyError(c, apierrors.Internal("create user", err))
	}

	return s.replyWithToken(c, user)
}

func (s *APIV1Service) signIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return replyError(c, apierrors.InvalidArgument("malformed request body"))
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &req.Email})
	if err != nil {
		return replyError(c, apierrors.Internal("find user", err))
	}
	if user == nil {
		return replyError(c, apierrors.Unauthorized("incorrect email or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return replyError(c, apierrors.Unauthorized("incorrect email or password"))
	}

	return s.replyWithToken(c, user)
}

func (s *APIV1Service) me(c echo.Context) error {
	user := currentUser(c)
	return c.JSON(http.StatusOK, convertUser(user))
}

func (s *APIV1Service) replyWithToken(c echo.Context, user *store.User) error {
	expires := time.Now().Add(auth.AccessTokenDuration)
	token, err := auth.GenerateAccessToken(user.ID, user.Name, expires, []byte(s.Secret))
	if err != nil {
		return replyError(c, apierrors.Internal("generate access token", err))
	}
	return c.JSON(http.StatusOK, &authResponse{
		User:        convertUser(user),
		AccessToken: token,
	})
}

func convertUser(user *store.User) *userResponse {
	return &userResponse{
		ID:        user.ID,
		UID:       user.UID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedTs: user.CreatedTs,
	}
}

func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
