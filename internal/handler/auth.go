package handler

import (
	"errors"
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"go.uber.org/zap"

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/config" // app configuration
	"github.com/iliyamo/autopro/internal/metrics"
	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository" // store contracts
	"github.com/iliyamo/autopro/internal/utils"      // hashing, token issuing, cookies
)

// Client-facing messages of the user endpoints.
const (
	MsgRegisterRequired   = "Please provide name, email and password."
	MsgPasswordTooLong    = "Password must be at most 72 bytes long."
	MsgUserExists         = "User already exists with this email address."
	MsgInvalidCredentials = "Invalid email or password."
	MsgLoggedOut          = "User logged out successfully"
	MsgProfileNotFound    = "User not found."
)

// UserHandler bundles dependencies for the /api/users endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users repository.UserStore
}

func NewUserHandler(cfg config.Config, users repository.UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// secureCookies is false only for local development over plain HTTP.
func (h *UserHandler) secureCookies() bool { return !h.Cfg.IsDevelopment() }

// issueSession signs a token for u and sets it as the session cookie.
func (h *UserHandler) issueSession(c echo.Context, u *model.User) error {
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, utils.SessionTTL)
	if err != nil {
		return apperr.Internal(err)
	}
	c.SetCookie(utils.SessionCookie(tok, h.secureCookies()))
	return nil
}

// Register: create a non-admin user, set the session cookie and return the
// public profile.  Emails are kept exactly as sent (case-sensitive).
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperr.Validation(MsgRegisterRequired)
	}

	if len(req.Password) > utils.MaxPasswordBytes {
		return apperr.Validation(MsgPasswordTooLong)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return apperr.Validation(MsgPasswordTooLong)
	}
	if err != nil {
		return apperr.Internal(err)
	}

	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		IsAdmin:      false, // self-registration never grants admin
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return apperr.Conflict(MsgUserExists)
		}
		return apperr.Internal(err)
	}

	if err := h.issueSession(c, u); err != nil {
		return err
	}
	metrics.RegistrationsTotal.Inc()
	zap.L().Info("user registered", zap.String("user_id", u.ID))
	return c.JSON(http.StatusCreated, u.Public())
}

// Login: verify credentials and set a fresh session cookie.  Unknown email
// and wrong password produce the same response; only the log tells them
// apart.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)

	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		zap.L().Info("login failed: unknown email", zap.String("email", req.Email))
		metrics.AuthFailuresTotal.WithLabelValues(metrics.ReasonBadCredentials).Inc()
		return apperr.Unauthenticated(MsgInvalidCredentials)
	case err != nil:
		return apperr.Internal(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		zap.L().Info("login failed: wrong password", zap.String("email", req.Email))
		metrics.AuthFailuresTotal.WithLabelValues(metrics.ReasonBadCredentials).Inc()
		return apperr.Unauthenticated(MsgInvalidCredentials)
	}

	if err := h.issueSession(c, u); err != nil {
		return err
	}
	metrics.LoginsTotal.Inc()
	zap.L().Info("login succeeded", zap.String("user_id", u.ID))
	return c.JSON(http.StatusOK, u.Public())
}

// Logout overwrites the cookie only.  A copy of the old token stays valid
// until it expires.
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(utils.ExpiredSessionCookie(h.secureCookies()))
	return c.JSON(http.StatusOK, echo.Map{"message": MsgLoggedOut})
}

// Profile re-reads the caller from the store.
func (h *UserHandler) Profile(c echo.Context) error {
	cur, err := sessionUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	u, err := h.Users.FindByID(ctx, cur.ID)
	if err != nil {
		return storeError(err, MsgProfileNotFound)
	}
	return c.JSON(http.StatusOK, u.Public())
}
