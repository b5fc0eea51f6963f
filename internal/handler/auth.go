package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-directory/internal/auth"
	"github.com/iliyamo/contact-directory/internal/config"
	"github.com/iliyamo/contact-directory/internal/middleware"
	"github.com/iliyamo/contact-directory/internal/queue"
	"github.com/iliyamo/contact-directory/internal/repository"
	mail "github.com/iliyamo/contact-directory/internal/service"
)

// UserStore is the slice of the user repository the auth endpoints need.
// *repository.UserRepo satisfies it; tests plug in an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	ConfirmEmail(ctx context.Context, id uint64) error
	UpdateRefreshToken(ctx context.Context, id uint64, token *string) error
}

// MailPublisher sends a verification-email event to the broker. Failures
// are the publisher's to log; auth handlers never propagate them.
type MailPublisher func(ctx context.Context, event queue.VerificationEmailEvent) error

// AuthHandler bundles dependencies for the signup/login/verify endpoints.
type AuthHandler struct {
	Users       UserStore
	Hasher      *auth.Hasher
	Tokens      *auth.TokenService
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	VerifyTTL   time.Duration
	AppBaseURL  string
	PublishMail MailPublisher // nil disables the verification mail side effect
}

func NewAuthHandler(cfg config.Config, users UserStore, hasher *auth.Hasher, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		Users:       users,
		Hasher:      hasher,
		Tokens:      tokens,
		AccessTTL:   cfg.AccessTTL,
		RefreshTTL:  cfg.RefreshTTL,
		VerifyTTL:   cfg.VerifyTTL,
		AppBaseURL:  strings.TrimRight(cfg.AppBaseURL, "/"),
		PublishMail: mail.PublishVerificationEmail,
	}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	ID         uint64  `json:"id"`
	Email      string  `json:"email"`
	IsVerified bool    `json:"is_verified"`
	AvatarURL  *string `json:"avatar_url"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func toUserResp(u repository.User) userResp {
	resp := userResp{ID: u.ID, Email: u.Email, IsVerified: u.IsVerified}
	if u.AvatarURL.Valid {
		resp.AvatarURL = &u.AvatarURL.String
	}
	return resp
}

// Signup creates an unverified account and kicks off the verification
// mail. The mail is fire-and-forget: publishing happens on a separate
// goroutine with its own context and its failure never surfaces to the
// caller.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	h.sendVerificationMail(u.Email)

	return c.JSON(http.StatusCreated, toUserResp(u))
}

func (h *AuthHandler) sendVerificationMail(email string) {
	if h.PublishMail == nil {
		return
	}
	token, err := h.Tokens.Issue(email, auth.PurposeVerifyEmail, h.VerifyTTL)
	if err != nil {
		log.Printf("auth: issue verification token failed: %v", err)
		return
	}
	ev := queue.VerificationEmailEvent{
		Email:       email,
		Token:       token,
		VerifyURL:   h.AppBaseURL + "/api/auth/verify?token=" + url.QueryEscape(token),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.PublishMail(ctx, ev) // best effort, errors are logged by the publisher
	}()
}

// Login verifies credentials and returns a fresh access/refresh pair. The
// refresh token is persisted on the account, replacing any prior value, so
// each account carries a single active session. Unknown email and wrong
// password produce the identical response to block account enumeration.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !h.Hasher.Verify(req.Password, u.PasswordHash) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}
	if !u.IsVerified {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "email not verified"})
	}

	access, err := h.Tokens.Issue(u.Email, auth.PurposeAccess, h.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Tokens.Issue(u.Email, auth.PurposeRefresh, h.RefreshTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Users.UpdateRefreshToken(ctx, u.ID, &refresh); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

// Verify redeems an email-verification token passed as a query value.
// Redemption is idempotent: verifying an already-verified account succeeds
// again with no further effect. The token itself stays redeemable until
// its natural expiry since no redemption record is kept.
func (h *AuthHandler) Verify(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	subject, purpose, err := h.Tokens.Verify(token)
	if err != nil || purpose != auth.PurposeVerifyEmail {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.ConfirmEmail(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "email successfully verified"})
}

// Logout clears the stored refresh credential for the current account.
// Already-issued access tokens stay valid until expiry; only the session
// marker is invalidated.
func (h *AuthHandler) Logout(c echo.Context) error {
	u, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateRefreshToken(ctx, u.ID, nil); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
