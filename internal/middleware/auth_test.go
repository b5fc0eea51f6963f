package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-directory/internal/auth"
	"github.com/iliyamo/contact-directory/internal/repository"
)

type stubResolver map[string]repository.User

func (s stubResolver) GetByEmail(_ context.Context, email string) (repository.User, error) {
	if u, ok := s[email]; ok {
		return u, nil
	}
	return repository.User{}, sql.ErrNoRows
}

func runProtected(t *testing.T, tokens *auth.TokenService, users AccountResolver, authHeader string) (*httptest.ResponseRecorder, repository.User, bool) {
	t.Helper()
	var (
		seen   repository.User
		seenOK bool
	)
	next := func(c echo.Context) error {
		seen, seenOK = CurrentAccount(c)
		return c.NoContent(http.StatusOK)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if err := RequireAccessToken(tokens, users)(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec, seen, seenOK
}

func TestRequireAccessTokenResolvesAccount(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenService("test-secret")
	users := stubResolver{"alice@example.com": {ID: 7, Email: "alice@example.com", IsVerified: true}}

	tok, err := tokens.Issue("alice@example.com", auth.PurposeAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	rec, seen, ok := runProtected(t, tokens, users, "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !ok || seen.ID != 7 || seen.Email != "alice@example.com" {
		t.Fatalf("account not stored in context: %+v ok=%v", seen, ok)
	}
}

func TestRequireAccessTokenRejections(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenService("test-secret")
	users := stubResolver{"alice@example.com": {ID: 7, Email: "alice@example.com"}}

	refreshTok, _ := tokens.Issue("alice@example.com", auth.PurposeRefresh, time.Hour)
	verifyTok, _ := tokens.Issue("alice@example.com", auth.PurposeVerifyEmail, time.Hour)
	expiredTok, _ := tokens.Issue("alice@example.com", auth.PurposeAccess, -time.Second)
	orphanTok, _ := tokens.Issue("ghost@example.com", auth.PurposeAccess, time.Hour)
	foreignTok, _ := auth.NewTokenService("other-secret").Issue("alice@example.com", auth.PurposeAccess, time.Hour)

	cases := map[string]string{
		"missing header":    "",
		"not bearer":        "Basic abc",
		"garbage token":     "Bearer not.a.jwt",
		"refresh purpose":   "Bearer " + refreshTok, // purpose keeps token kinds apart
		"verify purpose":    "Bearer " + verifyTok,
		"expired":           "Bearer " + expiredTok,
		"unknown account":   "Bearer " + orphanTok,
		"foreign signature": "Bearer " + foreignTok,
	}
	for name, header := range cases {
		rec, _, ok := runProtected(t, tokens, users, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status %d, want 401", name, rec.Code)
		}
		if ok {
			t.Fatalf("%s: account leaked into context", name)
		}
	}
}
