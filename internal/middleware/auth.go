package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-directory/internal/auth"
	"github.com/iliyamo/contact-directory/internal/repository"
)

// AccountKey is the context key under which RequireAccessToken stores the
// authenticated repository.User.
const AccountKey = "account"

// AccountResolver loads the account a verified token subject refers to.
// *repository.UserRepo satisfies it; tests supply fakes.
type AccountResolver interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
}

// RequireAccessToken returns an Echo middleware that validates a Bearer
// token, asserts its purpose is "access", resolves the subject email to an
// account and stores it in the request context. Refresh and verification
// tokens are rejected here even though they carry valid signatures; the
// purpose check is what keeps the three token kinds apart. Every failure
// mode answers with the same 401 body.
func RequireAccessToken(tokens *auth.TokenService, users AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			subject, purpose, err := tokens.Verify(raw)
			if err != nil || purpose != auth.PurposeAccess {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByEmail(ctx, subject)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(AccountKey, u)
			return next(c)
		}
	}
}

// CurrentAccount extracts the authenticated account stored by
// RequireAccessToken. The boolean is false when the middleware did not run.
func CurrentAccount(c echo.Context) (repository.User, bool) {
	u, ok := c.Get(AccountKey).(repository.User)
	return u, ok
}
