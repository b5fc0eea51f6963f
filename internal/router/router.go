// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/contact-directory/internal/auth"
	"github.com/iliyamo/contact-directory/internal/config"
	"github.com/iliyamo/contact-directory/internal/handler"
	"github.com/iliyamo/contact-directory/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account lifecycle endpoints. Signup, login
// and verification are open; logout needs a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.TokenService, users middleware.AccountResolver) {
	g := e.Group("/api/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	// The verification link lands here from the mail, so the token travels
	// as a query value rather than a header.
	g.GET("/verify", a.Verify)
	g.POST("/logout", a.Logout, middleware.RequireAccessToken(tokens, users))
}

// RegisterContacts registers the owner-scoped contact endpoints behind the
// access-token middleware.
func RegisterContacts(e *echo.Echo, h *handler.ContactHandler, tokens *auth.TokenService, users middleware.AccountResolver) {
	g := e.Group("/api/contacts")
	g.Use(middleware.RequireAccessToken(tokens, users))
	g.POST("", h.Create)
	g.GET("", h.List)
	// Register the static paths before the :id wildcard so "search" is
	// never parsed as a contact id.
	g.GET("/search", h.Search)
	g.GET("/upcoming_birthdays", h.UpcomingBirthdays)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterProfile registers the current-account endpoints. Profile reads
// sit behind the Redis token bucket; rdb may be nil, which disables the
// limiter.
func RegisterProfile(e *echo.Echo, h *handler.ProfileHandler, tokens *auth.TokenService, users middleware.AccountResolver, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/api/users")
	g.Use(middleware.RequireAccessToken(tokens, users))
	g.GET("/me", h.Me, middleware.NewTokenBucket(rlCfg, rdb))
	g.PATCH("/me/avatar", h.UpdateAvatar)
}
