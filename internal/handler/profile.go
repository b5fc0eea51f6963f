package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-directory/internal/middleware"
	"github.com/iliyamo/contact-directory/internal/repository"
	"github.com/iliyamo/contact-directory/internal/storage"
)

// ProfileStore is the slice of the user repository the profile endpoints
// need.
type ProfileStore interface {
	GetByID(ctx context.Context, id uint64) (repository.User, error)
	UpdateAvatar(ctx context.Context, id uint64, url string) error
}

// AvatarUploader stores an avatar image and returns its reference URL.
// *storage.AvatarStore satisfies it.
type AvatarUploader interface {
	Store(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
}

// ProfileHandler exposes the current-account endpoints.
type ProfileHandler struct {
	Users   ProfileStore
	Avatars AvatarUploader // nil when object storage is not configured
}

func NewProfileHandler(users ProfileStore, avatars AvatarUploader) *ProfileHandler {
	return &ProfileHandler{Users: users, Avatars: avatars}
}

// Me returns the authenticated account.
func (h *ProfileHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// UpdateAvatar accepts a multipart "file" upload, stores it in object
// storage and overwrites the account's avatar reference. Unlike the
// verification mail this effect is synchronous: a failed upload is a
// user-visible error.
func (h *ProfileHandler) UpdateAvatar(c echo.Context) error {
	u, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Avatars == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "avatar storage not configured"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file unreadable"})
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	url, err := h.Avatars.Store(ctx, src, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, storage.ErrFileTooBig) || errors.Is(err, storage.ErrInvalidFileType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store avatar failed"})
	}

	if err := h.Users.UpdateAvatar(ctx, u.ID, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update avatar failed"})
	}

	updated, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(updated))
}
