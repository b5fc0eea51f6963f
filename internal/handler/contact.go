package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-directory/internal/middleware"
	"github.com/iliyamo/contact-directory/internal/repository"
)

const birthdayLayout = "2006-01-02"

// ContactStore is the slice of the contact repository the handlers need.
// *repository.ContactRepo satisfies it; tests plug in an in-memory fake.
type ContactStore interface {
	Create(ctx context.Context, c *repository.Contact) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*repository.Contact, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]repository.Contact, error)
	Search(ctx context.Context, ownerID uint64, f repository.ContactFilter) ([]repository.Contact, error)
	UpcomingBirthdays(ctx context.Context, ownerID uint64, today time.Time, windowDays int) ([]repository.Contact, error)
	Update(ctx context.Context, ownerID, id uint64, upd repository.ContactUpdate) (*repository.Contact, error)
	Delete(ctx context.Context, ownerID, id uint64) error
}

// ContactHandler exposes the owner-scoped contact endpoints. Every
// operation is bound to the authenticated account; a contact owned by
// someone else is indistinguishable from a missing one.
type ContactHandler struct {
	Contacts ContactStore
}

func NewContactHandler(contacts ContactStore) *ContactHandler {
	return &ContactHandler{Contacts: contacts}
}

// ----- DTOs -----

type contactCreateReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday"` // YYYY-MM-DD, optional
	Note      string `json:"note"`
}

type contactUpdateReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Birthday  *string `json:"birthday"` // YYYY-MM-DD
	Note      *string `json:"note"`
}

type contactResp struct {
	ID        uint64  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Birthday  *string `json:"birthday"`
	Note      *string `json:"note"`
}

func toContactResp(c repository.Contact) contactResp {
	resp := contactResp{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
	if c.Birthday.Valid {
		b := c.Birthday.Time.Format(birthdayLayout)
		resp.Birthday = &b
	}
	if c.Note.Valid {
		resp.Note = &c.Note.String
	}
	return resp
}

func toContactResps(cs []repository.Contact) []contactResp {
	out := make([]contactResp, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContactResp(c))
	}
	return out
}

// Create adds a contact to the caller's collection.
func (h *ContactHandler) Create(c echo.Context) error {
	owner, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req contactCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/email required"})
	}

	contact := repository.Contact{
		OwnerID:   owner.ID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
	}
	if req.Birthday != "" {
		bday, err := time.Parse(birthdayLayout, req.Birthday)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "birthday must be YYYY-MM-DD"})
		}
		contact.Birthday = sql.NullTime{Time: bday, Valid: true}
	}
	if req.Note != "" {
		contact.Note = sql.NullString{String: req.Note, Valid: true}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contacts.Create(ctx, &contact); err != nil {
		if errors.Is(err, repository.ErrContactEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create contact failed"})
	}
	return c.JSON(http.StatusCreated, toContactResp(contact))
}

// List returns all of the caller's contacts.
func (h *ContactHandler) List(c echo.Context) error {
	owner, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contacts, err := h.Contacts.ListByOwner(ctx, owner.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toContactResps(contacts))
}

// Get returns a single owned contact.
func (h *ContactHandler) Get(c echo.Context) error {
	owner, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact, err := h.Contacts.GetByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toContactResp(*contact))
}

// Search filters the caller's contacts by case-insensitive substring
// matches on first name, last name and email. Absent filters are no-ops;
// with none supplied the full owned set comes back.
func (h *ContactHandler) Search(c echo.Context) error {
	owner, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	filter := repository.ContactFilter{
		FirstName: c.QueryParam("first_name"),
		LastName:  c.QueryParam("last_name"),
		Email:     c.QueryParam("email"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contacts, err := h.Contacts.Search(ctx, owner.ID, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toContactResps(contacts))
}

// UpcomingBirthdays lists owned contacts whose birthday anniversary falls
// within the next N days (default 7), inclusive, windows across New Year
// included.
func (h *ContactHandler) UpcomingBirthdays(c echo.Context) error {
	owner, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	days := 7
	if s := c.QueryParam("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 366 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be between 0 and 366"})
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contacts, err := h.Contacts.UpcomingBirthdays(ctx, owner.ID, time.Now().UTC(), days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toContactResps(contacts))
}

// Update applies a partial update: only fields present in the payload are
// mutated, the rest keep their stored values.
func (h *ContactHandler) Update(c echo.Context) error {
	owner, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
	}
	var req contactUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	upd := repository.ContactUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Note:      req.Note,
	}
	if req.Birthday != nil {
		bday, err := time.Parse(birthdayLayout, *req.Birthday)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "birthday must be YYYY-MM-DD"})
		}
		upd.Birthday = &bday
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact, err := h.Contacts.Update(ctx, owner.ID, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrContactNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
		case errors.Is(err, repository.ErrContactEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact email already in use"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update contact failed"})
		}
	}
	return c.JSON(http.StatusOK, toContactResp(*contact))
}

// Delete removes an owned contact permanently.
func (h *ContactHandler) Delete(c echo.Context) error {
	owner, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contacts.Delete(ctx, owner.ID, id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete contact failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
