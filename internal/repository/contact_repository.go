package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Contact mirrors the 'contacts' table. Every contact belongs to exactly
// one owner; OwnerID never changes after creation.
type Contact struct {
	ID        uint64
	OwnerID   uint64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  sql.NullTime
	Note      sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactFilter holds the optional search filters. Empty fields are
// no-ops; supplied fields are ANDed case-insensitive substring matches.
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// Matches reports whether c satisfies every supplied filter.
func (f ContactFilter) Matches(c Contact) bool {
	return containsFold(c.FirstName, f.FirstName) &&
		containsFold(c.LastName, f.LastName) &&
		containsFold(c.Email, f.Email)
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContactUpdate carries a partial update. Nil fields are left untouched.
type ContactUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Note      *string
}

// assignments returns the SET clauses and arguments for the supplied
// fields, in declaration order.
func (u ContactUpdate) assignments() ([]string, []any) {
	var set []string
	var args []any
	if u.FirstName != nil {
		set, args = append(set, "first_name=?"), append(args, *u.FirstName)
	}
	if u.LastName != nil {
		set, args = append(set, "last_name=?"), append(args, *u.LastName)
	}
	if u.Email != nil {
		set, args = append(set, "email=?"), append(args, *u.Email)
	}
	if u.Phone != nil {
		set, args = append(set, "phone=?"), append(args, *u.Phone)
	}
	if u.Birthday != nil {
		set, args = append(set, "birthday=?"), append(args, *u.Birthday)
	}
	if u.Note != nil {
		set, args = append(set, "note=?"), append(args, *u.Note)
	}
	return set, args
}

type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

const contactColumns = "id,owner_id,first_name,last_name,email,phone,birthday,note,created_at,updated_at"

// Create inserts a contact for its owner. A duplicate (owner, email) pair
// surfaces as ErrContactEmailExists; the unique index does the check at
// commit time. On success the stored row is read back into c.
func (r *ContactRepo) Create(ctx context.Context, c *Contact) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contacts (owner_id, first_name, last_name, email, phone, birthday, note) VALUES (?,?,?,?,?,?,?)",
		c.OwnerID, c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, c.Note)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrContactEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByIDAndOwner(ctx, uint64(id), c.OwnerID)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// GetByIDAndOwner fetches a contact only if it belongs to the owner.
// A contact owned by someone else yields ErrContactNotFound, same as a
// missing one, so callers cannot probe for existence.
func (r *ContactRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Contact, error) {
	var c Contact
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id=? AND owner_id=? LIMIT 1",
		id, ownerID).Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Birthday, &c.Note, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns the owner's contacts in insertion order.
func (r *ContactRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE owner_id=? ORDER BY id ASC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContacts(rows)
}

// Search returns the owner's contacts matching every supplied filter.
// The owner scope narrows the set in SQL; the substring matching itself
// runs in-process so the semantics live in one tested place
// (ContactFilter.Matches) instead of being spread across LIKE patterns.
func (r *ContactRepo) Search(ctx context.Context, ownerID uint64, f ContactFilter) ([]Contact, error) {
	all, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Contact, 0, len(all))
	for _, c := range all {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday
// anniversary falls within [today, today+windowDays]. See BirthdayInWindow
// for the projection rules.
func (r *ContactRepo) UpcomingBirthdays(ctx context.Context, ownerID uint64, today time.Time, windowDays int) ([]Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE owner_id=? AND birthday IS NOT NULL ORDER BY id ASC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all, err := scanContacts(rows)
	if err != nil {
		return nil, err
	}
	out := make([]Contact, 0, len(all))
	for _, c := range all {
		if BirthdayInWindow(c.Birthday.Time, today, windowDays) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Update applies a partial update to an owned contact and returns the new
// row. Missing or foreign contacts yield ErrContactNotFound; an email
// colliding with another contact of the same owner yields
// ErrContactEmailExists via the unique index.
func (r *ContactRepo) Update(ctx context.Context, ownerID, id uint64, upd ContactUpdate) (*Contact, error) {
	set, args := upd.assignments()
	if len(set) == 0 {
		// Nothing to change; still enforce existence and ownership.
		return r.GetByIDAndOwner(ctx, id, ownerID)
	}
	args = append(args, id, ownerID)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE contacts SET "+strings.Join(set, ", ")+" WHERE id=? AND owner_id=?",
		args...)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrContactEmailExists
		}
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 both for missing rows and no-op updates, so
		// distinguish by reading the row back.
		if _, getErr := r.GetByIDAndOwner(ctx, id, ownerID); getErr != nil {
			return nil, getErr
		}
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// Delete removes an owned contact. Deletion is immediate and
// irreversible; missing or foreign ids yield ErrContactNotFound.
func (r *ContactRepo) Delete(ctx context.Context, ownerID, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM contacts WHERE id=? AND owner_id=?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrContactNotFound
	}
	return nil
}

func scanContacts(rows *sql.Rows) ([]Contact, error) {
	var out []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Birthday, &c.Note, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
