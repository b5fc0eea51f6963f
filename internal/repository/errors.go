// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values reused across repositories.
// Sentinel errors let handlers translate storage outcomes into the right
// HTTP responses: ErrEmailExists becomes 409, ErrContactEmailExists 400,
// ErrContactNotFound 404.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an account with the given email is
// already registered. Account emails are globally unique.
var ErrEmailExists = errors.New("email already exists")

// ErrContactEmailExists is returned when another contact of the same
// owner already uses the email. Contact emails are unique per owner,
// not globally.
var ErrContactEmailExists = errors.New("contact email already in use")

// ErrContactNotFound is returned when a contact does not exist or belongs
// to a different owner. The two cases are deliberately indistinguishable.
var ErrContactNotFound = errors.New("contact not found")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062). Uniqueness is enforced by the database at commit time;
// repositories catch the violation instead of pre-checking, which would
// race under concurrent requests.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
