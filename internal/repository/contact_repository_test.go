package repository

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestContactFilterMatches(t *testing.T) {
	t.Parallel()

	anna := Contact{FirstName: "Anna", LastName: "Kowalska", Email: "anna.k@example.com"}
	hannah := Contact{FirstName: "Hannah", LastName: "Smith", Email: "hannah@example.com"}
	bob := Contact{FirstName: "Bob", LastName: "Jones", Email: "bob@example.com"}

	// Case-insensitive substring, not prefix: "ann" hits "Anna" and also
	// "Hannah" (substring-contained), but never "Bob".
	f := ContactFilter{FirstName: "ann"}
	if !f.Matches(anna) {
		t.Fatal(`filter "ann" did not match "Anna"`)
	}
	if !f.Matches(hannah) {
		t.Fatal(`filter "ann" did not match "Hannah" (substring-contained)`)
	}
	if f.Matches(bob) {
		t.Fatal(`filter "ann" matched "Bob"`)
	}

	// Filters AND together.
	both := ContactFilter{FirstName: "ann", LastName: "smith"}
	if both.Matches(anna) {
		t.Fatal("ANDed filters matched a contact failing the last_name filter")
	}
	if !both.Matches(hannah) {
		t.Fatal("ANDed filters missed a contact satisfying both")
	}

	// Empty filter matches everything.
	if !(ContactFilter{}).Matches(bob) {
		t.Fatal("empty filter did not match")
	}

	// Email filter is substring too.
	if !(ContactFilter{Email: "EXAMPLE.COM"}).Matches(anna) {
		t.Fatal("email filter is not case-insensitive")
	}
}

func TestContactUpdateAssignments(t *testing.T) {
	t.Parallel()

	if set, args := (ContactUpdate{}).assignments(); len(set) != 0 || len(args) != 0 {
		t.Fatalf("empty update produced assignments: %v %v", set, args)
	}

	bday := time.Date(1990, time.March, 5, 0, 0, 0, 0, time.UTC)
	upd := ContactUpdate{
		LastName: strPtr("Nowak"),
		Birthday: &bday,
	}
	set, args := upd.assignments()
	if len(set) != 2 || len(args) != 2 {
		t.Fatalf("expected 2 assignments, got %v %v", set, args)
	}
	if set[0] != "last_name=?" || set[1] != "birthday=?" {
		t.Fatalf("unexpected SET clauses: %v", set)
	}
	if args[0] != "Nowak" {
		t.Fatalf("unexpected args: %v", args)
	}

	// An explicitly supplied empty string is still an assignment; only
	// nil means "leave untouched".
	set, _ = (ContactUpdate{Phone: strPtr("")}).assignments()
	if len(set) != 1 || set[0] != "phone=?" {
		t.Fatalf("empty-string field skipped: %v", set)
	}
}
