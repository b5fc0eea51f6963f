package repository

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBirthdayInWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bday   time.Time
		today  time.Time
		window int
		want   bool
	}{
		{"inside window", date(1990, time.March, 5), date(2024, time.March, 1), 7, true},
		{"just past window end", date(1990, time.March, 9), date(2024, time.March, 1), 7, false},
		{"already passed this year", date(1990, time.February, 28), date(2024, time.March, 1), 7, false},
		{"today counts", date(1990, time.March, 1), date(2024, time.March, 1), 7, true},
		{"window end counts", date(1990, time.March, 8), date(2024, time.March, 1), 7, true},
		{"zero window matches today only", date(1990, time.June, 15), date(2024, time.June, 15), 0, true},
		{"zero window excludes tomorrow", date(1990, time.June, 16), date(2024, time.June, 15), 0, false},

		// A window opened in late December must reach January birthdays
		// in the following year.
		{"year boundary hit", date(1985, time.January, 2), date(2024, time.December, 28), 7, true},
		{"year boundary miss", date(1985, time.January, 5), date(2024, time.December, 28), 7, false},
		{"dec birthday in dec window", date(1985, time.December, 30), date(2024, time.December, 28), 7, true},

		// Feb 29 birthdays clamp to Feb 28 in non-leap target years.
		{"feb29 clamped in non-leap year", date(1996, time.February, 29), date(2025, time.February, 26), 7, true},
		{"feb29 clamp excludes mar1 start", date(1996, time.February, 29), date(2025, time.March, 1), 7, false},
		{"feb29 kept in leap year", date(1996, time.February, 29), date(2024, time.February, 26), 7, true},
		{"feb29 clamp exact day", date(1996, time.February, 29), date(2025, time.February, 28), 0, true},

		// Birth year is irrelevant; only month/day project forward.
		{"future birth year still projects", date(2030, time.March, 5), date(2024, time.March, 1), 7, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BirthdayInWindow(tt.bday, tt.today, tt.window); got != tt.want {
				t.Fatalf("BirthdayInWindow(%s, %s, %d) = %v, want %v",
					tt.bday.Format("2006-01-02"), tt.today.Format("2006-01-02"), tt.window, got, tt.want)
			}
		})
	}
}

func TestBirthdayInWindowIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	// A "today" captured late in the evening must still match a birthday
	// on the same calendar date.
	today := time.Date(2024, time.March, 1, 23, 59, 59, 0, time.UTC)
	if !BirthdayInWindow(date(1990, time.March, 1), today, 7) {
		t.Fatal("same-day birthday missed when today carries a time component")
	}
}
