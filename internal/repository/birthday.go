package repository

import "time"

// BirthdayInWindow reports whether the anniversary of bday falls within
// [today, today+windowDays], inclusive on both ends.
//
// The birth date is projected onto the year of today and onto the
// following year, and a hit in either projection counts. The dual
// projection is what lets a window opened in late December reach
// birthdays in early January; a single same-year projection would miss
// them.
//
// A Feb 29 birth date projected onto a non-leap year is clamped to
// Feb 28, so the anniversary never lands after the real date.
func BirthdayInWindow(bday, today time.Time, windowDays int) bool {
	start := dateOnly(today)
	end := start.AddDate(0, 0, windowDays)
	for _, year := range [2]int{start.Year(), start.Year() + 1} {
		p := projectOntoYear(bday, year)
		if !p.Before(start) && !p.After(end) {
			return true
		}
	}
	return false
}

// projectOntoYear replaces the year component of bday, keeping month and
// day, clamping Feb 29 to Feb 28 when the target year is not a leap year.
func projectOntoYear(bday time.Time, year int) time.Time {
	month, day := bday.Month(), bday.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
