package flashcard

import "time"

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a day boundary forward by n calendar days. Calendar
// arithmetic keeps the result on midnight across DST transitions.
func AddDays(day time.Time, n int) time.Time {
	return StartOfDay(day).AddDate(0, 0, n)
}

// IsDue reports whether a card due on dueDate is eligible for review on the
// day containing asOf. Both sides are compared as calendar days in asOf's
// location.
func IsDue(dueDate, asOf time.Time) bool {
	due := StartOfDay(dueDate.In(asOf.Location()))
	return !due.After(StartOfDay(asOf))
}
