package loans

import (
	"time"

	"Gin_postgres_redis_loan_desk/models"
)

// Priority score is a best-effort triage ranking, recomputed on every read and
// never persisted. Overdue loans score at least 1000 and therefore always
// outrank non-overdue loans, whose ceiling is 180.
//
//	overdue:                +1000
//	else, due_date >= today: +100 + max(0, 50 - days_until_due)
//	always:                 +max(0, 30 - |days_since_loan_date|)

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b (negative when b is
// before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)) / (24 * time.Hour))
}

// Score computes the priority of a loan as of the given day.
func Score(today time.Time, l *models.Loan) int {
	score := 0
	if l.LoanStatus == models.LoanOverdue {
		score += 1000
	} else if daysUntilDue := DaysBetween(today, l.DueDate); daysUntilDue >= 0 {
		score += 100 + max(0, 50-daysUntilDue)
	}
	sinceLoan := DaysBetween(l.LoanDate, today)
	if sinceLoan < 0 {
		sinceLoan = -sinceLoan
	}
	score += max(0, 30-sinceLoan)
	return score
}
