package db

import (
	"context"
	"sort"
	"time"

	"Gin_postgres_redis_loan_desk/loans"
	"Gin_postgres_redis_loan_desk/models"

	"gorm.io/gorm"
)

type LoanQuery struct {
	Status  models.LoanStatus // "" for all
	Overdue *bool             // overdue status, or active past due and not returned
	From    *time.Time        // loan_date range, inclusive
	To      *time.Time
	SortBy  string    // "priority" (default), "loan_date", "due_date"
	Today   time.Time // reference day for priority and the overdue flag
}

// ListLoans is the read-only query layer. Priority is recomputed from Today on
// every call, never stored; ties keep the underlying loan_date order.
func (r *Repo) ListLoans(ctx context.Context, q LoanQuery) ([]models.Loan, error) {
	today := loans.DateOf(q.Today)

	tx := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Borrower").
		Preload("LoanItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("LoanItems.Item")

	if q.Status != "" {
		if !q.Status.Valid() {
			return nil, loans.WrapValidation("unknown loan status: " + string(q.Status))
		}
		tx = tx.Where("loan_status = ?", q.Status)
	}
	if q.From != nil {
		tx = tx.Where("loan_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("loan_date <= ?", *q.To)
	}
	if q.Overdue != nil {
		cond := "(loan_status = ? OR (loan_status = ? AND return_date IS NULL AND due_date < ?))"
		if *q.Overdue {
			tx = tx.Where(cond, models.LoanOverdue, models.LoanActive, today)
		} else {
			tx = tx.Where("NOT "+cond, models.LoanOverdue, models.LoanActive, today)
		}
	}

	switch q.SortBy {
	case "due_date":
		tx = tx.Order("due_date ASC")
	case "loan_date":
		tx = tx.Order("loan_date DESC")
	case "", "priority":
		tx = tx.Order("loan_date DESC")
	default:
		return nil, loans.WrapValidation("unknown sort key: " + q.SortBy)
	}

	var ls []models.Loan
	if err := tx.Find(&ls).Error; err != nil {
		return nil, err
	}

	if q.SortBy == "" || q.SortBy == "priority" {
		sort.SliceStable(ls, func(i, j int) bool {
			return loans.Score(today, &ls[i]) > loans.Score(today, &ls[j])
		})
	}
	return ls, nil
}
