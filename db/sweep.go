package db

import (
	"context"
	"time"

	"Gin_postgres_redis_loan_desk/loans"
	"Gin_postgres_redis_loan_desk/models"

	"gorm.io/gorm"
)

type SweepResult struct {
	PromotedActive int64 `json:"promotedActive"`
	MarkedOverdue  int64 `json:"markedOverdue"`
}

// RunDailySweep promotes statuses by elapsed time only:
// approved loans whose loan_date has arrived become active, active loans past
// due with no return become overdue. Pure status flips, no ledger effect, so
// running it twice is the same as once.
func (r *Repo) RunDailySweep(ctx context.Context, today time.Time) (SweepResult, error) {
	day := loans.DateOf(today)
	var res SweepResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		promote := tx.Model(&models.Loan{}).
			Where("loan_status = ? AND loan_date < ?", models.LoanApproved, day.Add(24*time.Hour)).
			Update("loan_status", models.LoanActive)
		if promote.Error != nil {
			return promote.Error
		}
		res.PromotedActive = promote.RowsAffected

		overdue := tx.Model(&models.Loan{}).
			Where("loan_status = ? AND return_date IS NULL AND due_date < ?", models.LoanActive, day).
			Update("loan_status", models.LoanOverdue)
		if overdue.Error != nil {
			return overdue.Error
		}
		res.MarkedOverdue = overdue.RowsAffected
		return nil
	})
	return res, err
}
