package db

import (
	"context"
	"time"

	"Gin_postgres_redis_loan_desk/loans"
	"Gin_postgres_redis_loan_desk/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Loan engine. Every status-changing operation runs as one Transaction
// closure covering the loan row, its loan-item rows and the stock ledger, so
// a failure anywhere leaves nothing half-applied.

type LoanLineInput struct {
	ItemID           string                `json:"itemId"`
	BorrowedQuantity int                   `json:"borrowedQuantity"`
	BorrowCondition  *models.ItemCondition `json:"borrowCondition,omitempty"`
}

type CreateLoanInput struct {
	BorrowerID   string
	LoanDate     time.Time
	DueDate      time.Time
	Notes        string
	LoanStatus   models.LoanStatus
	ApprovedByID *string
	Items        []LoanLineInput
}

type UpdateLoanInput struct {
	LoanDate     *time.Time
	DueDate      *time.Time
	Notes        *string
	LoanStatus   *models.LoanStatus
	ApprovedByID *string
	Items        []LoanLineInput // nil means keep the current item list
}

func validateLines(items []LoanLineInput) error {
	if len(items) == 0 {
		return loans.WrapValidation("loan needs at least one item line")
	}
	seen := make(map[string]bool, len(items))
	for _, l := range items {
		if l.ItemID == "" {
			return loans.WrapValidation("loan item is missing item id")
		}
		if l.BorrowedQuantity < 1 {
			return loans.WrapValidation("borrowed quantity must be at least 1")
		}
		if seen[l.ItemID] {
			return loans.WrapValidation("duplicate item in loan: " + l.ItemID)
		}
		seen[l.ItemID] = true
		if l.BorrowCondition != nil && !l.BorrowCondition.Valid() {
			return loans.WrapValidation("unknown borrow condition: " + string(*l.BorrowCondition))
		}
	}
	return nil
}

func toLedgerLines(items []models.LoanItem) []loans.Line {
	out := make([]loans.Line, 0, len(items))
	for _, li := range items {
		out = append(out, loans.Line{ItemID: li.ItemID, Quantity: li.BorrowedQuantity})
	}
	return out
}

func inputLedgerLines(items []LoanLineInput) []loans.Line {
	out := make([]loans.Line, 0, len(items))
	for _, l := range items {
		out = append(out, loans.Line{ItemID: l.ItemID, Quantity: l.BorrowedQuantity})
	}
	return out
}

// lockLoan loads a loan row FOR UPDATE together with its lines.
func lockLoan(tx *gorm.DB, id string) (*models.Loan, error) {
	var l models.Loan
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := tx.Where("loan_id = ?", id).Order("created_at").Find(&l.LoanItems).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLoan stores a new loan with its item lines. A pending loan holds no
// reservation; creating directly as approved reserves stock in the same
// transaction (and needs an approver). Other initial statuses are rejected.
func (r *Repo) CreateLoan(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	if in.BorrowerID == "" {
		return nil, loans.WrapValidation("borrower id is required")
	}
	if in.LoanStatus == "" {
		in.LoanStatus = models.LoanPending
	}
	if in.LoanStatus != models.LoanPending && in.LoanStatus != models.LoanApproved {
		return nil, loans.WrapValidation("initial loan status must be pending or approved")
	}
	if in.DueDate.Before(in.LoanDate) {
		return nil, loans.WrapValidation("due date is before loan date")
	}
	if err := validateLines(in.Items); err != nil {
		return nil, err
	}
	if in.LoanStatus == models.LoanApproved && in.ApprovedByID == nil {
		return nil, loans.WrapValidation("approved loan needs approved_by_id")
	}

	loanID := uuid.NewString()
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var borrower models.User
		if err := tx.First(&borrower, "id = ?", in.BorrowerID).Error; err != nil {
			return notFound(err)
		}

		// 确认所有 item 存在，pending 也要查
		ids := make([]string, 0, len(in.Items))
		for _, li := range in.Items {
			ids = append(ids, li.ItemID)
		}
		if _, err := findItems(tx, ids); err != nil {
			return err
		}

		l := &models.Loan{
			ID:           loanID,
			BorrowerID:   in.BorrowerID,
			ApprovedByID: in.ApprovedByID,
			LoanDate:     in.LoanDate,
			DueDate:      in.DueDate,
			Notes:        in.Notes,
			LoanStatus:   in.LoanStatus,
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		for _, li := range in.Items {
			row := models.LoanItem{
				ID:               uuid.NewString(),
				LoanID:           loanID,
				ItemID:           li.ItemID,
				BorrowedQuantity: li.BorrowedQuantity,
				BorrowCondition:  li.BorrowCondition,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		if in.LoanStatus == models.LoanApproved {
			return reserveStock(tx, inputLedgerLines(in.Items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetLoan(ctx, loanID)
}

// GetLoan returns the full aggregate: borrower plus resolved item lines.
func (r *Repo) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).
		Preload("Borrower").
		Preload("LoanItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("LoanItems.Item").
		First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// TransitionLoan moves a loan to the target status, adjusting the ledger as
// the status enters or leaves the stock-holding set.
func (r *Repo) TransitionLoan(ctx context.Context, id string, target models.LoanStatus, approverID *string) (*models.Loan, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := lockLoan(tx, id)
		if err != nil {
			return err
		}
		return applyTransition(tx, l, target, approverID, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return r.GetLoan(ctx, id)
}

// applyTransition runs inside the caller's transaction; l must be locked with
// its lines loaded. returnDate/conditions are only consulted when the target
// is returned.
func applyTransition(tx *gorm.DB, l *models.Loan, target models.LoanStatus, approverID *string, returnDate *time.Time, conditions map[string]models.ItemCondition) error {
	if err := loans.CheckTransition(l.LoanStatus, target); err != nil {
		return err
	}
	if approverID == nil {
		approverID = l.ApprovedByID
	}
	if loans.RequiresApprover(target) && approverID == nil {
		return loans.WrapValidation("transition to " + string(target) + " needs approved_by_id")
	}

	fields := map[string]any{"loan_status": target}
	if approverID != nil {
		fields["approved_by_id"] = *approverID
	}

	switch target {
	case models.LoanApproved:
		if err := reserveStock(tx, toLedgerLines(l.LoanItems)); err != nil {
			return err
		}
	case models.LoanReturned:
		if err := releaseStock(tx, toLedgerLines(l.LoanItems)); err != nil {
			return err
		}
		when := time.Now().UTC()
		if returnDate != nil {
			when = *returnDate
		}
		fields["return_date"] = when
		for _, li := range l.LoanItems {
			lineFields := map[string]any{"returned_at": when}
			if cond, ok := conditions[li.ItemID]; ok {
				if !cond.Valid() {
					return loans.WrapValidation("unknown return condition: " + string(cond))
				}
				lineFields["return_condition"] = cond
			}
			if err := tx.Model(&models.LoanItem{}).Where("id = ?", li.ID).
				Updates(lineFields).Error; err != nil {
				return err
			}
		}
	case models.LoanCancelled:
		if l.LoanStatus.HoldsStock() {
			if err := releaseStock(tx, toLedgerLines(l.LoanItems)); err != nil {
				return err
			}
		}
	case models.LoanActive, models.LoanOverdue:
		// pure status flip, reservation already held
	}

	return tx.Model(&models.Loan{}).Where("id = ?", l.ID).Updates(fields).Error
}

// ReturnLoan releases the reservation, stamps return_date and per-line
// returned_at, and records per-item return conditions (keyed by item id).
func (r *Repo) ReturnLoan(ctx context.Context, id string, returnDate time.Time, conditions map[string]models.ItemCondition) (*models.Loan, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := lockLoan(tx, id)
		if err != nil {
			return err
		}
		return applyTransition(tx, l, models.LoanReturned, nil, &returnDate, conditions)
	})
	if err != nil {
		return nil, err
	}
	return r.GetLoan(ctx, id)
}

// UpdateLoan patches dates/notes, optionally replaces the item list, and
// optionally applies a status transition — all in one transaction, so a
// failed re-reservation rolls the whole update back.
func (r *Repo) UpdateLoan(ctx context.Context, id string, in UpdateLoanInput) (*models.Loan, error) {
	if in.Items != nil {
		if err := validateLines(in.Items); err != nil {
			return nil, err
		}
	}
	if in.LoanStatus != nil && !in.LoanStatus.Valid() {
		return nil, loans.WrapValidation("unknown loan status: " + string(*in.LoanStatus))
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := lockLoan(tx, id)
		if err != nil {
			return err
		}

		loanDate, dueDate := l.LoanDate, l.DueDate
		if in.LoanDate != nil {
			loanDate = *in.LoanDate
		}
		if in.DueDate != nil {
			dueDate = *in.DueDate
		}
		if dueDate.Before(loanDate) {
			return loans.WrapValidation("due date is before loan date")
		}

		if in.Items != nil {
			if err := replaceLoanItems(tx, l, in.Items); err != nil {
				return err
			}
		}

		fields := map[string]any{}
		if in.LoanDate != nil {
			fields["loan_date"] = loanDate
		}
		if in.DueDate != nil {
			fields["due_date"] = dueDate
		}
		if in.Notes != nil {
			fields["notes"] = *in.Notes
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.Loan{}).Where("id = ?", l.ID).Updates(fields).Error; err != nil {
				return err
			}
		}

		// Supplying loan_status always goes through the state machine; a
		// target equal to the current status is rejected there as a no-op.
		if in.LoanStatus != nil {
			return applyTransition(tx, l, *in.LoanStatus, in.ApprovedByID, nil, nil)
		}
		if in.ApprovedByID != nil {
			return tx.Model(&models.Loan{}).Where("id = ?", l.ID).
				Update("approved_by_id", *in.ApprovedByID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetLoan(ctx, id)
}

// replaceLoanItems swaps the loan's item lines for the requested list. When
// the loan holds a reservation only the ledger delta is issued: removed and
// shrunk lines release, added and grown lines reserve. Rows themselves are
// replaced wholesale.
func replaceLoanItems(tx *gorm.DB, l *models.Loan, items []LoanLineInput) error {
	if l.LoanStatus == models.LoanReturned || l.LoanStatus == models.LoanCancelled {
		return loans.WrapValidation("cannot replace items on a " + string(l.LoanStatus) + " loan")
	}

	ids := make([]string, 0, len(items))
	for _, li := range items {
		ids = append(ids, li.ItemID)
	}
	if _, err := findItems(tx, ids); err != nil {
		return err
	}

	diff := loans.Reconcile(toLedgerLines(l.LoanItems), inputLedgerLines(items))

	if l.LoanStatus.HoldsStock() {
		if err := releaseStock(tx, diff.Releases); err != nil {
			return err
		}
	}

	if err := tx.Where("loan_id = ?", l.ID).Delete(&models.LoanItem{}).Error; err != nil {
		return err
	}
	newLines := make([]models.LoanItem, 0, len(items))
	for _, li := range items {
		newLines = append(newLines, models.LoanItem{
			ID:               uuid.NewString(),
			LoanID:           l.ID,
			ItemID:           li.ItemID,
			BorrowedQuantity: li.BorrowedQuantity,
			BorrowCondition:  li.BorrowCondition,
		})
	}
	for i := range newLines {
		if err := tx.Create(&newLines[i]).Error; err != nil {
			return err
		}
	}

	if l.LoanStatus.HoldsStock() {
		if err := reserveStock(tx, diff.Reserves); err != nil {
			return err
		}
	}

	l.LoanItems = newLines
	return nil
}
