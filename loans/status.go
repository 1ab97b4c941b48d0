package loans

import "Gin_postgres_redis_loan_desk/models"

// transitions is the full status graph:
// pending → approved → active → returned, active → overdue → returned,
// pending/approved → cancelled. returned and cancelled are terminal.
var transitions = map[models.LoanStatus][]models.LoanStatus{
	models.LoanPending:  {models.LoanApproved, models.LoanCancelled},
	models.LoanApproved: {models.LoanActive, models.LoanReturned, models.LoanCancelled},
	models.LoanActive:   {models.LoanReturned, models.LoanOverdue},
	models.LoanOverdue:  {models.LoanReturned},
}

// CheckTransition validates a requested status change. A same-status target is
// ErrNoOpTransition; a target of returned on an already returned loan is
// ErrAlreadyReturned; anything not in the graph is ErrValidation.
func CheckTransition(from, to models.LoanStatus) error {
	if !to.Valid() {
		return wrapf(ErrValidation, "unknown loan status %q", to)
	}
	if from == to {
		if from == models.LoanReturned {
			return ErrAlreadyReturned
		}
		return ErrNoOpTransition
	}
	if from == models.LoanReturned && to != models.LoanReturned {
		return wrapf(ErrValidation, "loan is returned, cannot move to %q", to)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return wrapf(ErrValidation, "cannot move loan from %q to %q", from, to)
}

// RequiresApprover reports whether entering the target status needs
// approved_by_id set on the loan.
func RequiresApprover(to models.LoanStatus) bool {
	switch to {
	case models.LoanApproved, models.LoanActive, models.LoanReturned:
		return true
	}
	return false
}
