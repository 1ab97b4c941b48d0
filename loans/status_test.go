package loans

import (
	"testing"

	"Gin_postgres_redis_loan_desk/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	allowed := []struct{ from, to models.LoanStatus }{
		{models.LoanPending, models.LoanApproved},
		{models.LoanPending, models.LoanCancelled},
		{models.LoanApproved, models.LoanActive},
		{models.LoanApproved, models.LoanReturned},
		{models.LoanApproved, models.LoanCancelled},
		{models.LoanActive, models.LoanReturned},
		{models.LoanActive, models.LoanOverdue},
		{models.LoanOverdue, models.LoanReturned},
	}
	for _, tc := range allowed {
		assert.NoError(t, CheckTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	rejected := []struct{ from, to models.LoanStatus }{
		{models.LoanPending, models.LoanActive},
		{models.LoanPending, models.LoanReturned},
		{models.LoanPending, models.LoanOverdue},
		{models.LoanApproved, models.LoanOverdue},
		{models.LoanActive, models.LoanCancelled},
		{models.LoanOverdue, models.LoanCancelled},
		{models.LoanCancelled, models.LoanApproved},
		{models.LoanReturned, models.LoanActive},
	}
	for _, tc := range rejected {
		assert.ErrorIs(t, CheckTransition(tc.from, tc.to), ErrValidation, "%s -> %s", tc.from, tc.to)
	}
}

func TestCheckTransitionNoOp(t *testing.T) {
	assert.ErrorIs(t, CheckTransition(models.LoanPending, models.LoanPending), ErrNoOpTransition)
	assert.ErrorIs(t, CheckTransition(models.LoanActive, models.LoanActive), ErrNoOpTransition)
}

func TestCheckTransitionAlreadyReturned(t *testing.T) {
	assert.ErrorIs(t, CheckTransition(models.LoanReturned, models.LoanReturned), ErrAlreadyReturned)
}

func TestCheckTransitionUnknownStatus(t *testing.T) {
	assert.ErrorIs(t, CheckTransition(models.LoanPending, "archived"), ErrValidation)
}

func TestRequiresApprover(t *testing.T) {
	assert.True(t, RequiresApprover(models.LoanApproved))
	assert.True(t, RequiresApprover(models.LoanActive))
	assert.True(t, RequiresApprover(models.LoanReturned))
	assert.False(t, RequiresApprover(models.LoanCancelled))
	assert.False(t, RequiresApprover(models.LoanOverdue))
	assert.False(t, RequiresApprover(models.LoanPending))
}
