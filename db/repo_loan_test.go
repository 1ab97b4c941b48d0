package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"Gin_postgres_redis_loan_desk/loans"
	"Gin_postgres_redis_loan_desk/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// These tests need a real Postgres, e.g.
//
//	TEST_DATABASE_URL="host=127.0.0.1 user=postgres password=postgres dbname=loan_desk_test port=5432 sslmode=disable" go test ./db/...

func testRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	for _, tbl := range []string{models.LoanItemTable, models.LoanTable, models.ItemTable, models.UserTable} {
		require.NoError(t, conn.Exec("DELETE FROM "+tbl).Error)
	}
	return NewRepo(conn)
}

func seedUser(t *testing.T, r *Repo) *models.User {
	t.Helper()
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      "Test Borrower",
		StudentID: uuid.NewString()[:8],
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedItem(t *testing.T, r *Repo, name string, stock int) *models.Item {
	t.Helper()
	it := &models.Item{
		ID:                 uuid.NewString(),
		Name:               name,
		Category:           models.CategoryLaptop,
		Stock:              stock,
		ConditionStatus:    models.ConditionGood,
		AvailabilityStatus: models.ItemAvailable,
	}
	require.NoError(t, r.CreateItem(context.Background(), it))
	return it
}

func counters(t *testing.T, r *Repo, itemID string) (stock, borrowed int) {
	t.Helper()
	it, err := r.FindItemByID(context.Background(), itemID)
	require.NoError(t, err)
	return it.Stock, it.BorrowedQuantity
}

// assertConservation checks stock + borrowed_quantity against the value at
// item creation.
func assertConservation(t *testing.T, r *Repo, itemID string, total int) {
	t.Helper()
	stock, borrowed := counters(t, r, itemID)
	assert.Equal(t, total, stock+borrowed, "stock+borrowed drifted for item %s", itemID)
}

func pendingLoan(t *testing.T, r *Repo, borrowerID string, items ...LoanLineInput) *models.Loan {
	t.Helper()
	now := time.Now().UTC()
	l, err := r.CreateLoan(context.Background(), CreateLoanInput{
		BorrowerID: borrowerID,
		LoanDate:   now,
		DueDate:    now.Add(7 * 24 * time.Hour),
		Items:      items,
	})
	require.NoError(t, err)
	require.Equal(t, models.LoanPending, l.LoanStatus)
	return l
}

func approver() *string { s := uuid.NewString(); return &s }

func TestApproveReservesAndReturnReleases(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	x := seedItem(t, r, "Item X", 5)

	l := pendingLoan(t, r, u.ID, LoanLineInput{ItemID: x.ID, BorrowedQuantity: 3})
	stock, borrowed := counters(t, r, x.ID)
	assert.Equal(t, 5, stock, "pending loan must not reserve")
	assert.Equal(t, 0, borrowed)

	l, err := r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
	require.NoError(t, err)
	assert.Equal(t, models.LoanApproved, l.LoanStatus)
	stock, borrowed = counters(t, r, x.ID)
	assert.Equal(t, 2, stock)
	assert.Equal(t, 3, borrowed)
	assertConservation(t, r, x.ID, 5)

	cond := models.ConditionGood
	l, err = r.ReturnLoan(ctx, l.ID, time.Now().UTC(), map[string]models.ItemCondition{x.ID: cond})
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, l.LoanStatus)
	require.NotNil(t, l.ReturnDate)
	require.Len(t, l.LoanItems, 1)
	assert.NotNil(t, l.LoanItems[0].ReturnedAt)
	require.NotNil(t, l.LoanItems[0].ReturnCondition)
	assert.Equal(t, cond, *l.LoanItems[0].ReturnCondition)

	stock, borrowed = counters(t, r, x.ID)
	assert.Equal(t, 5, stock)
	assert.Equal(t, 0, borrowed)
}

func TestApproveInsufficientStockIsAllOrNothing(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	a := seedItem(t, r, "Item A", 5)
	b := seedItem(t, r, "Item B", 1)

	l := pendingLoan(t, r, u.ID,
		LoanLineInput{ItemID: a.ID, BorrowedQuantity: 2},
		LoanLineInput{ItemID: b.ID, BorrowedQuantity: 3},
	)

	_, err := r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
	var short *loans.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, b.ID, short.ItemID)
	assert.Equal(t, 2, short.Shortfall())

	// No line of the batch may have been applied.
	stock, borrowed := counters(t, r, a.ID)
	assert.Equal(t, 5, stock)
	assert.Equal(t, 0, borrowed)
	stock, borrowed = counters(t, r, b.ID)
	assert.Equal(t, 1, stock)
	assert.Equal(t, 0, borrowed)

	got, err := r.GetLoan(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanPending, got.LoanStatus)
}

func TestReturnTwiceFailsAndLeavesStockAlone(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	x := seedItem(t, r, "Item X", 4)

	l := pendingLoan(t, r, u.ID, LoanLineInput{ItemID: x.ID, BorrowedQuantity: 2})
	_, err := r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
	require.NoError(t, err)
	_, err = r.ReturnLoan(ctx, l.ID, time.Now().UTC(), nil)
	require.NoError(t, err)

	_, err = r.ReturnLoan(ctx, l.ID, time.Now().UTC(), nil)
	assert.ErrorIs(t, err, loans.ErrAlreadyReturned)

	stock, borrowed := counters(t, r, x.ID)
	assert.Equal(t, 4, stock)
	assert.Equal(t, 0, borrowed)
}

func TestReplaceApprovedItemListAppliesDelta(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	a := seedItem(t, r, "Item A", 5)
	b := seedItem(t, r, "Item B", 5)

	l := pendingLoan(t, r, u.ID, LoanLineInput{ItemID: a.ID, BorrowedQuantity: 2})
	_, err := r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
	require.NoError(t, err)

	got, err := r.UpdateLoan(ctx, l.ID, UpdateLoanInput{
		Items: []LoanLineInput{
			{ItemID: a.ID, BorrowedQuantity: 1},
			{ItemID: b.ID, BorrowedQuantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, got.LoanItems, 2)

	stock, borrowed := counters(t, r, a.ID)
	assert.Equal(t, 4, stock, "A releases 1 net")
	assert.Equal(t, 1, borrowed)
	stock, borrowed = counters(t, r, b.ID)
	assert.Equal(t, 2, stock)
	assert.Equal(t, 3, borrowed)
	assertConservation(t, r, a.ID, 5)
	assertConservation(t, r, b.ID, 5)
}

func TestFailedReplacementKeepsOriginalReservation(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	a := seedItem(t, r, "Item A", 5)
	b := seedItem(t, r, "Item B", 2)

	l := pendingLoan(t, r, u.ID, LoanLineInput{ItemID: a.ID, BorrowedQuantity: 2})
	_, err := r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
	require.NoError(t, err)

	_, err = r.UpdateLoan(ctx, l.ID, UpdateLoanInput{
		Items: []LoanLineInput{
			{ItemID: a.ID, BorrowedQuantity: 1},
			{ItemID: b.ID, BorrowedQuantity: 3},
		},
	})
	var short *loans.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, b.ID, short.ItemID)

	// The whole update rolled back: original lines and reservation intact.
	got, err := r.GetLoan(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, got.LoanItems, 1)
	assert.Equal(t, a.ID, got.LoanItems[0].ItemID)
	assert.Equal(t, 2, got.LoanItems[0].BorrowedQuantity)

	stock, borrowed := counters(t, r, a.ID)
	assert.Equal(t, 3, stock)
	assert.Equal(t, 2, borrowed)
	stock, borrowed = counters(t, r, b.ID)
	assert.Equal(t, 2, stock)
	assert.Equal(t, 0, borrowed)
}

func TestCancelReleasesOnlyWhenHolding(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	x := seedItem(t, r, "Item X", 3)

	// Cancelling a pending loan touches no counters.
	l := pendingLoan(t, r, u.ID, LoanLineInput{ItemID: x.ID, BorrowedQuantity: 2})
	_, err := r.TransitionLoan(ctx, l.ID, models.LoanCancelled, nil)
	require.NoError(t, err)
	stock, borrowed := counters(t, r, x.ID)
	assert.Equal(t, 3, stock)
	assert.Equal(t, 0, borrowed)

	// Cancelling an approved loan releases its reservation.
	l = pendingLoan(t, r, u.ID, LoanLineInput{ItemID: x.ID, BorrowedQuantity: 2})
	_, err = r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
	require.NoError(t, err)
	_, err = r.TransitionLoan(ctx, l.ID, models.LoanCancelled, nil)
	require.NoError(t, err)
	stock, borrowed = counters(t, r, x.ID)
	assert.Equal(t, 3, stock)
	assert.Equal(t, 0, borrowed)
}

func TestNoOpTransition(t *testing.T) {
	r := testRepo(t)
	u := seedUser(t, r)
	x := seedItem(t, r, "Item X", 1)

	l := pendingLoan(t, r, u.ID, LoanLineInput{ItemID: x.ID, BorrowedQuantity: 1})
	_, err := r.TransitionLoan(context.Background(), l.ID, models.LoanPending, nil)
	assert.ErrorIs(t, err, loans.ErrNoOpTransition)
}

func TestCreateLoanValidation(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	x := seedItem(t, r, "Item X", 1)
	now := time.Now().UTC()
	line := LoanLineInput{ItemID: x.ID, BorrowedQuantity: 1}

	_, err := r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: u.ID, LoanDate: now, DueDate: now.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, loans.ErrValidation, "empty item list")

	_, err = r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: u.ID, LoanDate: now, DueDate: now.Add(-24 * time.Hour),
		Items: []LoanLineInput{line},
	})
	assert.ErrorIs(t, err, loans.ErrValidation, "due before loan date")

	_, err = r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: u.ID, LoanDate: now, DueDate: now.Add(24 * time.Hour),
		Items: []LoanLineInput{{ItemID: x.ID, BorrowedQuantity: 0}},
	})
	assert.ErrorIs(t, err, loans.ErrValidation, "zero quantity")

	_, err = r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: uuid.NewString(), LoanDate: now, DueDate: now.Add(24 * time.Hour),
		Items: []LoanLineInput{line},
	})
	assert.ErrorIs(t, err, loans.ErrNotFound, "unknown borrower")

	_, err = r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: u.ID, LoanDate: now, DueDate: now.Add(24 * time.Hour),
		Items: []LoanLineInput{{ItemID: uuid.NewString(), BorrowedQuantity: 1}},
	})
	assert.ErrorIs(t, err, loans.ErrNotFound, "unknown item")
}

func TestDailySweepIsIdempotent(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	x := seedItem(t, r, "Item X", 10)

	today := time.Now().UTC()
	yesterday := today.Add(-24 * time.Hour)
	lastWeek := today.Add(-7 * 24 * time.Hour)

	// Approved, started last week, already past due: one sweep takes it all
	// the way to overdue.
	l, err := r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: u.ID, LoanDate: lastWeek, DueDate: yesterday,
		Items: []LoanLineInput{{ItemID: x.ID, BorrowedQuantity: 1}},
	})
	require.NoError(t, err)
	_, err = r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
	require.NoError(t, err)

	// Approved, starts today, due next week: becomes active only.
	l2, err := r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: u.ID, LoanDate: today, DueDate: today.Add(7 * 24 * time.Hour),
		Items: []LoanLineInput{{ItemID: x.ID, BorrowedQuantity: 1}},
	})
	require.NoError(t, err)
	_, err = r.TransitionLoan(ctx, l2.ID, models.LoanApproved, approver())
	require.NoError(t, err)

	res, err := r.RunDailySweep(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.PromotedActive)
	assert.Equal(t, int64(1), res.MarkedOverdue)

	got, err := r.GetLoan(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanOverdue, got.LoanStatus)
	got2, err := r.GetLoan(ctx, l2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanActive, got2.LoanStatus)

	// Second run is a no-op.
	res, err = r.RunDailySweep(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, res.PromotedActive)
	assert.Zero(t, res.MarkedOverdue)

	// Sweep never touches the ledger.
	stock, borrowed := counters(t, r, x.ID)
	assert.Equal(t, 8, stock)
	assert.Equal(t, 2, borrowed)
}

func TestListLoansPriorityOrder(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	x := seedItem(t, r, "Item X", 10)

	today := time.Now().UTC()
	mk := func(loanDate, dueDate time.Time) *models.Loan {
		l, err := r.CreateLoan(ctx, CreateLoanInput{
			BorrowerID: u.ID, LoanDate: loanDate, DueDate: dueDate,
			Items: []LoanLineInput{{ItemID: x.ID, BorrowedQuantity: 1}},
		})
		require.NoError(t, err)
		_, err = r.TransitionLoan(ctx, l.ID, models.LoanApproved, approver())
		require.NoError(t, err)
		return l
	}

	dueSoon := mk(today, today.Add(2*24*time.Hour))
	dueLater := mk(today, today.Add(20*24*time.Hour))
	pastDue := mk(today.Add(-10*24*time.Hour), today.Add(-2*24*time.Hour))

	// Promote so pastDue carries overdue status.
	_, err := r.RunDailySweep(ctx, today)
	require.NoError(t, err)

	ls, err := r.ListLoans(ctx, LoanQuery{Today: today})
	require.NoError(t, err)
	require.Len(t, ls, 3)
	assert.Equal(t, pastDue.ID, ls[0].ID, "overdue outranks everything")
	assert.Equal(t, dueSoon.ID, ls[1].ID)
	assert.Equal(t, dueLater.ID, ls[2].ID)

	// Overdue filter.
	overdue := true
	ls, err = r.ListLoans(ctx, LoanQuery{Today: today, Overdue: &overdue})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, pastDue.ID, ls[0].ID)
}
