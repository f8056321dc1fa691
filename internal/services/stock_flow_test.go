package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstock/internal/apperror"
	"labstock/internal/models"
)

func testItem(id, quantity int, name string) *models.Item {
	return &models.Item{ID: id, Name: name, Quantity: quantity, Available: quantity}
}

func TestAllocateThenDeallocateRestoresAvailability(t *testing.T) {
	store, ledger, _ := newTestServices(testItem(1, 10, "Resistor kit"))
	ctx := context.Background()

	alloc, err := ledger.Allocate(ctx, &models.CreateAllocationRequest{
		ItemID:            1,
		ProjectID:         7,
		AllocatedQuantity: 4,
	}, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, 6, store.available(1))

	require.NoError(t, ledger.Deallocate(ctx, alloc.ID, 1, "admin"))
	assert.Equal(t, 10, store.available(1))
}

func TestReleaseNeverRaisesAvailabilityAboveTotal(t *testing.T) {
	store, ledger, _ := newTestServices(testItem(1, 5, "Breadboard"))
	ctx := context.Background()

	// A manual return against an item already fully on hand is capped
	_, err := ledger.RecordManualTransaction(ctx, &models.CreateTransactionRequest{
		ItemID:   1,
		UserID:   3,
		Type:     models.TransactionTypeReturn,
		Quantity: 3,
	}, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, 5, store.available(1))
}

func TestAllocateInsufficientStock(t *testing.T) {
	store, ledger, _ := newTestServices(testItem(1, 3, "Stepper motor"))

	_, err := ledger.Allocate(context.Background(), &models.CreateAllocationRequest{
		ItemID:            1,
		ProjectID:         7,
		AllocatedQuantity: 4,
	}, 1, "admin")

	assert.True(t, errors.Is(err, apperror.ErrInsufficientStock))
	assert.Equal(t, 3, store.available(1))
}

func TestConcurrentAllocationsNeverOversell(t *testing.T) {
	store, ledger, _ := newTestServices(testItem(1, 5, "Servo"))

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Allocate(context.Background(), &models.CreateAllocationRequest{
				ItemID:            1,
				ProjectID:         7,
				AllocatedQuantity: 3,
			}, 1, "admin")
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if errors.Is(err, apperror.ErrInsufficientStock) {
			failed++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 1, failed, "exactly one of the two claims must lose")
	assert.Equal(t, 2, store.available(1))
}

func TestApproveClaimsStockAndIssuesBorrowing(t *testing.T) {
	store, _, requests := newTestServices(testItem(1, 10, "Oscilloscope"))
	ctx := context.Background()

	itemID := 1
	req, err := requests.Create(ctx, &models.CreateRequestRequest{
		ItemID:   &itemID,
		Quantity: 2,
		Reason:   "signal lab",
	}, 3, "member")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Equal(t, "Oscilloscope", req.ToolName)

	resp, err := requests.Approve(ctx, req.ID, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, resp.Request.Status)
	require.NotNil(t, resp.Borrowing)
	assert.Equal(t, "Oscilloscope", resp.Borrowing.ToolName)
	assert.Equal(t, 8, store.available(1))
}

func TestApproveInsufficientStockLeavesRequestPending(t *testing.T) {
	store, _, requests := newTestServices(testItem(1, 1, "Oscilloscope"))
	ctx := context.Background()

	itemID := 1
	req, err := requests.Create(ctx, &models.CreateRequestRequest{
		ItemID:   &itemID,
		Quantity: 5,
		Reason:   "signal lab",
	}, 3, "member")
	require.NoError(t, err)

	_, err = requests.Approve(ctx, req.ID, 1, "admin")
	assert.True(t, errors.Is(err, apperror.ErrInsufficientStock))

	// The failed approval must not consume the request or any stock
	after, err := requests.RequestRepo.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, after.Status)
	assert.Equal(t, 1, store.available(1))

	// A retry after restock succeeds
	store.setStock(1, 5, 5)
	_, err = requests.Approve(ctx, req.ID, 1, "admin")
	assert.NoError(t, err)
}

func TestResolvedRequestRejectsFurtherTransitions(t *testing.T) {
	_, _, requests := newTestServices(testItem(1, 10, "Multimeter"))
	ctx := context.Background()

	itemID := 1
	req, err := requests.Create(ctx, &models.CreateRequestRequest{
		ItemID:   &itemID,
		Quantity: 1,
		Reason:   "bench work",
	}, 3, "member")
	require.NoError(t, err)

	_, err = requests.Approve(ctx, req.ID, 1, "admin")
	require.NoError(t, err)

	_, err = requests.Approve(ctx, req.ID, 1, "admin")
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))

	_, err = requests.Reject(ctx, req.ID, 1, "admin", "late")
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))

	_, err = requests.Cancel(ctx, req.ID, 3, "member", "changed my mind")
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))
}

func TestCancelledRequestCannotBeApproved(t *testing.T) {
	store, _, requests := newTestServices(testItem(1, 10, "Multimeter"))
	ctx := context.Background()

	itemID := 1
	req, err := requests.Create(ctx, &models.CreateRequestRequest{
		ItemID:   &itemID,
		Quantity: 1,
		Reason:   "bench work",
	}, 3, "member")
	require.NoError(t, err)

	_, err = requests.Cancel(ctx, req.ID, 3, "member", "no longer needed")
	require.NoError(t, err)

	_, err = requests.Approve(ctx, req.ID, 1, "admin")
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))
	assert.Equal(t, 10, store.available(1))
}

func TestCancelRequiresOwnership(t *testing.T) {
	_, _, requests := newTestServices(testItem(1, 10, "Multimeter"))
	ctx := context.Background()

	req, err := requests.Create(ctx, &models.CreateRequestRequest{
		ToolName: "Multimeter",
		Quantity: 1,
		Reason:   "bench work",
	}, 3, "member")
	require.NoError(t, err)

	_, err = requests.Cancel(ctx, req.ID, 4, "other-member", "not yours")
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	after, err := requests.RequestRepo.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, after.Status)
}

func TestReturnBorrowingReleasesStockOnce(t *testing.T) {
	store, ledger, _ := newTestServices(testItem(1, 5, "Logic analyzer"))
	ctx := context.Background()

	itemID := 1
	b, err := ledger.IssueBorrowing(ctx, &models.CreateBorrowingRequest{
		ItemID:   &itemID,
		UserID:   3,
		Quantity: 2,
	}, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, 3, store.available(1))

	_, err = ledger.ReturnBorrowing(ctx, b.ID, "intact", 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, 5, store.available(1))

	_, err = ledger.ReturnBorrowing(ctx, b.ID, "again", 1, "admin")
	assert.True(t, errors.Is(err, apperror.ErrAlreadyReturned))
	assert.Equal(t, 5, store.available(1))
}

func TestIssueBorrowingSnapshotsItemName(t *testing.T) {
	_, ledger, _ := newTestServices(testItem(1, 5, "Function generator"))

	itemID := 1
	b, err := ledger.IssueBorrowing(context.Background(), &models.CreateBorrowingRequest{
		ItemID:   &itemID,
		UserID:   3,
		Quantity: 1,
	}, 1, "admin")

	require.NoError(t, err)
	assert.Equal(t, "Function generator", b.ToolName)
}

func TestReleaseCompetitionItemScopedToCompetition(t *testing.T) {
	store, ledger, _ := newTestServices(testItem(1, 10, "Battery pack"))
	ctx := context.Background()

	ci, err := ledger.ReserveForCompetition(ctx, 1, &models.AddCompetitionItemRequest{
		ItemID:   1,
		Quantity: 4,
	}, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, 6, store.available(1))

	// A delete addressed to another competition must not touch the reservation
	err = ledger.ReleaseCompetitionItem(ctx, 2, ci.ID, 1, "admin")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Equal(t, 6, store.available(1))

	require.NoError(t, ledger.ReleaseCompetitionItem(ctx, 1, ci.ID, 1, "admin"))
	assert.Equal(t, 10, store.available(1))
}
