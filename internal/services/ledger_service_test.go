package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"labstock/internal/apperror"
	"labstock/internal/models"
)

// Validation runs before any repository access, so a zero-value service is
// enough to exercise the rejection paths.

func TestAllocateRejectsNonPositiveQuantity(t *testing.T) {
	s := &LedgerService{}

	for _, qty := range []int{0, -5} {
		_, err := s.Allocate(context.Background(), &models.CreateAllocationRequest{
			ItemID:            1,
			ProjectID:         1,
			AllocatedQuantity: qty,
		}, 1, "admin")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	}
}

func TestIssueBorrowingRejectsNonPositiveQuantity(t *testing.T) {
	s := &LedgerService{}

	_, err := s.IssueBorrowing(context.Background(), &models.CreateBorrowingRequest{
		ToolName: "Multimeter",
		UserID:   3,
		Quantity: 0,
	}, 1, "admin")

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestIssueBorrowingRequiresToolNameOrItem(t *testing.T) {
	s := &LedgerService{}

	_, err := s.IssueBorrowing(context.Background(), &models.CreateBorrowingRequest{
		UserID:   3,
		Quantity: 1,
	}, 1, "admin")

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestRecordManualTransactionRejectsNonPositiveQuantity(t *testing.T) {
	s := &LedgerService{}

	_, err := s.RecordManualTransaction(context.Background(), &models.CreateTransactionRequest{
		ItemID:   1,
		UserID:   3,
		Type:     models.TransactionTypeIssue,
		Quantity: -1,
	}, 1, "admin")

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestReserveForCompetitionRejectsNonPositiveQuantity(t *testing.T) {
	s := &LedgerService{}

	_, err := s.ReserveForCompetition(context.Background(), 1, &models.AddCompetitionItemRequest{
		ItemID:   1,
		Quantity: 0,
	}, 1, "admin")

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}
