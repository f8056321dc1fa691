package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"labstock/internal/apperror"
	"labstock/internal/models"
)

func TestCreateRequestRejectsNonPositiveQuantity(t *testing.T) {
	s := &RequestService{}

	_, err := s.Create(context.Background(), &models.CreateRequestRequest{
		ToolName: "Soldering iron",
		Quantity: 0,
		Reason:   "workshop",
	}, 3, "member")

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestCreateRequestRequiresToolNameOrItem(t *testing.T) {
	s := &RequestService{}

	_, err := s.Create(context.Background(), &models.CreateRequestRequest{
		Quantity: 1,
		Reason:   "workshop",
	}, 3, "member")

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestCreateRequestRequiresReason(t *testing.T) {
	s := &RequestService{}

	_, err := s.Create(context.Background(), &models.CreateRequestRequest{
		ToolName: "Soldering iron",
		Quantity: 1,
	}, 3, "member")

	assert.True(t, errors.Is(err, apperror.ErrValidation))
}
