package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.Terminal())
	assert.True(t, RequestStatusApproved.Terminal())
	assert.True(t, RequestStatusRejected.Terminal())
	assert.True(t, RequestStatusCancelled.Terminal())
}

func TestBorrowingOpen(t *testing.T) {
	b := &Borrowing{ToolName: "Oscilloscope", Quantity: 1}
	assert.True(t, b.Open())

	now := time.Now()
	b.ActualReturnDate = &now
	assert.False(t, b.Open())
}
