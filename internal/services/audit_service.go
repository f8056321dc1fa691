package services

import (
	"context"
	"log"

	"labstock/internal/models"
)

// AuditService appends to the history log. Audit writes never fail the
// parent operation: on error the entry is logged and dropped, and the write
// runs outside the caller's transaction so a rollback there cannot lose the
// primary change. Availability of the operation wins over audit completeness.
type AuditService struct {
	HistoryRepo HistoryStore
}

func NewAuditService(historyRepo HistoryStore) *AuditService {
	return &AuditService{HistoryRepo: historyRepo}
}

// Record appends a history entry with a server-assigned timestamp
func (s *AuditService) Record(ctx context.Context, userID int, username, action, details string) {
	entry := &models.HistoryEntry{
		UserID:   userID,
		Username: username,
		Action:   action,
		Details:  details,
	}
	if err := s.HistoryRepo.Create(ctx, entry); err != nil {
		log.Printf("[Audit] Failed to record %q for user %d: %v", action, userID, err)
	}
}

// List returns recent history entries, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]*models.HistoryEntry, error) {
	return s.HistoryRepo.List(ctx, limit, offset)
}
