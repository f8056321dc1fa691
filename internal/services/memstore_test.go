package services

import (
	"context"
	"sync"
	"time"

	"labstock/internal/apperror"
	"labstock/internal/models"
)

// memStore is an in-memory LedgerStore, RequestStore, ItemStore and
// HistoryStore with the same claim/release semantics as the SQL layer:
// claims are conditional on availability and releases cap at total quantity.
type memStore struct {
	mu          sync.Mutex
	items       map[int]*models.Item
	allocations map[int]*models.Allocation
	borrowings  map[int]*models.Borrowing
	compItems   map[int]*models.CompetitionItem
	requests    map[int]*models.Request
	history     []*models.HistoryEntry
	nextID      int
}

func newMemStore(items ...*models.Item) *memStore {
	s := &memStore{
		items:       make(map[int]*models.Item),
		allocations: make(map[int]*models.Allocation),
		borrowings:  make(map[int]*models.Borrowing),
		compItems:   make(map[int]*models.CompetitionItem),
		requests:    make(map[int]*models.Request),
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

// claim and release must be called with s.mu held.

func (s *memStore) claim(itemID, qty int) error {
	item, ok := s.items[itemID]
	if !ok {
		return apperror.NotFound("item", itemID)
	}
	if item.Available < qty {
		return apperror.ErrInsufficientStock
	}
	item.Available -= qty
	return nil
}

func (s *memStore) release(itemID, qty int) {
	item, ok := s.items[itemID]
	if !ok {
		return
	}
	item.Available += qty
	if item.Available > item.Quantity {
		item.Available = item.Quantity
	}
}

func (s *memStore) available(itemID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[itemID].Available
}

func (s *memStore) setStock(itemID, quantity, available int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[itemID].Quantity = quantity
	s.items[itemID].Available = available
}

// ItemStore

func (s *memStore) Get(ctx context.Context, id int) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, apperror.NotFound("item", id)
	}
	cp := *item
	return &cp, nil
}

// LedgerStore

func (s *memStore) Allocate(ctx context.Context, req *models.CreateAllocationRequest, userID int) (*models.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claim(req.ItemID, req.AllocatedQuantity); err != nil {
		return nil, err
	}
	alloc := &models.Allocation{
		ID:                s.id(),
		ItemID:            req.ItemID,
		ProjectID:         req.ProjectID,
		AllocatedQuantity: req.AllocatedQuantity,
		AllocatedByUserID: userID,
		CreatedAt:         time.Now(),
	}
	s.allocations[alloc.ID] = alloc
	return alloc, nil
}

func (s *memStore) Deallocate(ctx context.Context, allocationID, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	alloc, ok := s.allocations[allocationID]
	if !ok {
		return apperror.NotFound("allocation", allocationID)
	}
	s.release(alloc.ItemID, alloc.AllocatedQuantity)
	delete(s.allocations, allocationID)
	return nil
}

func (s *memStore) IssueBorrowing(ctx context.Context, b *models.Borrowing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ItemID != nil {
		if err := s.claim(*b.ItemID, b.Quantity); err != nil {
			return err
		}
	}
	b.ID = s.id()
	b.BorrowDate = time.Now()
	cp := *b
	s.borrowings[b.ID] = &cp
	return nil
}

func (s *memStore) ReturnBorrowing(ctx context.Context, borrowingID int, notes string) (*models.Borrowing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.borrowings[borrowingID]
	if !ok {
		return nil, apperror.NotFound("borrowing", borrowingID)
	}
	if !b.Open() {
		return nil, apperror.ErrAlreadyReturned
	}
	now := time.Now()
	b.ActualReturnDate = &now
	b.ReturnNotes = notes
	if b.ItemID != nil {
		s.release(*b.ItemID, b.Quantity)
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) RecordManualTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch req.Type {
	case models.TransactionTypeIssue:
		if err := s.claim(req.ItemID, req.Quantity); err != nil {
			return nil, err
		}
	case models.TransactionTypeReturn:
		s.release(req.ItemID, req.Quantity)
	default:
		return nil, apperror.Validation("unknown transaction type %q", req.Type)
	}
	return &models.Transaction{
		ID:            s.id(),
		ItemID:        req.ItemID,
		UserID:        req.UserID,
		Type:          req.Type,
		Quantity:      req.Quantity,
		ReferenceType: "manual",
		CreatedAt:     time.Now(),
	}, nil
}

func (s *memStore) ReserveForCompetition(ctx context.Context, competitionID int, req *models.AddCompetitionItemRequest, userID int) (*models.CompetitionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claim(req.ItemID, req.Quantity); err != nil {
		return nil, err
	}
	ci := &models.CompetitionItem{
		ID:            s.id(),
		CompetitionID: competitionID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		CreatedAt:     time.Now(),
	}
	s.compItems[ci.ID] = ci
	return ci, nil
}

func (s *memStore) ReleaseCompetitionItem(ctx context.Context, competitionID, competitionItemID, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ci, ok := s.compItems[competitionItemID]
	if !ok || ci.CompetitionID != competitionID {
		return apperror.NotFound("competition item", competitionItemID)
	}
	s.release(ci.ItemID, ci.Quantity)
	delete(s.compItems, competitionItemID)
	return nil
}

func (s *memStore) CountOpenBorrowings(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.borrowings {
		if b.Open() {
			n++
		}
	}
	return n, nil
}

// Request methods. Exposed as a RequestStore via memRequests, which adapts
// the method names that would otherwise collide with the item and history
// interfaces.

func (s *memStore) CreateRequest(ctx context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.id()
	req.Status = models.RequestStatusPending
	req.RequestedAt = time.Now()
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *memStore) getRequest(id int) (*models.Request, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, apperror.NotFound("request", id)
	}
	return r, nil
}

func (s *memStore) GetRequest(ctx context.Context, id int) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) ListRequests(ctx context.Context) ([]*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Request, 0, len(s.requests))
	for _, r := range s.requests {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) ListByUser(ctx context.Context, userID int) ([]*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Request
	for _, r := range s.requests {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) ListPending(ctx context.Context) ([]*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Request
	for _, r := range s.requests {
		if r.Status == models.RequestStatusPending {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) Approve(ctx context.Context, id, adminID int) (*models.Request, *models.Borrowing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.getRequest(id)
	if err != nil {
		return nil, nil, err
	}
	if r.Status != models.RequestStatusPending {
		return nil, nil, apperror.ErrInvalidState
	}
	if r.ItemID != nil {
		// Claim fails without touching the request, leaving it pending
		if err := s.claim(*r.ItemID, r.Quantity); err != nil {
			return nil, nil, err
		}
	}
	b := &models.Borrowing{
		ID:                 s.id(),
		ItemID:             r.ItemID,
		ToolName:           r.ToolName,
		UserID:             r.UserID,
		Quantity:           r.Quantity,
		BorrowDate:         time.Now(),
		ExpectedReturnDate: r.ExpectedReturnDate,
		RequestID:          &r.ID,
	}
	s.borrowings[b.ID] = b

	now := time.Now()
	r.Status = models.RequestStatusApproved
	r.ResolvedAt = &now
	r.ResolvedBy = &adminID
	r.BorrowingID = &b.ID

	rc, bc := *r, *b
	return &rc, &bc, nil
}

func (s *memStore) Resolve(ctx context.Context, id int, status models.RequestStatus, resolvedBy int, reason *string, borrowingID *int) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.RequestStatusPending {
		return nil, apperror.ErrInvalidState
	}
	now := time.Now()
	r.Status = status
	r.ResolvedAt = &now
	r.ResolvedBy = &resolvedBy
	r.CancellationReason = reason
	r.BorrowingID = borrowingID
	cp := *r
	return &cp, nil
}

// History methods, exposed as a HistoryStore via memHistory.

func (s *memStore) CreateEntry(ctx context.Context, entry *models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.id()
	entry.CreatedAt = time.Now()
	s.history = append(s.history, entry)
	return nil
}

func (s *memStore) ListEntries(ctx context.Context, limit, offset int) ([]*models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.HistoryEntry(nil), s.history...), nil
}

// memRequests adapts memStore to the RequestStore interface. ListByUser,
// ListPending, Approve and Resolve are promoted from the embedded store.
type memRequests struct{ *memStore }

func (m memRequests) Create(ctx context.Context, req *models.Request) error {
	return m.CreateRequest(ctx, req)
}

func (m memRequests) Get(ctx context.Context, id int) (*models.Request, error) {
	return m.GetRequest(ctx, id)
}

func (m memRequests) List(ctx context.Context) ([]*models.Request, error) {
	return m.ListRequests(ctx)
}

// memHistory adapts memStore to the HistoryStore interface.
type memHistory struct{ *memStore }

func (m memHistory) Create(ctx context.Context, entry *models.HistoryEntry) error {
	return m.CreateEntry(ctx, entry)
}

func (m memHistory) List(ctx context.Context, limit, offset int) ([]*models.HistoryEntry, error) {
	return m.ListEntries(ctx, limit, offset)
}

// newTestServices wires the ledger and request services over one shared
// in-memory store.
func newTestServices(items ...*models.Item) (*memStore, *LedgerService, *RequestService) {
	store := newMemStore(items...)
	audit := NewAuditService(memHistory{store})
	ledger := NewLedgerService(store, store, audit)
	requests := NewRequestService(memRequests{store}, store, store, audit)
	return store, ledger, requests
}
