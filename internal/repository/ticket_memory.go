package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets []domain.Ticket // newest first
	maxSeq  int64
}

// NewMemoryTicketRepository returns an in-memory repository. New tickets are prepended.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq, ok := domain.ParseTicketNumber(ticket.Number); ok && seq > r.maxSeq {
		r.maxSeq = seq
	}
	r.tickets = append([]domain.Ticket{ticket.Clone()}, r.tickets...)
	return nil
}

func (r *memoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(ticket.ID)
	if idx < 0 {
		return ErrNotFound
	}
	stored := &r.tickets[idx]
	stored.Status = ticket.Status
	stored.Assignee = ticket.Clone().Assignee
	stored.UpdatedAt = ticket.UpdatedAt
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	ticket := r.tickets[idx].Clone()
	return &ticket, nil
}

func (r *memoryTicketRepository) List(_ context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, ticket.Clone())
	}
	return result, nil
}

func (r *memoryTicketRepository) ListByReporter(_ context.Context, reporterID string) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Ticket{}
	for _, ticket := range r.tickets {
		if ticket.ReporterID == reporterID {
			result = append(result, ticket.Clone())
		}
	}
	return result, nil
}

func (r *memoryTicketRepository) NextNumber(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxSeq++
	return r.maxSeq, nil
}

func (r *memoryTicketRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets), nil
}

func (r *memoryTicketRepository) indexOf(id string) int {
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			return i
		}
	}
	return -1
}
