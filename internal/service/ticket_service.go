package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketStore coordinates ticket workflows.
type TicketStore struct {
	tickets     repository.TicketRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
	submitDelay time.Duration
	pending     inflight
	updateMu    sync.Mutex
}

// TicketDependencies bundles collaborators for the ticket store.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
	SubmitDelay time.Duration
}

// NewTicketStore constructs the store.
func NewTicketStore(deps TicketDependencies) *TicketStore {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketStore{
		tickets:     deps.TicketRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		now:         clock,
		submitDelay: deps.SubmitDelay,
	}
}

// CreateTicket files a ticket for reporter after the submit delay. The ticket starts
// open, its title is the subject and it becomes the newest entry of the store.
func (s *TicketStore) CreateTicket(ctx context.Context, input domain.TicketInput, reporter domain.Reporter) *Pending[domain.Ticket] {
	input = normalizeTicketInput(input)
	if err := validateTicketInput(input, reporter); err != nil {
		return failed[domain.Ticket](err)
	}

	id := uuid.NewString()
	return submit(ctx, &s.pending, s.submitDelay, id, func(ctx context.Context) (domain.Ticket, error) {
		seq, err := s.tickets.NextNumber(ctx)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("allocate ticket number: %w", err)
		}

		now := s.now()
		ticket := domain.Ticket{
			ID:             id,
			Number:         domain.FormatTicketNumber(seq),
			Code:           uuid.NewString(),
			Branch:         input.Branch,
			Service:        input.Service,
			Category:       input.Category,
			SubCategory:    input.SubCategory,
			Network:        input.Network,
			Title:          input.Subject,
			Description:    input.Description,
			AttachmentName: input.AttachmentName,
			Timestamp:      now,
			Status:         domain.TicketStatusOpen,
			Priority:       input.Priority,
			ReporterName:   reporter.Name,
			ReporterEmail:  reporter.Email,
			ReporterPhone:  reporter.Phone,
			ReporterID:     reporter.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
			Tags:           domain.NormalizeTags(input.Tags),
		}
		if err := s.tickets.Create(ctx, &ticket); err != nil {
			s.logger.Error("create ticket failed", zap.String("ticket_id", id), zap.Error(err))
			return domain.Ticket{}, fmt.Errorf("create ticket: %w", err)
		}

		s.logger.Info("ticket created",
			zap.String("ticket_id", ticket.ID),
			zap.String("number", ticket.Number),
			zap.String("reporter_id", ticket.ReporterID))
		publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventTicketCreated,
			SubjectID: ticket.ID,
			Payload: events.TicketCreatedPayload{
				Number:     ticket.Number,
				ReporterID: ticket.ReporterID,
				Priority:   ticket.Priority,
				Title:      ticket.Title,
			},
		})
		return ticket, nil
	})
}

// UpdateStatus moves a ticket to status. Every transition is allowed.
func (s *TicketStore) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	var previous domain.TicketStatus
	ticket, err := s.mutate(ctx, id, func(t *domain.Ticket) {
		previous = t.Status
		t.Status = status
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket status changed",
		zap.String("ticket_id", id),
		zap.String("old_status", string(previous)),
		zap.String("new_status", string(status)))
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketStatusChanged,
		SubjectID: id,
		Payload:   events.TicketStatusChangedPayload{OldStatus: previous, NewStatus: status},
	})
	return ticket, nil
}

// UpdateAssignee sets the responsible group. AssigneeUnassigned clears it.
func (s *TicketStore) UpdateAssignee(ctx context.Context, id string, assignee domain.Assignee) (*domain.Ticket, error) {
	var next *domain.Assignee
	switch {
	case assignee == domain.AssigneeUnassigned:
	case assignee.Valid():
		value := assignee
		next = &value
	default:
		return nil, apperrors.NewValidationError("invalid assignee", map[string]any{"assignee": assignee})
	}

	var previous *domain.Assignee
	ticket, err := s.mutate(ctx, id, func(t *domain.Ticket) {
		previous = t.Assignee
		t.Assignee = next
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket assignee changed",
		zap.String("ticket_id", id),
		zap.String("assignee", string(assignee)))
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketAssigneeChanged,
		SubjectID: id,
		Payload:   events.TicketAssigneeChangedPayload{OldAssignee: previous, NewAssignee: next},
	})
	return ticket, nil
}

// ListByReporter returns the tickets filed by accountID in store order.
func (s *TicketStore) ListByReporter(ctx context.Context, accountID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByReporter(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list tickets by reporter: %w", err)
	}
	return tickets, nil
}

// List returns every ticket, newest first.
func (s *TicketStore) List(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// Get fetches a ticket by id.
func (s *TicketStore) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err)
	}
	return ticket, nil
}

// Loading reports whether a CreateTicket submission is still in flight.
func (s *TicketStore) Loading() bool {
	return s.pending.Loading()
}

// mutate applies change under the update lock and stamps UpdatedAt so it never moves
// backwards or before CreatedAt.
func (s *TicketStore) mutate(ctx context.Context, id string, change func(*domain.Ticket)) (*domain.Ticket, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err)
	}

	change(ticket)
	ticket.UpdatedAt = latest(s.now(), ticket.UpdatedAt, ticket.CreatedAt)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapLookupError(id, err)
	}
	return ticket, nil
}

func (s *TicketStore) mapLookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return fmt.Errorf("ticket %s: %w", id, err)
}

func latest(times ...time.Time) time.Time {
	var newest time.Time
	for _, t := range times {
		if t.After(newest) {
			newest = t
		}
	}
	return newest
}

func normalizeTicketInput(input domain.TicketInput) domain.TicketInput {
	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if input.AttachmentName != nil {
		name := strings.TrimSpace(*input.AttachmentName)
		if name == "" {
			input.AttachmentName = nil
		} else {
			input.AttachmentName = &name
		}
	}
	return input
}

func validateTicketInput(input domain.TicketInput, reporter domain.Reporter) error {
	details := map[string]any{}
	if !input.Branch.Valid() {
		details["branch"] = "unknown branch"
	}
	if !input.Service.Valid() {
		details["service"] = "unknown service"
	}
	if !input.Category.Valid() {
		details["category"] = "unknown category"
	}
	if !input.SubCategory.Valid() {
		details["sub_category"] = "unknown sub category"
	}
	if !input.Network.Valid() {
		details["network"] = "unknown network"
	}
	if input.Subject == "" {
		details["subject"] = "required"
	}
	if input.Description == "" {
		details["description"] = "required"
	}
	if !input.Priority.Valid() {
		details["priority"] = "unknown priority"
	}
	if reporter.ID == "" {
		details["reporter"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}
