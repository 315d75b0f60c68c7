package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketAssigneeChanged EventType = "ticket_assignee_changed"
	EventUserAdded             EventType = "user_added"
	EventUserRemoved           EventType = "user_removed"
	EventUserPasswordReset     EventType = "user_password_reset"
	EventSessionStarted        EventType = "session_started"
	EventSessionEnded          EventType = "session_ended"
)

// AllEventTypes lists every event the services publish.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketAssigneeChanged,
	EventUserAdded,
	EventUserRemoved,
	EventUserPasswordReset,
	EventSessionStarted,
	EventSessionEnded,
}

// Event represents a domain event emitted by services. SubjectID is the ticket or
// account the event is about.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Number     string                `json:"number"`
	ReporterID string                `json:"reporter_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssigneeChangedPayload payload. A nil assignee means unassigned.
type TicketAssigneeChangedPayload struct {
	OldAssignee *domain.Assignee `json:"old_assignee,omitempty"`
	NewAssignee *domain.Assignee `json:"new_assignee,omitempty"`
}

// AccountPayload carries the public account for directory and session events.
type AccountPayload struct {
	Account domain.PublicAccount `json:"account"`
}
