package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Branch         string   `json:"branch" validate:"required,branch"`
	Service        string   `json:"service" validate:"required,service"`
	Category       string   `json:"category" validate:"required,category"`
	SubCategory    string   `json:"sub_category" validate:"required,sub_category"`
	Network        string   `json:"network" validate:"required,network"`
	Subject        string   `json:"subject" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	AttachmentName *string  `json:"attachment_name"`
	Priority       string   `json:"priority" validate:"omitempty,ticket_priority"`
	Tags           []string `json:"tags"`
}

// ToInput converts the request to the store input.
func (r CreateTicketRequest) ToInput() domain.TicketInput {
	return domain.TicketInput{
		Branch:         domain.Branch(r.Branch),
		Service:        domain.Service(r.Service),
		Category:       domain.Category(r.Category),
		SubCategory:    domain.SubCategory(r.SubCategory),
		Network:        domain.Network(r.Network),
		Subject:        r.Subject,
		Description:    r.Description,
		AttachmentName: r.AttachmentName,
		Priority:       domain.TicketPriority(r.Priority),
		Tags:           r.Tags,
	}
}

// TicketListQuery captures the list filters. Selectors accept "all".
type TicketListQuery struct {
	Search   string `query:"search"`
	Status   string `query:"status"`
	Priority string `query:"priority"`
	Category string `query:"category"`
}

// ToFilter converts the query to a filter.
func (q TicketListQuery) ToFilter() domain.TicketFilter {
	return domain.TicketFilter{
		Search:   q.Search,
		Status:   q.Status,
		Priority: q.Priority,
		Category: q.Category,
	}
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,ticket_status"`
}

// UpdateAssigneeRequest payload. "unassigned" clears the assignee.
type UpdateAssigneeRequest struct {
	Assignee string `json:"assignee" validate:"required,assignee_or_unassigned"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID             string                `json:"id"`
	Number         string                `json:"number"`
	Code           string                `json:"code"`
	Branch         domain.Branch         `json:"branch"`
	Service        domain.Service        `json:"service"`
	Category       domain.Category       `json:"category"`
	SubCategory    domain.SubCategory    `json:"sub_category"`
	Network        domain.Network        `json:"network"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	AttachmentName *string               `json:"attachment_name"`
	Timestamp      time.Time             `json:"timestamp"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	Assignee       *domain.Assignee      `json:"assignee"`
	Reporter       ReporterResponse      `json:"reporter"`
	Tags           []string              `json:"tags"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ReporterResponse groups the reporter fields copied onto a ticket.
type ReporterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:             t.ID,
		Number:         t.Number,
		Code:           t.Code,
		Branch:         t.Branch,
		Service:        t.Service,
		Category:       t.Category,
		SubCategory:    t.SubCategory,
		Network:        t.Network,
		Title:          t.Title,
		Description:    t.Description,
		AttachmentName: t.AttachmentName,
		Timestamp:      t.Timestamp,
		Status:         t.Status,
		Priority:       t.Priority,
		Assignee:       t.Assignee,
		Reporter: ReporterResponse{
			ID:    t.ReporterID,
			Name:  t.ReporterName,
			Email: t.ReporterEmail,
			Phone: t.ReporterPhone,
		},
		Tags:      tags,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewTicketResponses maps a ticket list.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, NewTicketResponse(t))
	}
	return items
}

// OptionsResponse lists the values each form select accepts.
type OptionsResponse struct {
	Branches      []domain.Branch         `json:"branches"`
	Services      []domain.Service        `json:"services"`
	Categories    []domain.Category       `json:"categories"`
	SubCategories []domain.SubCategory    `json:"sub_categories"`
	Networks      []domain.Network        `json:"networks"`
	Priorities    []domain.TicketPriority `json:"priorities"`
	Statuses      []domain.TicketStatus   `json:"statuses"`
	Assignees     []domain.Assignee       `json:"assignees"`
	Roles         []domain.Role           `json:"roles"`
}

// TicketStatsResponse counts visible tickets per status and priority.
type TicketStatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

// NewTicketStatsResponse maps a summary.
func NewTicketStatsResponse(summary service.TicketSummary) TicketStatsResponse {
	resp := TicketStatsResponse{
		Total:      summary.Total,
		ByStatus:   make(map[string]int, len(summary.ByStatus)),
		ByPriority: make(map[string]int, len(summary.ByPriority)),
	}
	for status, n := range summary.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	for priority, n := range summary.ByPriority {
		resp.ByPriority[string(priority)] = n
	}
	return resp
}
