package service

import (
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// FilterTickets returns the tickets viewer may see that match filter, in input order.
// Non-admins only see tickets they reported. The search term is matched
// case-insensitively against title, description and reporter name; the selectors
// match exactly unless they are "all". The input slice is never modified.
func FilterTickets(tickets []domain.Ticket, viewer domain.PublicAccount, filter domain.TicketFilter) []domain.Ticket {
	term := strings.ToLower(filter.Search)
	result := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if !visibleTo(ticket, viewer) {
			continue
		}
		if term != "" && !matchesSearch(ticket, term) {
			continue
		}
		if !domain.IsAny(filter.Status) && string(ticket.Status) != filter.Status {
			continue
		}
		if !domain.IsAny(filter.Priority) && string(ticket.Priority) != filter.Priority {
			continue
		}
		if !domain.IsAny(filter.Category) && string(ticket.Category) != filter.Category {
			continue
		}
		result = append(result, ticket.Clone())
	}
	return result
}

func visibleTo(ticket domain.Ticket, viewer domain.PublicAccount) bool {
	return viewer.IsAdmin() || ticket.ReporterID == viewer.ID
}

func matchesSearch(ticket domain.Ticket, term string) bool {
	return strings.Contains(strings.ToLower(ticket.Title), term) ||
		strings.Contains(strings.ToLower(ticket.Description), term) ||
		strings.Contains(strings.ToLower(ticket.ReporterName), term)
}
