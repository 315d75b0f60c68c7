package service

import "github.com/spec-kit/helpdesk-service/internal/domain"

// TicketSummary counts the tickets a viewer may see.
type TicketSummary struct {
	Total      int
	ByStatus   map[domain.TicketStatus]int
	ByPriority map[domain.TicketPriority]int
}

// TicketStats summarizes tickets with the same visibility as FilterTickets. Every known
// status and priority is present in the result, zero when nothing matches.
func TicketStats(tickets []domain.Ticket, viewer domain.PublicAccount) TicketSummary {
	summary := TicketSummary{
		ByStatus:   make(map[domain.TicketStatus]int, len(domain.TicketStatuses)),
		ByPriority: make(map[domain.TicketPriority]int, len(domain.TicketPriorities)),
	}
	for _, status := range domain.TicketStatuses {
		summary.ByStatus[status] = 0
	}
	for _, priority := range domain.TicketPriorities {
		summary.ByPriority[priority] = 0
	}

	for _, ticket := range tickets {
		if !visibleTo(ticket, viewer) {
			continue
		}
		summary.Total++
		summary.ByStatus[ticket.Status]++
		summary.ByPriority[ticket.Priority]++
	}
	return summary
}
