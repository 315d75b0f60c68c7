package domain

// FilterAny is the selector value meaning "do not filter on this dimension".
// The empty string is treated the same way.
const FilterAny = "all"

// TicketFilter narrows the displayed ticket set.
type TicketFilter struct {
	Search   string
	Status   string
	Priority string
	Category string
}

// Cleared returns the filter with every selector reset.
func (TicketFilter) Cleared() TicketFilter {
	return TicketFilter{Status: FilterAny, Priority: FilterAny, Category: FilterAny}
}

// IsAny reports whether a selector value disables its dimension.
func IsAny(selector string) bool {
	return selector == "" || selector == FilterAny
}
