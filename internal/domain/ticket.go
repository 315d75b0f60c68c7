package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets. There is no transition graph:
// any status may be set to any other.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	return contains(TicketStatuses, s)
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketPriorities lists every priority from lowest to highest.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityCritical,
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	return contains(TicketPriorities, p)
}

// Branch is the office the ticket originates from.
type Branch string

const (
	BranchBYD        Branch = "BYD Branch"
	BranchHyundai    Branch = "Hyundai Branch"
	BranchHeadOffice Branch = "Bumi Auto Head Office"
)

var Branches = []Branch{BranchBYD, BranchHyundai, BranchHeadOffice}

func (b Branch) Valid() bool { return contains(Branches, b) }

// Service is the destination department of the request.
type Service string

const (
	ServiceITSupport       Service = "IT Support"
	ServiceCustomerService Service = "Customer Service"
	ServiceHumanResources  Service = "Human Resources"
	ServiceFinance         Service = "Finance"
	ServiceOperations      Service = "Operations"
	ServiceDatabaseAdmin   Service = "Database Administration"
)

var Services = []Service{
	ServiceITSupport,
	ServiceCustomerService,
	ServiceHumanResources,
	ServiceFinance,
	ServiceOperations,
	ServiceDatabaseAdmin,
}

func (s Service) Valid() bool { return contains(Services, s) }

// Category classifies the ticket.
type Category string

const (
	CategoryTechnicalIssue Category = "Technical Issue"
	CategoryFeatureRequest Category = "Feature Request"
	CategoryBugReport      Category = "Bug Report"
	CategoryAccessRequest  Category = "Access Request"
	CategoryDocumentation  Category = "Documentation"
	CategoryTraining       Category = "Training"
)

var Categories = []Category{
	CategoryTechnicalIssue,
	CategoryFeatureRequest,
	CategoryBugReport,
	CategoryAccessRequest,
	CategoryDocumentation,
	CategoryTraining,
}

func (c Category) Valid() bool { return contains(Categories, c) }

// SubCategory narrows Category.
type SubCategory string

const (
	SubCategorySoftwareProblem  SubCategory = "Software Problem"
	SubCategoryHardwareIssue    SubCategory = "Hardware Issue"
	SubCategoryNetworkProblem   SubCategory = "Network Problem"
	SubCategoryPerformanceIssue SubCategory = "Performance Issue"
	SubCategoryUIEnhancement    SubCategory = "UI Enhancement"
	SubCategorySecurityIssue    SubCategory = "Security Issue"
	SubCategoryDataIssue        SubCategory = "Data Issue"
)

var SubCategories = []SubCategory{
	SubCategorySoftwareProblem,
	SubCategoryHardwareIssue,
	SubCategoryNetworkProblem,
	SubCategoryPerformanceIssue,
	SubCategoryUIEnhancement,
	SubCategorySecurityIssue,
	SubCategoryDataIssue,
}

func (s SubCategory) Valid() bool { return contains(SubCategories, s) }

// Network is the system or account domain the ticket concerns.
type Network string

const (
	NetworkInternal    Network = "Internal Network"
	NetworkPortal      Network = "Customer Portal"
	NetworkProdDB      Network = "Production Database"
	NetworkDevelopment Network = "Development Environment"
	NetworkEmail       Network = "Email System"
	NetworkFileServer  Network = "File Server"
)

var Networks = []Network{
	NetworkInternal,
	NetworkPortal,
	NetworkProdDB,
	NetworkDevelopment,
	NetworkEmail,
	NetworkFileServer,
}

func (n Network) Valid() bool { return contains(Networks, n) }

// Assignee is the department handling a ticket.
type Assignee string

const (
	AssigneeICT           Assignee = "ICT Department"
	AssigneeGeneralAffair Assignee = "General Affair"
	AssigneeHumanCapital  Assignee = "Human Capital"
	AssigneeOthers        Assignee = "Others"
	// AssigneeUnassigned clears the assignee. It is never stored.
	AssigneeUnassigned    Assignee = "unassigned"
)

var Assignees = []Assignee{
	AssigneeICT,
	AssigneeGeneralAffair,
	AssigneeHumanCapital,
	AssigneeOthers,
}

// Valid reports whether a is a storable assignee. The unassigned sentinel is not.
func (a Assignee) Valid() bool { return contains(Assignees, a) }

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	Number         string
	Code           string
	Branch         Branch
	Service        Service
	Category       Category
	SubCategory    SubCategory
	Network        Network
	Title          string
	Description    string
	AttachmentName *string
	Timestamp      time.Time
	Status         TicketStatus
	Priority       TicketPriority
	Assignee       *Assignee
	ReporterName   string
	ReporterEmail  string
	ReporterPhone  string
	ReporterID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Tags           []string
}

// Clone returns a deep copy so callers never share pointer fields with a store.
func (t Ticket) Clone() Ticket {
	out := t
	if t.AttachmentName != nil {
		name := *t.AttachmentName
		out.AttachmentName = &name
	}
	if t.Assignee != nil {
		assignee := *t.Assignee
		out.Assignee = &assignee
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// TicketInput describes the ticket creation form.
type TicketInput struct {
	Branch         Branch
	Service        Service
	Category       Category
	SubCategory    SubCategory
	Network        Network
	Subject        string
	Description    string
	AttachmentName *string
	Priority       TicketPriority
	Tags           []string
}

// Reporter carries the identity fields copied onto a new ticket. It is built from the
// session, never from the form.
type Reporter struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// ReporterFrom builds a Reporter from the signed-in account.
func ReporterFrom(a PublicAccount) Reporter {
	return Reporter{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone}
}

// NormalizeTags trims tags, drops empty ones and suppresses duplicates, keeping the
// first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

const ticketNumberPrefix = "TKT-"

// FormatTicketNumber renders the display number, e.g. TKT-004.
func FormatTicketNumber(n int64) string {
	return fmt.Sprintf("%s%03d", ticketNumberPrefix, n)
}

// ParseTicketNumber extracts the sequence from a display number.
func ParseTicketNumber(number string) (int64, bool) {
	digits, ok := strings.CutPrefix(number, ticketNumberPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
