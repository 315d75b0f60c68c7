package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type seedAccount struct {
	account  domain.Account
	password string
}

func demoAccounts(defaultPassword string) []seedAccount {
	return []seedAccount{
		{
			account: domain.Account{
				ID:    "1",
				Email: "admin@company.com",
				Name:  "Admin User",
				Phone: "+6281234567890",
				Role:  domain.RoleAdmin,
			},
			password: "admin123",
		},
		{
			account: domain.Account{
				ID:    "2",
				Email: "user@company.com",
				Name:  "Regular User",
				Phone: "+6281234567891",
				Role:  domain.RoleUser,
			},
			password: defaultPassword,
		},
		{
			account: domain.Account{
				ID:    "3",
				Email: "alice@company.com",
				Name:  "Alice Johnson",
				Phone: "+6281234567892",
				Role:  domain.RoleUser,
			},
			password: defaultPassword,
		},
	}
}

func seedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(fmt.Sprintf("seed time %q: %v", value, err))
	}
	return t
}

// demoTickets lists the demo tickets newest-first, the order the store presents them.
func demoTickets() []domain.Ticket {
	ict := domain.AssigneeICT
	tickets := []domain.Ticket{
		{
			ID:            "1",
			Number:        "TKT-001",
			Branch:        domain.BranchBYD,
			Service:       domain.ServiceITSupport,
			Category:      domain.CategoryTechnicalIssue,
			SubCategory:   domain.SubCategorySoftwareProblem,
			Network:       domain.NetworkInternal,
			Title:         "Login System Issue",
			Description:   "Users are reporting that the login page takes too long to load and sometimes shows a 404 error.",
			Timestamp:     seedTime("2024-06-01T10:00:00Z"),
			Status:        domain.TicketStatusOpen,
			Priority:      domain.TicketPriorityHigh,
			Assignee:      &ict,
			ReporterName:  "Alice Johnson",
			ReporterEmail: "alice@company.com",
			ReporterPhone: "+6281234567892",
			ReporterID:    "3",
			CreatedAt:     seedTime("2024-06-01T10:00:00Z"),
			UpdatedAt:     seedTime("2024-06-01T10:00:00Z"),
			Tags:          []string{"login", "frontend", "critical"},
		},
		{
			ID:            "2",
			Number:        "TKT-002",
			Branch:        domain.BranchHyundai,
			Service:       domain.ServiceCustomerService,
			Category:      domain.CategoryFeatureRequest,
			SubCategory:   domain.SubCategoryUIEnhancement,
			Network:       domain.NetworkPortal,
			Title:         "Dark Mode Implementation",
			Description:   "Implement dark mode theme across the entire application for better user experience.",
			Timestamp:     seedTime("2024-05-28T14:30:00Z"),
			Status:        domain.TicketStatusInProgress,
			Priority:      domain.TicketPriorityMedium,
			Assignee:      &ict,
			ReporterName:  "Regular User",
			ReporterEmail: "user@company.com",
			ReporterPhone: "+6281234567891",
			ReporterID:    "2",
			CreatedAt:     seedTime("2024-05-28T14:30:00Z"),
			UpdatedAt:     seedTime("2024-06-01T09:15:00Z"),
			Tags:          []string{"ui", "theme", "enhancement"},
		},
		{
			ID:            "3",
			Number:        "TKT-003",
			Branch:        domain.BranchHeadOffice,
			Service:       domain.ServiceDatabaseAdmin,
			Category:      domain.CategoryTechnicalIssue,
			SubCategory:   domain.SubCategoryPerformanceIssue,
			Network:       domain.NetworkProdDB,
			Title:         "Database Connection Timeout",
			Description:   "Application is experiencing intermittent database connection timeouts during peak hours.",
			Timestamp:     seedTime("2024-05-25T08:00:00Z"),
			Status:        domain.TicketStatusResolved,
			Priority:      domain.TicketPriorityCritical,
			Assignee:      &ict,
			ReporterName:  "Admin User",
			ReporterEmail: "admin@company.com",
			ReporterPhone: "+6281234567890",
			ReporterID:    "1",
			CreatedAt:     seedTime("2024-05-25T08:00:00Z"),
			UpdatedAt:     seedTime("2024-05-30T16:45:00Z"),
			Tags:          []string{"database", "performance", "backend"},
		},
	}
	for i := range tickets {
		tickets[i].Code = uuid.NewSHA1(uuid.NameSpaceOID, []byte(tickets[i].Number)).String()
	}
	return tickets
}

// Seeder loads the demo accounts and tickets into empty stores.
type Seeder struct {
	accounts        repository.AccountRepository
	tickets         repository.TicketRepository
	logger          *zap.Logger
	defaultPassword string
	bcryptCost      int
}

// NewSeeder constructs a seeder.
func NewSeeder(accounts repository.AccountRepository, tickets repository.TicketRepository, logger *zap.Logger, defaultPassword string, bcryptCost int) *Seeder {
	if defaultPassword == "" {
		defaultPassword = domain.DefaultPassword
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		accounts:        accounts,
		tickets:         tickets,
		logger:          logger,
		defaultPassword: defaultPassword,
		bcryptCost:      bcryptCost,
	}
}

// Seed inserts the demo data into each store that is still empty.
func (s *Seeder) Seed(ctx context.Context) error {
	accountCount, err := s.accounts.Count(ctx)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if accountCount == 0 {
		seeds := demoAccounts(s.defaultPassword)
		for _, seed := range seeds {
			hash, err := auth.HashPassword(seed.password, s.bcryptCost)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			account := seed.account
			account.PasswordHash = hash
			if err := s.accounts.Create(ctx, &account); err != nil {
				return fmt.Errorf("seed account %s: %w", account.ID, err)
			}
		}
		s.logger.Info("seeded demo accounts", zap.Int("count", len(seeds)))
	}

	ticketCount, err := s.tickets.Count(ctx)
	if err != nil {
		return fmt.Errorf("count tickets: %w", err)
	}
	if ticketCount == 0 {
		seeds := demoTickets()
		// The store prepends, so insert oldest position first.
		for i := len(seeds) - 1; i >= 0; i-- {
			if err := s.tickets.Create(ctx, &seeds[i]); err != nil {
				return fmt.Errorf("seed ticket %s: %w", seeds[i].Number, err)
			}
		}
		s.logger.Info("seeded demo tickets", zap.Int("count", len(seeds)))
	}
	return nil
}
