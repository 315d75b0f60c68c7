package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	accounts  repository.AccountRepository
	tickets   repository.TicketRepository
	snapshots repository.SessionSnapshotRepository
	sessions  *SessionManager
	directory *UserDirectory
	store     *TicketStore
	recorded  *recordedEvents
	clock     *time.Time
}

func newFixture(t *testing.T, seed bool) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		accounts:  repository.NewMemoryAccountRepository(),
		tickets:   repository.NewMemoryTicketRepository(),
		snapshots: repository.NewMemorySessionRepository(),
		recorded:  &recordedEvents{},
	}
	now := fixedNow
	f.clock = &now

	dispatcher := events.NewInMemoryDispatcher(nil)
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, f.recorded.handle)
	}

	if seed {
		seeder := NewSeeder(f.accounts, f.tickets, nil, "", bcrypt.MinCost)
		require.NoError(t, seeder.Seed(ctx))
	}

	f.sessions = NewSessionManager(SessionDependencies{
		Identity:     NewIdentityStore(f.accounts),
		SnapshotRepo: f.snapshots,
		Dispatcher:   dispatcher,
	})
	f.directory = NewUserDirectory(DirectoryDependencies{
		AccountRepo: f.accounts,
		Dispatcher:  dispatcher,
		BcryptCost:  bcrypt.MinCost,
	})
	f.store = NewTicketStore(TicketDependencies{
		TicketRepo: f.tickets,
		Dispatcher: dispatcher,
		Clock:      func() time.Time { return *f.clock },
	})
	return f
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func validTicketInput() domain.TicketInput {
	return domain.TicketInput{
		Branch:      domain.BranchBYD,
		Service:     domain.ServiceITSupport,
		Category:    domain.CategoryBugReport,
		SubCategory: domain.SubCategorySoftwareProblem,
		Network:     domain.NetworkInternal,
		Subject:     "Printer offline",
		Description: "The second floor printer does not respond.",
		Priority:    domain.TicketPriorityLow,
		Tags:        []string{" printer ", "", "hardware", "printer"},
	}
}
