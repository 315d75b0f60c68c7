package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ErrInvalidCredentials is the single outcome of every failed login.
var ErrInvalidCredentials = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)

// IdentityStore matches credentials against the account directory.
type IdentityStore struct {
	accounts repository.AccountRepository
}

// NewIdentityStore builds the store over the shared account repository.
func NewIdentityStore(accounts repository.AccountRepository) *IdentityStore {
	return &IdentityStore{accounts: accounts}
}

// Match returns the first account whose email equals email exactly and whose secret
// matches. Emails are not unique, so every candidate is tried in insertion order.
func (s *IdentityStore) Match(ctx context.Context, email, secret string) (*domain.Account, error) {
	if email == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}
	candidates, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	for i := range candidates {
		switch err := auth.ComparePassword(candidates[i].PasswordHash, secret); {
		case err == nil:
			return &candidates[i], nil
		case errors.Is(err, auth.ErrPasswordMismatch):
			continue
		default:
			return nil, fmt.Errorf("compare password: %w", err)
		}
	}
	return nil, ErrInvalidCredentials
}

// SessionManager owns the single authenticated session of the process and mirrors it
// into the snapshot store.
type SessionManager struct {
	mu         sync.RWMutex
	current    *domain.PublicAccount
	identity   *IdentityStore
	snapshots  repository.SessionSnapshotRepository
	key        string
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// SessionDependencies bundles collaborators for the session manager.
type SessionDependencies struct {
	Identity     *IdentityStore
	SnapshotRepo repository.SessionSnapshotRepository
	SnapshotKey  string
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewSessionManager constructs the manager with no active session.
func NewSessionManager(deps SessionDependencies) *SessionManager {
	key := deps.SnapshotKey
	if key == "" {
		key = domain.SessionSnapshotKey
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		identity:   deps.Identity,
		snapshots:  deps.SnapshotRepo,
		key:        key,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Login authenticates and replaces the current session. A failed attempt leaves the
// existing session untouched.
func (m *SessionManager) Login(ctx context.Context, email, secret string) (*domain.PublicAccount, error) {
	account, err := m.identity.Match(ctx, email, secret)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			m.logger.Error("login lookup failed", zap.Error(err))
		}
		return nil, err
	}

	public := account.Public()
	m.mu.Lock()
	m.current = &public
	m.mu.Unlock()

	m.writeSnapshot(ctx, public)
	publish(ctx, m.dispatcher, events.Event{
		Type:      events.EventSessionStarted,
		SubjectID: public.ID,
		Payload:   events.AccountPayload{Account: public},
	})

	result := public
	return &result, nil
}

// Logout ends the session and removes the snapshot. Calling it without a session is a
// no-op apart from the snapshot delete.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	previous := m.current
	m.current = nil
	m.mu.Unlock()

	if err := m.snapshots.Delete(ctx, m.key); err != nil {
		m.logger.Warn("delete session snapshot failed", zap.String("key", m.key), zap.Error(err))
	}
	if previous != nil {
		publish(ctx, m.dispatcher, events.Event{
			Type:      events.EventSessionEnded,
			SubjectID: previous.ID,
			Payload:   events.AccountPayload{Account: *previous},
		})
	}
	return nil
}

// Restore loads the session from the snapshot store. Missing, unreadable or malformed
// snapshots leave the process logged out.
func (m *SessionManager) Restore(ctx context.Context) {
	raw, err := m.snapshots.Load(ctx, m.key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.logger.Warn("load session snapshot failed", zap.String("key", m.key), zap.Error(err))
		}
		return
	}

	account, err := decodeSnapshot(raw)
	if err != nil {
		m.logger.Warn("discarding malformed session snapshot", zap.String("key", m.key), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.current = account
	m.mu.Unlock()
	m.logger.Info("session restored", zap.String("account_id", account.ID))
}

// Current returns a copy of the session account.
func (m *SessionManager) Current() (*domain.PublicAccount, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	copied := *m.current
	return &copied, true
}

// IsAuthenticated reports whether a session exists.
func (m *SessionManager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

func (m *SessionManager) writeSnapshot(ctx context.Context, account domain.PublicAccount) {
	raw, err := json.Marshal(account)
	if err != nil {
		m.logger.Warn("encode session snapshot failed", zap.Error(err))
		return
	}
	if err := m.snapshots.Save(ctx, m.key, raw); err != nil {
		m.logger.Warn("save session snapshot failed", zap.String("key", m.key), zap.Error(err))
	}
}

func decodeSnapshot(raw []byte) (*domain.PublicAccount, error) {
	var account domain.PublicAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, err
	}
	if strings.TrimSpace(account.ID) == "" {
		return nil, errors.New("snapshot missing id")
	}
	if !account.Role.Valid() {
		return nil, fmt.Errorf("snapshot has unknown role %q", account.Role)
	}
	return &account, nil
}
