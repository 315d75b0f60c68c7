package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserDirectory manages the account list used by administrators.
type UserDirectory struct {
	accounts        repository.AccountRepository
	dispatcher      events.Dispatcher
	logger          *zap.Logger
	defaultPassword string
	bcryptCost      int
	submitDelay     time.Duration
	pending         inflight
}

// DirectoryDependencies bundles collaborators for the directory.
type DirectoryDependencies struct {
	AccountRepo     repository.AccountRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	DefaultPassword string
	BcryptCost      int
	SubmitDelay     time.Duration
}

// NewUserDirectory constructs the directory.
func NewUserDirectory(deps DirectoryDependencies) *UserDirectory {
	password := deps.DefaultPassword
	if password == "" {
		password = domain.DefaultPassword
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserDirectory{
		accounts:        deps.AccountRepo,
		dispatcher:      deps.Dispatcher,
		logger:          logger,
		defaultPassword: password,
		bcryptCost:      deps.BcryptCost,
		submitDelay:     deps.SubmitDelay,
	}
}

// AddUser appends a new account carrying the default secret once the submit delay has
// elapsed. Invalid input settles the Pending immediately with a validation error.
func (d *UserDirectory) AddUser(ctx context.Context, input domain.AccountInput) *Pending[domain.PublicAccount] {
	input = normalizeAccountInput(input)
	if err := validateAccountInput(input); err != nil {
		return failed[domain.PublicAccount](err)
	}

	id := uuid.NewString()
	return submit(ctx, &d.pending, d.submitDelay, id, func(ctx context.Context) (domain.PublicAccount, error) {
		hash, err := auth.HashPassword(d.defaultPassword, d.bcryptCost)
		if err != nil {
			return domain.PublicAccount{}, fmt.Errorf("hash default password: %w", err)
		}
		account := &domain.Account{
			ID:           id,
			Email:        input.Email,
			Name:         input.Name,
			Phone:        input.Phone,
			Role:         input.Role,
			PasswordHash: hash,
		}
		if err := d.accounts.Create(ctx, account); err != nil {
			d.logger.Error("add user failed", zap.String("account_id", id), zap.Error(err))
			return domain.PublicAccount{}, fmt.Errorf("create account: %w", err)
		}

		public := account.Public()
		d.logger.Info("user added", zap.String("account_id", id), zap.String("role", string(public.Role)))
		publish(ctx, d.dispatcher, events.Event{
			Type:      events.EventUserAdded,
			SubjectID: id,
			Payload:   events.AccountPayload{Account: public},
		})
		return public, nil
	})
}

// RemoveUser deletes the account. Unknown ids are ignored; tickets keep their reporter id.
func (d *UserDirectory) RemoveUser(ctx context.Context, id string) error {
	account, err := d.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if err := d.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete account: %w", err)
	}

	d.logger.Info("user removed", zap.String("account_id", id))
	publish(ctx, d.dispatcher, events.Event{
		Type:      events.EventUserRemoved,
		SubjectID: id,
		Payload:   events.AccountPayload{Account: account.Public()},
	})
	return nil
}

// ResetPassword restores the default secret. Unknown ids are ignored.
func (d *UserDirectory) ResetPassword(ctx context.Context, id string) error {
	account, err := d.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	hash, err := auth.HashPassword(d.defaultPassword, d.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}
	account.PasswordHash = hash
	if err := d.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("update account: %w", err)
	}

	d.logger.Info("password reset", zap.String("account_id", id))
	publish(ctx, d.dispatcher, events.Event{
		Type:      events.EventUserPasswordReset,
		SubjectID: id,
		Payload:   events.AccountPayload{Account: account.Public()},
	})
	return nil
}

// List returns every account in insertion order without secrets.
func (d *UserDirectory) List(ctx context.Context) ([]domain.PublicAccount, error) {
	accounts, err := d.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	result := make([]domain.PublicAccount, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, account.Public())
	}
	return result, nil
}

// Get returns a single account without its secret.
func (d *UserDirectory) Get(ctx context.Context, id string) (*domain.PublicAccount, error) {
	account, err := d.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	public := account.Public()
	return &public, nil
}

// Loading reports whether an AddUser submission is still in flight.
func (d *UserDirectory) Loading() bool {
	return d.pending.Loading()
}

func normalizeAccountInput(input domain.AccountInput) domain.AccountInput {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	return input
}

func validateAccountInput(input domain.AccountInput) error {
	details := map[string]any{}
	if input.Email == "" {
		details["email"] = "required"
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		details["email"] = "invalid email"
	}
	if input.Name == "" {
		details["name"] = "required"
	}
	if input.Phone == "" {
		details["phone"] = "required"
	}
	if !input.Role.Valid() {
		details["role"] = "must be admin or user"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid user", details)
	}
	return nil
}
