package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	account, err := f.sessions.Login(ctx, "admin@company.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "1", account.ID)
	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.True(t, f.sessions.IsAuthenticated())

	current, ok := f.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, *account, *current)

	raw, err := f.snapshots.Load(ctx, domain.SessionSnapshotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","email":"admin@company.com","name":"Admin User","phone":"+6281234567890","role":"admin"}`, string(raw))
	assert.NotContains(t, string(raw), "admin123")

	assert.Equal(t, []events.EventType{events.EventSessionStarted}, f.recorded.types())
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	cases := []struct {
		name   string
		email  string
		secret string
	}{
		{"WrongSecret", "admin@company.com", "wrong"},
		{"SecretIsCaseSensitive", "admin@company.com", "Admin123"},
		{"EmailIsCaseSensitive", "ADMIN@company.com", "admin123"},
		{"UnknownEmail", "nobody@company.com", "admin123"},
		{"EmptyEmail", "", "admin123"},
		{"EmptySecret", "admin@company.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			account, err := f.sessions.Login(ctx, tc.email, tc.secret)
			assert.Nil(t, account)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.False(t, f.sessions.IsAuthenticated())
		})
	}
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.sessions.Login(ctx, "user@company.com", domain.DefaultPassword)
	require.NoError(t, err)

	_, err = f.sessions.Login(ctx, "admin@company.com", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	current, ok := f.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "2", current.ID)
}

func TestLoginReplacesSession(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.sessions.Login(ctx, "user@company.com", domain.DefaultPassword)
	require.NoError(t, err)
	_, err = f.sessions.Login(ctx, "alice@company.com", domain.DefaultPassword)
	require.NoError(t, err)

	current, ok := f.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "3", current.ID)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.sessions.Login(ctx, "admin@company.com", "admin123")
	require.NoError(t, err)

	require.NoError(t, f.sessions.Logout(ctx))
	assert.False(t, f.sessions.IsAuthenticated())
	_, err = f.snapshots.Load(ctx, domain.SessionSnapshotKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, f.sessions.Logout(ctx))
	assert.Equal(t, []events.EventType{events.EventSessionStarted, events.EventSessionEnded}, f.recorded.types())
}

func TestRestore(t *testing.T) {
	cases := []struct {
		name     string
		snapshot string
		wantID   string
	}{
		{"Valid", `{"id":"2","email":"user@company.com","name":"Regular User","phone":"+6281234567891","role":"user"}`, "2"},
		{"MalformedJSON", `{"id":`, ""},
		{"MissingID", `{"email":"user@company.com","role":"user"}`, ""},
		{"UnknownRole", `{"id":"2","role":"superuser"}`, ""},
		{"NotAnObject", `"helpdesk"`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, false)
			ctx := context.Background()
			require.NoError(t, f.snapshots.Save(ctx, domain.SessionSnapshotKey, []byte(tc.snapshot)))

			f.sessions.Restore(ctx)

			current, ok := f.sessions.Current()
			if tc.wantID == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.wantID, current.ID)
		})
	}
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	f := newFixture(t, false)
	f.sessions.Restore(context.Background())
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestSessionSurvivesRestart(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.sessions.Login(ctx, "alice@company.com", domain.DefaultPassword)
	require.NoError(t, err)

	restarted := NewSessionManager(SessionDependencies{
		Identity:     NewIdentityStore(f.accounts),
		SnapshotRepo: f.snapshots,
	})
	restarted.Restore(ctx)

	current, ok := restarted.Current()
	require.True(t, ok)
	assert.Equal(t, "alice@company.com", current.Email)
}

func TestCurrentReturnsCopy(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.sessions.Login(context.Background(), "admin@company.com", "admin123")
	require.NoError(t, err)

	current, _ := f.sessions.Current()
	current.Role = domain.RoleUser

	again, _ := f.sessions.Current()
	assert.Equal(t, domain.RoleAdmin, again.Role)
}

func TestIdentityStoreTriesDuplicateEmails(t *testing.T) {
	f := newFixture(t, true)
	ctx := waitCtx(t)

	added, err := f.directory.AddUser(ctx, domain.AccountInput{
		Email: "admin@company.com",
		Name:  "Second Admin Email",
		Phone: "+6200000000",
		Role:  domain.RoleUser,
	}).Wait(ctx)
	require.NoError(t, err)

	account, err := NewIdentityStore(f.accounts).Match(ctx, "admin@company.com", domain.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, added.ID, account.ID)

	account, err = NewIdentityStore(f.accounts).Match(ctx, "admin@company.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "1", account.ID)
}
