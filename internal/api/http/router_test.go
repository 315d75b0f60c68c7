package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type testServer struct {
	app      *fiber.App
	sessions *service.SessionManager
	metrics  *observability.Metrics
}

func newTestServer(t *testing.T, submitDelay time.Duration) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	accounts := repository.NewMemoryAccountRepository()
	tickets := repository.NewMemoryTicketRepository()
	require.NoError(t, service.NewSeeder(accounts, tickets, logger, "", bcrypt.MinCost).Seed(context.Background()))

	sessions := service.NewSessionManager(service.SessionDependencies{
		Identity:     service.NewIdentityStore(accounts),
		SnapshotRepo: repository.NewMemorySessionRepository(),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	directory := service.NewUserDirectory(service.DirectoryDependencies{
		AccountRepo: accounts,
		Dispatcher:  dispatcher,
		Logger:      logger,
		BcryptCost:  bcrypt.MinCost,
		SubmitDelay: submitDelay,
	})
	store := service.NewTicketStore(service.TicketDependencies{
		TicketRepo:  tickets,
		Dispatcher:  dispatcher,
		Logger:      logger,
		SubmitDelay: submitDelay,
	})
	service.NewNotificationService(dispatcher, logger, metrics, config.NotificationConfig{}).RegisterHandlers()

	tokens := auth.NewTokenManager("test-secret", 5)
	validate := dto.NewValidator()

	app := NewApp("helpdesk-test", logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("helpdesk-test", "test", &persistence.Postgres{}, &persistence.Redis{}, metrics),
		Auth:           handlers.NewAuthHandler(sessions, tokens, validate),
		Tickets:        handlers.NewTicketsHandler(store, validate),
		Users:          handlers.NewUsersHandler(directory, validate),
		Meta:           handlers.NewMetaHandler(),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, sessions),
	})
	return &testServer{app: app, sessions: sessions, metrics: metrics}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, status)
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Auth.Token)
	return resp.Auth.Token
}

func decodeTickets(t *testing.T, env envelope) []dto.TicketResponse {
	t.Helper()
	var tickets []dto.TicketResponse
	require.NoError(t, json.Unmarshal(env.Data, &tickets))
	return tickets
}

func ticketNumbers(tickets []dto.TicketResponse) []string {
	out := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, ticket.Number)
	}
	return out
}

func validTicketRequest() dto.CreateTicketRequest {
	return dto.CreateTicketRequest{
		Branch:      "BYD Branch",
		Service:     "IT Support",
		Category:    "Bug Report",
		SubCategory: "Software Problem",
		Network:     "Internal Network",
		Subject:     "VPN drops",
		Description: "VPN disconnects every ten minutes.",
		Priority:    "high",
		Tags:        []string{"vpn", " vpn ", "network"},
	}
}

func TestHealthAndMeta(t *testing.T) {
	s := newTestServer(t, 0)

	status, _ := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := s.do(t, http.MethodGet, "/meta/options", "", nil)
	require.Equal(t, http.StatusOK, status)
	var options dto.OptionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &options))
	assert.Len(t, options.Branches, 3)
	assert.Len(t, options.Statuses, 4)
	assert.Len(t, options.Assignees, 4)

	status, env = s.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t, 0)

	status, env := s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "admin@company.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@company.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "password")

	token := s.login(t, "admin@company.com", "admin123")
	status, env = s.do(t, http.MethodGet, "/auth/session", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"role":"admin"`)
	assert.NotContains(t, string(env.Data), "password")

	status, _ = s.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodGet, "/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, s.sessions.IsAuthenticated())
}

func TestTokenInvalidatedBySessionReplacement(t *testing.T) {
	s := newTestServer(t, 0)

	userToken := s.login(t, "user@company.com", "kerjaibadah")
	s.login(t, "admin@company.com", "admin123")

	status, _ := s.do(t, http.MethodGet, "/tickets", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTicketVisibility(t *testing.T) {
	s := newTestServer(t, 0)

	token := s.login(t, "user@company.com", "kerjaibadah")
	status, env := s.do(t, http.MethodGet, "/tickets", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"TKT-002"}, ticketNumbers(decodeTickets(t, env)))

	status, _ = s.do(t, http.MethodGet, "/tickets/1", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, http.MethodGet, "/tickets/2", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/users/2/tickets", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodGet, "/users/3/tickets", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	admin := s.login(t, "admin@company.com", "admin123")
	status, env = s.do(t, http.MethodGet, "/tickets", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"TKT-001", "TKT-002", "TKT-003"}, ticketNumbers(decodeTickets(t, env)))

	status, env = s.do(t, http.MethodGet, "/tickets?status=resolved", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"TKT-003"}, ticketNumbers(decodeTickets(t, env)))

	status, env = s.do(t, http.MethodGet, "/tickets?search=ALICE&status=all&priority=all&category=all", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"TKT-001"}, ticketNumbers(decodeTickets(t, env)))

	status, env = s.do(t, http.MethodGet, "/users/3/tickets", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"TKT-001"}, ticketNumbers(decodeTickets(t, env)))
}

func TestTicketStatsEndpoint(t *testing.T) {
	s := newTestServer(t, 0)

	status, _ := s.do(t, http.MethodGet, "/tickets/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	decodeStats := func(env envelope) dto.TicketStatsResponse {
		var stats dto.TicketStatsResponse
		require.NoError(t, json.Unmarshal(env.Data, &stats))
		return stats
	}

	token := s.login(t, "user@company.com", "kerjaibadah")
	status, env := s.do(t, http.MethodGet, "/tickets/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats := decodeStats(env)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByStatus["in-progress"])
	assert.Equal(t, 0, stats.ByStatus["open"])

	admin := s.login(t, "admin@company.com", "admin123")
	status, env = s.do(t, http.MethodGet, "/tickets/stats", admin, nil)
	require.Equal(t, http.StatusOK, status)
	stats = decodeStats(env)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"open": 1, "in-progress": 1, "resolved": 1, "closed": 0}, stats.ByStatus)
	assert.Len(t, stats.ByPriority, 4)
}

func TestCreateTicketEndpoint(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, "alice@company.com", "kerjaibadah")

	status, env := s.do(t, http.MethodPost, "/tickets?wait=true", token, validTicketRequest())
	require.Equal(t, http.StatusCreated, status)
	var ticket dto.TicketResponse
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, "TKT-004", ticket.Number)
	assert.Equal(t, "VPN drops", ticket.Title)
	assert.Equal(t, "open", string(ticket.Status))
	assert.Equal(t, []string{"vpn", "network"}, ticket.Tags)
	assert.Equal(t, "3", ticket.Reporter.ID)
	assert.Equal(t, "Alice Johnson", ticket.Reporter.Name)
	assert.Nil(t, ticket.Assignee)

	status, env = s.do(t, http.MethodGet, "/tickets", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"TKT-004", "TKT-001"}, ticketNumbers(decodeTickets(t, env)))

	bad := validTicketRequest()
	bad.Branch = "Moon Branch"
	bad.Subject = ""
	status, env = s.do(t, http.MethodPost, "/tickets?wait=true", token, bad)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "branch")
	assert.Contains(t, env.Error.Details, "subject")
}

func TestCreateTicketAcceptedWhilePending(t *testing.T) {
	s := newTestServer(t, 200*time.Millisecond)
	token := s.login(t, "user@company.com", "kerjaibadah")

	status, env := s.do(t, http.MethodPost, "/tickets", token, validTicketRequest())
	require.Equal(t, http.StatusAccepted, status)
	var pending dto.PendingResponse
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	assert.NotEmpty(t, pending.ID)
	assert.Equal(t, "pending", pending.Status)

	require.Eventually(t, func() bool {
		status, _ := s.do(t, http.MethodGet, "/tickets/"+pending.ID, token, nil)
		return status == http.StatusOK
	}, 5*time.Second, 25*time.Millisecond)
}

func TestAdminTicketUpdates(t *testing.T) {
	s := newTestServer(t, 0)

	user := s.login(t, "user@company.com", "kerjaibadah")
	status, _ := s.do(t, http.MethodPatch, "/tickets/2/status", user, dto.UpdateStatusRequest{Status: "closed"})
	assert.Equal(t, http.StatusForbidden, status)

	admin := s.login(t, "admin@company.com", "admin123")
	status, env := s.do(t, http.MethodPatch, "/tickets/2/status", admin, dto.UpdateStatusRequest{Status: "closed"})
	require.Equal(t, http.StatusOK, status)
	var ticket dto.TicketResponse
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, "closed", string(ticket.Status))
	assert.False(t, ticket.UpdatedAt.Before(ticket.CreatedAt))

	status, env = s.do(t, http.MethodPatch, "/tickets/2/status", admin, dto.UpdateStatusRequest{Status: "done"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "status")

	status, _ = s.do(t, http.MethodPatch, "/tickets/missing/status", admin, dto.UpdateStatusRequest{Status: "open"})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(t, http.MethodPatch, "/tickets/2/assignee", admin, dto.UpdateAssigneeRequest{Assignee: "unassigned"})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Nil(t, ticket.Assignee)

	status, env = s.do(t, http.MethodPatch, "/tickets/2/assignee", admin, dto.UpdateAssigneeRequest{Assignee: "General Affair"})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	require.NotNil(t, ticket.Assignee)
	assert.Equal(t, "General Affair", string(*ticket.Assignee))

	status, _ = s.do(t, http.MethodPatch, "/tickets/2/assignee", admin, dto.UpdateAssigneeRequest{Assignee: "Facilities"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUserDirectoryEndpoints(t *testing.T) {
	s := newTestServer(t, 0)
	admin := s.login(t, "admin@company.com", "admin123")

	status, env := s.do(t, http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, env.Meta["total"])
	assert.NotContains(t, string(env.Data), "password")

	status, env = s.do(t, http.MethodPost, "/users?wait=true", admin, dto.CreateUserRequest{
		Email: "dina@company.com",
		Name:  "Dina",
		Phone: "+6281234567894",
	})
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "user", created.Role)

	status, env = s.do(t, http.MethodPost, "/users?wait=true", admin, dto.CreateUserRequest{Email: "nope", Role: "owner"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "role")

	status, _ = s.do(t, http.MethodPost, "/users/"+created.ID+"/reset-password", admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodPost, "/users/missing/reset-password", admin, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodDelete, "/users/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodDelete, "/users/missing", admin, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, env = s.do(t, http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, env.Meta["total"])
}

func TestResetPasswordThenLogin(t *testing.T) {
	s := newTestServer(t, 0)
	admin := s.login(t, "admin@company.com", "admin123")

	status, _ := s.do(t, http.MethodPost, "/users/3/reset-password", admin, nil)
	require.Equal(t, http.StatusNoContent, status)

	s.login(t, "alice@company.com", "kerjaibadah")
}

func TestRequestMetrics(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(t, http.MethodGet, "/health/live", "", nil)
	s.do(t, http.MethodGet, "/tickets", "", nil)
	s.login(t, "user@company.com", "kerjaibadah")

	snap := s.metrics.Snapshot()
	assert.NotEmpty(t, snap.Requests)
	assert.NotEmpty(t, snap.Errors)
	assert.EqualValues(t, 1, snap.Events["session_started"])
}
