package app_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/accounts"
	"github.com/parleyhq/parley/internal/app"
	"github.com/parleyhq/parley/internal/auth"
	"github.com/parleyhq/parley/internal/session"
	"github.com/parleyhq/parley/internal/shared"
	"github.com/parleyhq/parley/internal/token"
	_ "github.com/parleyhq/parley/testing"
)

type memoryRepo struct {
	users map[string]*accounts.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]*accounts.User{}}
}

func (m *memoryRepo) Create(ctx context.Context, user *accounts.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Phone == user.Phone {
			return shared.ErrConflict
		}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id string) (*accounts.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryRepo) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (m *memoryRepo) ListOthers(ctx context.Context, excludeID string) ([]accounts.User, error) {
	others := []accounts.User{}
	for _, user := range m.users {
		if user.ID != excludeID {
			others = append(others, *user)
		}
	}
	return others, nil
}

func (m *memoryRepo) Update(ctx context.Context, user *accounts.User) (*accounts.User, error) {
	if _, ok := m.users[user.ID]; !ok {
		return nil, shared.ErrUserNotFound
	}
	stored := *user
	m.users[user.ID] = &stored
	copied := stored
	return &copied, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

var _ accounts.Repository = (*memoryRepo)(nil)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &app.Config{
		AppEnv:            "development",
		AppRequestTimeout: 5 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := token.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	cookies := session.NewTransport(tokens.TTL(), cfg.IsProduction())

	repo := newMemoryRepo()
	accountsService := accounts.NewService(logger, repo, accounts.NewProfileCache(nil, 0))
	accountsHandler := accounts.NewHandler(logger, accountsService)
	authHandler := auth.NewHandler(logger, auth.NewService(repo), accountsService, tokens, cookies)
	gate := auth.Middleware{Logger: logger, Tokens: tokens, Cookies: cookies, Repo: repo}

	return app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		AccountsHandler: accountsHandler,
		Gate:            gate,
	})
}

func doJSON(router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func grabCookie(t *testing.T, res *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range res.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestHealthz(t *testing.T) {
	router := newTestServer(t)
	res := doJSON(router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router := newTestServer(t)

	for _, probe := range []struct{ method, path string }{
		{http.MethodGet, "/api/user/"},
		{http.MethodGet, "/api/user/some-id"},
		{http.MethodPut, "/api/user/update/some-id"},
		{http.MethodDelete, "/api/user/delete/some-id"},
		{http.MethodPost, "/api/user/logout"},
	} {
		res := doJSON(router, probe.method, probe.path, "")
		assert.Equal(t, http.StatusUnauthorized, res.Code, "%s %s", probe.method, probe.path)
	}
}

// Full walk of the happy path: register, log in, list other users.
func TestRegisterLoginList(t *testing.T) {
	router := newTestServer(t)

	registered := doJSON(router, http.MethodPost, "/api/user/register",
		`{"fullname":"Alice","email":"alice@x.com","phone":"555-1","password":"pw123secret"}`)
	require.Equal(t, http.StatusCreated, registered.Code, registered.Body.String())
	assert.NotContains(t, registered.Body.String(), "password")

	bob := doJSON(router, http.MethodPost, "/api/user/register",
		`{"fullname":"Bob","email":"bob@x.com","phone":"555-2","password":"pw123secret"}`)
	require.Equal(t, http.StatusCreated, bob.Code)

	login := doJSON(router, http.MethodPost, "/api/user/login",
		`{"email":"alice@x.com","password":"pw123secret"}`)
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	cookie := grabCookie(t, login)

	list := doJSON(router, http.MethodGet, "/api/user/", "", cookie)
	require.Equal(t, http.StatusOK, list.Code, list.Body.String())
	assert.Contains(t, list.Body.String(), "bob@x.com")
	assert.NotContains(t, list.Body.String(), "alice@x.com", "caller excluded from their own listing")
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	router := newTestServer(t)

	first := doJSON(router, http.MethodPost, "/api/user/register",
		`{"fullname":"Alice","email":"alice@x.com","phone":"555-1","password":"pw123secret"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	dupEmail := doJSON(router, http.MethodPost, "/api/user/register",
		`{"fullname":"Mallory","email":"alice@x.com","phone":"555-9","password":"pw123secret"}`)
	assert.Equal(t, http.StatusConflict, dupEmail.Code)

	dupPhone := doJSON(router, http.MethodPost, "/api/user/register",
		`{"fullname":"Mallory","email":"mallory@x.com","phone":"555-1","password":"pw123secret"}`)
	assert.Equal(t, http.StatusConflict, dupPhone.Code)
}

func TestTokenOfDeletedAccount(t *testing.T) {
	router := newTestServer(t)

	registered := doJSON(router, http.MethodPost, "/api/user/register",
		`{"fullname":"Alice","email":"alice@x.com","phone":"555-1","password":"pw123secret"}`)
	require.Equal(t, http.StatusCreated, registered.Code)
	cookie := grabCookie(t, registered)

	var payload struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &payload))

	deleted := doJSON(router, http.MethodDelete, "/api/user/delete/"+payload.User.ID, "", cookie)
	require.Equal(t, http.StatusOK, deleted.Code)

	// The token still verifies, but the account behind it is gone: that is
	// a 404, distinct from the 401 of a bad token.
	res := doJSON(router, http.MethodGet, "/api/user/", "", cookie)
	assert.Equal(t, http.StatusNotFound, res.Code)
}
