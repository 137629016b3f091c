package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	users map[string]*model.User
}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (*model.User, *auth.Claims, error) {
	u, ok := s.users[token]
	if !ok {
		return nil, nil, apperror.Unauthorized("Invalid token")
	}
	claims := &auth.Claims{UserID: u.ID}
	claims.ID = "jti-" + token
	return u, claims, nil
}

func (s *stubVerifier) ResolveActor(_ context.Context, token string) audit.Actor {
	if u, ok := s.users[token]; ok {
		return audit.User(u.ID)
	}
	return audit.None()
}

func newVerifier() *stubVerifier {
	return &stubVerifier{users: map[string]*model.User{
		"user-token":  {ID: 1, Roles: model.Roles{model.RoleUser}},
		"admin-token": {ID: 2, Roles: model.Roles{model.RoleUser, model.RoleAdmin}},
		"super-token": {ID: 3, Roles: model.Roles{model.RoleSuperAdmin}},
	}}
}

func do(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func withToken(token string) *http.Request {
	return withTokenAt("/", token)
}

func withTokenAt(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func TestAPIKeyGuard(t *testing.T) {
	const header = "x-thats-my-college-api-config-key"
	app := fiber.New()
	app.Get("/", NewAPIKeyGuard(header, "s3cret").Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(header, "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(header, "s3cret")
	assert.Equal(t, fiber.StatusNoContent, do(t, app, req))
}

func TestAPIKeyGuardEmptyKeyNeverMatches(t *testing.T) {
	g := NewAPIKeyGuard("x-key", "")
	assert.False(t, g.Valid(""))
	assert.False(t, g.Valid("anything"))
}

func TestRequiredSetsUser(t *testing.T) {
	m := NewAuthMiddleware(newVerifier(), zap.NewNop())
	app := fiber.New()
	app.Get("/", m.Required(), func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		require.True(t, ok)
		jti, _ := GetTokenJTI(c)
		assert.Equal(t, "jti-user-token", jti)
		return c.SendString(user.Roles[0])
	})

	assert.Equal(t, fiber.StatusOK, do(t, app, withToken("user-token")))
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, withToken("")))
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, withToken("forged")))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token user-token")
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, req))
}

func TestRequireRolesIntersection(t *testing.T) {
	m := NewAuthMiddleware(newVerifier(), zap.NewNop())
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	app.Get("/admin", m.Required(), m.RequireAdmin(), ok)
	app.Get("/super", m.Required(), m.RequireRoles(model.RoleSuperAdmin), ok)
	app.Get("/unguarded", m.RequireRoles(model.RoleUser), ok)

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/admin", "user-token", fiber.StatusForbidden},
		{"/admin", "admin-token", fiber.StatusOK},
		{"/admin", "super-token", fiber.StatusOK},
		{"/super", "admin-token", fiber.StatusForbidden},
		{"/super", "super-token", fiber.StatusOK},
		{"/unguarded", "user-token", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.path+"/"+tc.token, func(t *testing.T) {
			assert.Equal(t, tc.status, do(t, app, withTokenAt(tc.path, tc.token)))
		})
	}
}

func TestActorFallsBackToToken(t *testing.T) {
	m := NewAuthMiddleware(newVerifier(), zap.NewNop())
	var got audit.Actor
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = m.Actor(c)
		return c.SendStatus(fiber.StatusOK)
	})

	do(t, app, withToken("admin-token"))
	id, known := got.ID()
	assert.True(t, known)
	assert.Equal(t, uint(2), id)

	do(t, app, withToken("forged"))
	assert.False(t, got.Known())

	do(t, app, withToken(""))
	assert.False(t, got.Known())
}

type memoryAttempts struct {
	mu     sync.Mutex
	counts map[string]int64
	locks  map[string]time.Duration
}

func newMemoryAttempts() *memoryAttempts {
	return &memoryAttempts{counts: map[string]int64{}, locks: map[string]time.Duration{}}
}

func (m *memoryAttempts) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[key]
	return ok, nil
}

func (m *memoryAttempts) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[key], nil
}

func (m *memoryAttempts) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryAttempts) Expire(context.Context, string, time.Duration) error { return nil }

func (m *memoryAttempts) Set(_ context.Context, key string, _ interface{}, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[key] = d
	return nil
}

func (m *memoryAttempts) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.counts, k)
		delete(m.locks, k)
	}
	return nil
}

func TestBruteForceLockout(t *testing.T) {
	store := newMemoryAttempts()
	b := NewBruteForceProtection(store, zap.NewNop())
	var clientIP string
	app := fiber.New()
	app.Post("/login", b.CheckLock(), func(c *fiber.Ctx) error {
		clientIP = c.IP()
		b.RecordFailure(c.UserContext(), clientIP)
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	login := func() *http.Response {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		return resp
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusUnauthorized, login().StatusCode)
	}

	resp := login()
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "120", resp.Header.Get(fiber.HeaderRetryAfter))

	b.RecordSuccess(context.Background(), clientIP)
	assert.Equal(t, fiber.StatusUnauthorized, login().StatusCode)
}

func TestLockDuration(t *testing.T) {
	assert.Zero(t, LockDuration(4))
	assert.Equal(t, 2*time.Minute, LockDuration(5))
	assert.Equal(t, time.Hour, LockDuration(10))
	assert.Equal(t, 24*time.Hour, LockDuration(25))
}

func TestNilBruteForceIsDisabled(t *testing.T) {
	var b *BruteForceProtection
	app := fiber.New()
	app.Get("/", b.CheckLock(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	assert.Equal(t, fiber.StatusOK, do(t, app, withToken("")))
	b.RecordFailure(context.Background(), "1.2.3.4")
}
