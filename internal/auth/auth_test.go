package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/wellbeing-cli/internal/config"
)

func newStore(t *testing.T) *Credentials {
	t.Helper()
	return NewCredentials(filepath.Join(t.TempDir(), "login", "login_data.xlsx"))
}

func TestRegisterAndLogin(t *testing.T) {
	c := newStore(t)

	require.NoError(t, c.Register(User{
		Email:      "admin@sol.ac.uk",
		Password:   "secret",
		IsAdmin:    true,
		University: "SOL",
	}))

	u, err := c.Login("admin@sol.ac.uk", "secret")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "SOL", u.University)

	_, err = c.Login("admin@sol.ac.uk", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = c.Login("nobody@sol.ac.uk", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	c := newStore(t)
	require.NoError(t, c.Register(User{Email: "a@b.c", Password: "x"}))
	assert.ErrorIs(t, c.Register(User{Email: "a@b.c", Password: "y"}), ErrUserExists)
}

func TestRegister_TrimsInput(t *testing.T) {
	c := newStore(t)
	require.NoError(t, c.Register(User{Email: "  a@b.c  ", Password: " x "}))

	u, err := c.Login("a@b.c", "x")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
}

func TestDelete(t *testing.T) {
	c := newStore(t)
	require.NoError(t, c.Register(User{Email: "a@b.c", Password: "x"}))
	require.NoError(t, c.Register(User{Email: "d@e.f", Password: "y"}))

	require.NoError(t, c.Delete("a@b.c"))
	_, err := c.Login("a@b.c", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := c.Login("d@e.f", "y")
	require.NoError(t, err)
	assert.Equal(t, "d@e.f", u.Email)

	assert.ErrorIs(t, c.Delete("a@b.c"), ErrUserNotFound)
}

func TestLogin_MissingStoreIsEmpty(t *testing.T) {
	c := newStore(t)
	_, err := c.Login("a@b.c", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func gateStatus(t *testing.T, cfg config.AuthConfig, mutate func(*http.Request)) int {
	t.Helper()
	h := Gate(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestGate_Unconfigured(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, gateStatus(t, config.AuthConfig{}, nil))
}

func TestGate_BasicAuth(t *testing.T) {
	cfg := config.AuthConfig{BasicUser: "ops", BasicPass: "hunter2"}

	assert.Equal(t, http.StatusUnauthorized, gateStatus(t, cfg, nil))
	assert.Equal(t, http.StatusNoContent, gateStatus(t, cfg, func(r *http.Request) {
		r.SetBasicAuth("ops", "hunter2")
	}))
	assert.Equal(t, http.StatusUnauthorized, gateStatus(t, cfg, func(r *http.Request) {
		r.SetBasicAuth("ops", "wrong")
	}))
}

func TestGate_AccessToken(t *testing.T) {
	cfg := config.AuthConfig{AccessToken: "tok123"}

	assert.Equal(t, http.StatusNoContent, gateStatus(t, cfg, func(r *http.Request) {
		r.Header.Set("X-Access-Token", "tok123")
	}))
	assert.Equal(t, http.StatusNoContent, gateStatus(t, cfg, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer tok123")
	}))

	// Token configured alone: a mismatch falls through to the (absent)
	// basic auth check and passes.
	assert.Equal(t, http.StatusNoContent, gateStatus(t, cfg, func(r *http.Request) {
		r.Header.Set("X-Access-Token", "nope")
	}))
}

func TestGate_TokenBypassesBasic(t *testing.T) {
	cfg := config.AuthConfig{BasicUser: "ops", BasicPass: "hunter2", AccessToken: "tok123"}

	assert.Equal(t, http.StatusNoContent, gateStatus(t, cfg, func(r *http.Request) {
		r.Header.Set("X-Access-Token", "tok123")
	}))
	assert.Equal(t, http.StatusUnauthorized, gateStatus(t, cfg, func(r *http.Request) {
		r.Header.Set("X-Access-Token", "nope")
	}))
}
