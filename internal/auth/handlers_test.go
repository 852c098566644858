package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/auth"
	"github.com/EmpoweredVote/registrar/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newServer(t *testing.T, e *env) *httptest.Server {
	t.Helper()
	h := auth.NewHandler(e.gw, e.accounts, false, e.tokens.TTL())
	r := chi.NewRouter()
	r.Mount("/api", auth.SetupRoutes(h, auth.RateLimit{}))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *apiClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: srv.URL, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, rdr)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func errorKind(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	k, _ := e["kind"].(string)
	return k
}

func TestHTTP_StandardFlow(t *testing.T) {
	e := newEnv(t)
	srv := newServer(t, e)
	c := newClient(t, srv)

	status, body := c.do(http.MethodPost, "/api/register", map[string]string{
		"email": "bob@example.com", "password": "Str0ngP@ss1",
	})
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "bob@example.com", user["email"])
	assert.Equal(t, "standard", user["role"])
	assert.NotContains(t, user, "password_hash")

	status, body = c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bob@example.com", body["user"].(map[string]any)["email"])

	status, _ = c.do(http.MethodGet, "/api/secret", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = c.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", errorKind(body))

	status, _ = c.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", errorKind(body))

	status, _ = c.do(http.MethodGet, "/api/secret", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodPost, "/api/login", map[string]string{
		"email": "bob@example.com", "password": "Str0ngP@ss1",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHTTP_ElevatedFlow(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.invites.CreateWithCode(context.Background(), nil, "ABC123"))
	srv := newServer(t, e)

	admin := newClient(t, srv)
	status, body := admin.do(http.MethodPost, "/api/register", map[string]string{
		"email": "admin@example.com", "password": "pw", "role": "elevated", "invite_code": "ABC123",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "elevated", body["user"].(map[string]any)["role"])

	status, body = admin.do(http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["users"], 1)

	other := newClient(t, srv)
	status, body = other.do(http.MethodPost, "/api/register", map[string]string{
		"email": "other@example.com", "password": "pw", "role": "elevated", "invite_code": "ABC123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", errorKind(body))

	status, _ = other.do(http.MethodPost, "/api/register", map[string]string{
		"email": "other@example.com", "password": "pw", "role": "elevated",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	_, err := e.accounts.FindByEmail(context.Background(), "other@example.com")
	assert.Error(t, err)
}

func TestHTTP_ErrorStatuses(t *testing.T) {
	e := newEnv(t)
	srv := newServer(t, e)
	c := newClient(t, srv)

	status, body := c.do(http.MethodPost, "/api/login", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", errorKind(body))

	status, body = c.do(http.MethodPost, "/api/login", map[string]string{
		"email": "x@example.com", "password": "pw",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", errorKind(body))

	status, _ = c.do(http.MethodPost, "/api/register", map[string]string{
		"email": "ghost@example.com", "password": "pw", "student_profile_id": "missing",
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHTTP_MeAfterAccountDeleted(t *testing.T) {
	e := newEnv(t)
	srv := newServer(t, e)
	c := newClient(t, srv)

	status, body := c.do(http.MethodPost, "/api/register", map[string]string{
		"email": "temp@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, status)
	id := body["user"].(map[string]any)["id"].(string)
	require.NoError(t, e.accounts.DeleteAccount(context.Background(), id))

	status, _ = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodGet, "/api/secret", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHTTP_SessionCookieAttributes(t *testing.T) {
	e := newEnv(t)
	h := auth.NewHandler(e.gw, e.accounts, true, 7*24*time.Hour)
	r := chi.NewRouter()
	r.Mount("/api", auth.SetupRoutes(h, auth.RateLimit{}))

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		bytes.NewBufferString(`{"email":"cookie@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, middleware.SessionCookieName, ck.Name)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 7*24*60*60, ck.MaxAge)

	claims, err := e.tokens.Verify(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "cookie@example.com", claims.Email)
	assert.Equal(t, string(accounts.RoleStandard), claims.Role)

	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)
}
