package auth

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tahcohcat/eventquest-web/internal/models"
)

type stubUsers map[string]models.User

func (s stubUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, sql.ErrNoRows)
	}
	return &u, nil
}

var users = stubUsers{"u1": {ID: "u1", Name: "Sarah Johnson"}}

func postJSON(a *Auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	a.LoginHandler(rec, req)
	return rec
}

// whoami echoes the identity SessionMiddleware put in the context.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "%s|%s", UserID(r), BoardID(r))
})

func TestLoginAndSession(t *testing.T) {
	a := New("test-secret", users, "")

	rec := postJSON(a, `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sarah Johnson")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	a.SessionMiddleware(whoami).ServeHTTP(rec, req)

	parts := strings.Split(rec.Body.String(), "|")
	require.Len(t, parts, 2)
	assert.Equal(t, "u1", parts[0])
	assert.NotEmpty(t, parts[1])
}

func TestLoginForm(t *testing.T) {
	a := New("test-secret", users, "")

	form := url.Values{"user_id": {"u1"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.LoginHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginErrors(t *testing.T) {
	a := New("test-secret", users, "")

	assert.Equal(t, http.StatusBadRequest, postJSON(a, `{`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(a, `{"user_id":""}`).Code)
	assert.Equal(t, http.StatusNotFound, postJSON(a, `{"user_id":"nobody"}`).Code)
}

func TestLoginPasscode(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("techconf"), bcrypt.MinCost)
	require.NoError(t, err)
	a := New("test-secret", users, string(hash))

	rec := httptest.NewRecorder()
	a.LoginHandler(rec, httptest.NewRequest("GET", "/login", nil))
	assert.Contains(t, rec.Body.String(), `"passcode_required":true`)

	assert.Equal(t, http.StatusUnauthorized, postJSON(a, `{"user_id":"u1","passcode":"wrong"}`).Code)
	assert.Equal(t, http.StatusOK, postJSON(a, `{"user_id":"u1","passcode":"techconf"}`).Code)
}

func TestAnonymousSessionGetsBoard(t *testing.T) {
	a := New("test-secret", users, "")

	rec := httptest.NewRecorder()
	a.SessionMiddleware(whoami).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	parts := strings.Split(rec.Body.String(), "|")
	require.Len(t, parts, 2)
	assert.Empty(t, parts[0])
	assert.NotEmpty(t, parts[1])
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(whoami)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), "u1", "b1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1|b1", rec.Body.String())
}

func TestLoginMalformedForm(t *testing.T) {
	a := New("test-secret", users, "")

	req := httptest.NewRequest("POST", "/login", strings.NewReader("user_id=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.LoginHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestLogoutRunsHooks(t *testing.T) {
	a := New("test-secret", users, "")
	var dropped []string
	a.OnLogout(func(boardID string) { dropped = append(dropped, boardID) })

	login := postJSON(a, `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, login.Code)

	// read the board id the login assigned
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.SessionMiddleware(whoami).ServeHTTP(rec, req)
	boardID := strings.Split(rec.Body.String(), "|")[1]

	req = httptest.NewRequest("POST", "/logout", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	a.LogoutHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{boardID}, dropped)
}
