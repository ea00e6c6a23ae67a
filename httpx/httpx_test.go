package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/quick-form/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pa55"), bcrypt.MinCost)
	require.NoError(t, err)
	return config.Config{
		TokenSecret:       "test-secret",
		TokenTTL:          time.Minute,
		AdminUser:         "admin",
		AdminPasswordHash: string(hash),
	}
}

func TestValidateUser(t *testing.T) {
	v := CredentialsVerifier(testConfig(t))

	assert.NoError(t, v.ValidateUser("admin", "pa55", "", nil))
	assert.ErrorIs(t, v.ValidateUser("admin", "wrong", "", nil), ErrBadCredentials)
	assert.ErrorIs(t, v.ValidateUser("root", "pa55", "", nil), ErrBadCredentials)
	assert.Error(t, v.ValidateClient("client", "secret", "", nil))
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	v := CredentialsVerifier(testConfig(t))

	require.NoError(t, v.StoreTokenID(oauth.UserToken, "admin", "tok-1", "ref-1"))
	assert.Error(t, v.ValidateTokenID(oauth.UserToken, "admin", "tok-2", "ref-1"), "token id must match")
	assert.Error(t, v.ValidateTokenID(oauth.UserToken, "other", "tok-1", "ref-1"), "credential must match")

	assert.NoError(t, v.ValidateTokenID(oauth.UserToken, "admin", "tok-1", "ref-1"))
	assert.Error(t, v.ValidateTokenID(oauth.UserToken, "admin", "tok-1", "ref-1"))
	assert.Error(t, v.ValidateTokenID(oauth.UserToken, "admin", "tok-9", "unknown"))
}

func TestAdminClaims(t *testing.T) {
	v := CredentialsVerifier(testConfig(t))
	claims, err := v.AddClaims(oauth.UserToken, "admin", "tok", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["roles"])
}

func passwordGrant(user, pass string) *http.Request {
	body := url.Values{"grant_type": {"password"}, "username": {user}, "password": {pass}}
	r := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body.Encode()))
	r.Header.Set("content-type", "application/x-www-form-urlencoded")
	return r
}

func TestBearerServerIssuesTokens(t *testing.T) {
	bs := NewBearerServer(testConfig(t))

	w := httptest.NewRecorder()
	bs.UserCredentials(w, passwordGrant("admin", "pa55"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	w = httptest.NewRecorder()
	bs.UserCredentials(w, passwordGrant("admin", "nope"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResponseBuffer(t *testing.T) {
	buf := NewResponseBuffer()
	assert.Equal(t, 0, buf.Status())
	assert.Empty(t, buf.Body())

	buf.Header().Set("X-Test", "1")
	buf.WriteHeader(http.StatusTeapot)
	buf.WriteHeader(http.StatusOK)
	_, err := buf.Write([]byte("short and stout"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, buf.Status())

	w := httptest.NewRecorder()
	require.NoError(t, buf.Flush(w))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Test"))
	assert.Equal(t, "short and stout", w.Body.String())
}

func TestResponseBufferImplicitOK(t *testing.T) {
	buf := NewResponseBuffer()
	_, _ = buf.Write([]byte("{}"))
	assert.Equal(t, http.StatusOK, buf.Status())
}

func TestLogHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	LogInternalError(w, "test.internal", errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	w = httptest.NewRecorder()
	LogNotFound(w, "test.not_found", "abc")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	LogClientError(w, http.StatusBadRequest, "test.bad", errors.New("title is empty"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is empty")
}
