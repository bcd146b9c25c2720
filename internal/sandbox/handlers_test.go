package sandbox

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/gopastebin/internal/app"
	"github.com/ochronus/gopastebin/internal/config"
	"github.com/ochronus/gopastebin/pastebin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Loglevel = "error"
	cfg.Sandbox.Port = 0
	cfg.Sandbox.Capacity = 100
	cfg.Sandbox.PublicURL = "http://sandbox.test"
	cfg.Sandbox.DevKeys = []string{"D1"}
	cfg.Sandbox.Accounts = []config.AccountConfig{
		{Username: "alice", Password: "secret"},
		{Username: "bob", Password: "hunter2"},
	}
	return cfg
}

func setupTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Suppress log output during tests
	return logger
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	container := &app.Container{
		Config: setupTestConfig(),
		Logger: setupTestLogger(),
	}
	server, err := NewServer(container)
	require.NoError(t, err)
	return server
}

func postForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := postForm(t, router, "/api/api_login.php", url.Values{
		"api_dev_key":       {"D1"},
		"api_user_name":     {username},
		"api_user_password": {password},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), pastebin.BadRequestMarker)
	return w.Body.String()
}

func createPaste(t *testing.T, router *gin.Engine, userKey, name, private string) string {
	t.Helper()
	form := url.Values{
		"api_dev_key":       {"D1"},
		"api_option":        {"paste"},
		"api_paste_code":    {"body of " + name},
		"api_paste_name":    {name},
		"api_paste_private": {private},
	}
	if userKey != "" {
		form.Set("api_user_key", userKey)
	}
	w := postForm(t, router, "/api/api_post.php", form)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Body.String(), "http://sandbox.test/"), w.Body.String())
	return strings.TrimPrefix(w.Body.String(), "http://sandbox.test/")
}

func TestLoginHandler(t *testing.T) {
	router := setupTestServer(t).GetRouter()

	tests := []struct {
		name     string
		form     url.Values
		expected string
	}{
		{
			name:     "bad dev key",
			form:     url.Values{"api_dev_key": {"nope"}, "api_user_name": {"alice"}, "api_user_password": {"secret"}},
			expected: msgInvalidDevKey,
		},
		{
			name:     "missing dev key",
			form:     url.Values{"api_user_name": {"alice"}, "api_user_password": {"secret"}},
			expected: msgInvalidDevKey,
		},
		{
			name:     "wrong password",
			form:     url.Values{"api_dev_key": {"D1"}, "api_user_name": {"alice"}, "api_user_password": {"bad"}},
			expected: msgInvalidLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(t, router, "/api/api_login.php", tt.form)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, w.Body.String())
		})
	}

	key := login(t, router, "alice", "secret")
	assert.Regexp(t, `^[0-9a-f]{32}$`, key)
}

func TestPostHandlerRejections(t *testing.T) {
	router := setupTestServer(t).GetRouter()
	userKey := login(t, router, "alice", "secret")

	tests := []struct {
		name     string
		form     url.Values
		expected string
	}{
		{
			name:     "bad dev key",
			form:     url.Values{"api_dev_key": {"x"}, "api_option": {"list"}, "api_user_key": {userKey}},
			expected: msgInvalidDevKey,
		},
		{
			name:     "unknown option",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"frobnicate"}},
			expected: msgInvalidOption,
		},
		{
			name:     "empty code",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"paste"}, "api_paste_code": {""}},
			expected: msgEmptyCode,
		},
		{
			name:     "bad private value",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"paste"}, "api_paste_code": {"x"}, "api_paste_private": {"7"}},
			expected: msgInvalidPrivate,
		},
		{
			name:     "anonymous private paste",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"paste"}, "api_paste_code": {"x"}, "api_paste_private": {"2"}},
			expected: msgInvalidUserKey,
		},
		{
			name:     "unknown user key on paste",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"paste"}, "api_paste_code": {"x"}, "api_user_key": {"stale"}},
			expected: msgInvalidUserKey,
		},
		{
			name:     "bad expire date",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"paste"}, "api_paste_code": {"x"}, "api_expire_date": {"2D"}},
			expected: msgInvalidExpireDate,
		},
		{
			name:     "list without user key",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"list"}},
			expected: msgInvalidUserKey,
		},
		{
			name:     "list limit too large",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"list"}, "api_user_key": {userKey}, "api_results_limit": {"1001"}},
			expected: msgInvalidLimit,
		},
		{
			name:     "delete unknown paste",
			form:     url.Values{"api_dev_key": {"D1"}, "api_option": {"delete"}, "api_user_key": {userKey}, "api_paste_key": {"nope"}},
			expected: msgNoRemovePerm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(t, router, "/api/api_post.php", tt.form)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, w.Body.String())
		})
	}
}

func TestListHandler(t *testing.T) {
	router := setupTestServer(t).GetRouter()
	userKey := login(t, router, "alice", "secret")

	w := postForm(t, router, "/api/api_post.php", url.Values{
		"api_dev_key": {"D1"}, "api_option": {"list"}, "api_user_key": {userKey},
	})
	assert.Equal(t, msgNoPastes, w.Body.String())

	createPaste(t, router, userKey, "a <b> & c", "0")
	createPaste(t, router, userKey, "second", "2")
	createPaste(t, router, "", "anonymous", "0")

	w = postForm(t, router, "/api/api_post.php", url.Values{
		"api_dev_key": {"D1"}, "api_option": {"list"}, "api_user_key": {userKey},
	})
	require.Equal(t, http.StatusOK, w.Code)

	pastes, err := pastebin.ParseList(strings.Split(w.Body.String(), "\n"))
	require.NoError(t, err)
	require.Len(t, pastes, 2)
	assert.Equal(t, "second", pastes[0].Title)
	assert.Equal(t, pastebin.Private, pastes[0].Visibility)
	assert.Equal(t, "a <b> & c", pastes[1].Title)
	assert.Equal(t, "http://sandbox.test/"+pastes[1].Key, pastes[1].URL)

	w = postForm(t, router, "/api/api_post.php", url.Values{
		"api_dev_key": {"D1"}, "api_option": {"list"}, "api_user_key": {userKey}, "api_results_limit": {"1"},
	})
	pastes, err = pastebin.ParseList(strings.Split(w.Body.String(), "\n"))
	require.NoError(t, err)
	assert.Len(t, pastes, 1)
}

func TestDeleteHandler(t *testing.T) {
	router := setupTestServer(t).GetRouter()
	alice := login(t, router, "alice", "secret")
	bob := login(t, router, "bob", "hunter2")
	key := createPaste(t, router, alice, "mine", "1")

	w := postForm(t, router, "/api/api_post.php", url.Values{
		"api_dev_key": {"D1"}, "api_option": {"delete"}, "api_user_key": {bob}, "api_paste_key": {key},
	})
	assert.Equal(t, msgNoRemovePerm, w.Body.String())

	w = postForm(t, router, "/api/api_post.php", url.Values{
		"api_dev_key": {"D1"}, "api_option": {"delete"}, "api_user_key": {alice}, "api_paste_key": {key},
	})
	assert.Equal(t, msgPasteRemoved, w.Body.String())
}

func TestRawHandler(t *testing.T) {
	router := setupTestServer(t).GetRouter()
	alice := login(t, router, "alice", "secret")
	bob := login(t, router, "bob", "hunter2")
	private := createPaste(t, router, alice, "secret-notes", "2")
	public := createPaste(t, router, alice, "shared", "0")

	raw := func(userKey, pasteKey, option string) string {
		return postForm(t, router, "/api/api_raw.php", url.Values{
			"api_dev_key": {"D1"}, "api_option": {option}, "api_user_key": {userKey}, "api_paste_key": {pasteKey},
		}).Body.String()
	}

	assert.Equal(t, "body of secret-notes", raw(alice, private, "show_paste"))
	assert.Equal(t, msgNoViewPerm, raw(bob, private, "show_paste"))
	assert.Equal(t, "body of shared", raw(bob, public, "show_paste"))
	assert.Equal(t, msgNoViewPerm, raw(alice, "missing", "show_paste"))
	assert.Equal(t, msgInvalidUserKey, raw("stale", private, "show_paste"))
	assert.Equal(t, msgInvalidOption, raw(alice, private, "paste"))
}

func TestPublicRawHandler(t *testing.T) {
	router := setupTestServer(t).GetRouter()
	alice := login(t, router, "alice", "secret")
	unlisted := createPaste(t, router, alice, "unlisted", "1")
	private := createPaste(t, router, alice, "private", "2")

	get := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/raw/"+key, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := get(unlisted)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body of unlisted", w.Body.String())

	w = get(private)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get("missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestServer(t).GetRouter()
	alice := login(t, router, "alice", "secret")
	createPaste(t, router, alice, "counted", "0")
	postForm(t, router, "/api/api_post.php", url.Values{"api_dev_key": {"D1"}, "api_option": {"bogus"}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "gopastebin_sandbox_paste_created_total 1")
	assert.Contains(t, body, "gopastebin_sandbox_logins_total 1")
	assert.Contains(t, body, "gopastebin_sandbox_pastes_stored 1")
	assert.Contains(t, body, `gopastebin_sandbox_requests_total{option="unknown",outcome="bad_request"} 1`)
}

func TestRenderListEscapes(t *testing.T) {
	out := RenderList([]pastebin.Paste{{Key: "K1", Title: "<&>", ExpireDate: "0", FormatShort: "text"}})

	assert.Contains(t, out, "<paste_title>&lt;&amp;&gt;</paste_title>")
	assert.True(t, strings.HasPrefix(out, "<paste>\n"))
	assert.True(t, strings.HasSuffix(out, "</paste>\n"))
}
