package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		assert.NotEmpty(t, r.PostForm.Get("code_verifier"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAuthenticator(t *testing.T, tokenURL string) (*Authenticator, *TokenStore) {
	t.Helper()
	store := NewTokenStore(filepath.Join(t.TempDir(), tokenFileName))
	auth := NewAuthenticator(AuthConfig{
		ClientID: "client-1",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.test/authorize",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, store, nil)
	return auth, store
}

// redirectTo plays the browser: it calls the loopback redirect directly.
// It runs on its own goroutine, so it only uses assert.
func redirectTo(t *testing.T, authURL, code, overrideState string) {
	parsed, err := url.Parse(authURL)
	if !assert.NoError(t, err) {
		return
	}
	query := parsed.Query()
	assert.Equal(t, "S256", query.Get("code_challenge_method"))
	assert.NotEmpty(t, query.Get("code_challenge"))
	assert.Equal(t, "user-read-playback-state user-modify-playback-state", query.Get("scope"))

	state := query.Get("state")
	if overrideState != "" {
		state = overrideState
	}
	callback := query.Get("redirect_uri") + "?" + url.Values{"code": {code}, "state": {state}}.Encode()
	resp, err := http.Get(callback)
	if assert.NoError(t, err) {
		resp.Body.Close()
	}
}

func TestAuthenticator_LoginStoresToken(t *testing.T) {
	tokenServer := newTokenServer(t)
	auth, store := newTestAuthenticator(t, tokenServer.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := auth.Login(ctx, func(authURL string) error {
		go redirectTo(t, authURL, "the-code", "")
		return nil
	})
	require.NoError(t, err)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken)
	assert.True(t, auth.LoggedIn())

	require.NoError(t, auth.Logout())
	assert.False(t, auth.LoggedIn())
}

func TestAuthenticator_LoginRejectsStateMismatch(t *testing.T) {
	tokenServer := newTokenServer(t)
	auth, _ := newTestAuthenticator(t, tokenServer.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := auth.Login(ctx, func(authURL string) error {
		go redirectTo(t, authURL, "the-code", "forged")
		return nil
	})

	assert.ErrorContains(t, err, "state mismatch")
	assert.False(t, auth.LoggedIn())
}

func TestAuthenticator_LoginHonorsContext(t *testing.T) {
	auth, _ := newTestAuthenticator(t, "http://127.0.0.1:1/token")
	ctx, cancel := context.WithCancel(context.Background())

	err := auth.Login(ctx, func(string) error {
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuthenticator_ClientNeedsLogin(t *testing.T) {
	auth, _ := newTestAuthenticator(t, "http://127.0.0.1:1/token")

	_, err := auth.Client(context.Background())

	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestAuthenticator_ClientSendsBearerToken(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer api.Close()

	auth, store := newTestAuthenticator(t, "http://127.0.0.1:1/token")
	auth.config.APIBaseURL = api.URL
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken: "access-1",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	client, err := auth.Client(context.Background())
	require.NoError(t, err)
	assert.NoError(t, client.Play(context.Background()))
}
