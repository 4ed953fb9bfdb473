package spotify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

const (
	// DefaultCallbackPort is the loopback port registered as redirect URI.
	DefaultCallbackPort = 8974
	callbackPath        = "/callback"
)

// Scopes needed to read and control playback.
var Scopes = []string{"user-read-playback-state", "user-modify-playback-state"}

// Endpoint is the Spotify accounts service.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.spotify.com/authorize",
	TokenURL:  "https://accounts.spotify.com/api/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// AuthConfig configures the PKCE login flow.
type AuthConfig struct {
	ClientID string
	// CallbackPort is the loopback redirect port; 0 picks a free port.
	CallbackPort int
	Endpoint     oauth2.Endpoint
	// APIBaseURL overrides DefaultBaseURL for clients built by Client.
	APIBaseURL string
}

// Authenticator runs the authorization-code flow with PKCE and hands out
// clients whose tokens refresh and persist automatically.
type Authenticator struct {
	config AuthConfig
	store  *TokenStore
	logger hclog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(config AuthConfig, store *TokenStore, logger hclog.Logger) *Authenticator {
	if config.Endpoint.AuthURL == "" {
		config.Endpoint = Endpoint
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Authenticator{config: config, store: store, logger: logger}
}

func (auth *Authenticator) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    auth.config.ClientID,
		Endpoint:    auth.config.Endpoint,
		RedirectURL: redirectURL,
		Scopes:      Scopes,
	}
}

// LoggedIn reports whether a token is stored.
func (auth *Authenticator) LoggedIn() bool {
	_, err := auth.store.Load()
	return err == nil
}

// Logout forgets the stored token.
func (auth *Authenticator) Logout() error {
	return auth.store.Delete()
}

// Login opens the consent page with open and waits for the redirect on a
// loopback listener. The exchanged token is saved to the store.
func (auth *Authenticator) Login(ctx context.Context, open func(authURL string) error) error {
	if auth.config.ClientID == "" {
		return errors.New("spotify: client id is not configured")
	}

	server, err := startCallbackServer(auth.config.CallbackPort)
	if err != nil {
		return err
	}
	defer server.Shutdown()

	config := auth.oauthConfig(server.RedirectURL())
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	authURL := config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	auth.logger.Info("waiting for spotify authorization", "redirect", server.RedirectURL())
	if err := open(authURL); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case result = <-server.Results():
	}

	if result.err != "" {
		return fmt.Errorf("spotify authorization denied: %s", result.err)
	}
	if result.state != state {
		return errors.New("spotify authorization state mismatch")
	}

	token, err := config.Exchange(ctx, result.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	if err := auth.store.Save(token); err != nil {
		return err
	}
	auth.logger.Info("spotify login complete")
	return nil
}

// Client returns a playback client using the stored token.
func (auth *Authenticator) Client(ctx context.Context) (*Client, error) {
	token, err := auth.store.Load()
	if err != nil {
		return nil, err
	}
	config := auth.oauthConfig("")
	source := &savingTokenSource{
		base:   config.TokenSource(ctx, token),
		store:  auth.store,
		logger: auth.logger,
		last:   token.AccessToken,
	}
	httpClient := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, source))
	httpClient.Timeout = 10 * time.Second

	var options []ClientOption
	if auth.config.APIBaseURL != "" {
		options = append(options, WithBaseURL(auth.config.APIBaseURL))
	}
	return NewClient(httpClient, options...), nil
}

// savingTokenSource writes refreshed tokens back to the store.
type savingTokenSource struct {
	base   oauth2.TokenSource
	store  *TokenStore
	logger hclog.Logger

	mu   sync.Mutex
	last string
}

func (source *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := source.base.Token()
	if err != nil {
		return nil, err
	}
	source.mu.Lock()
	defer source.mu.Unlock()
	if token.AccessToken != source.last {
		source.last = token.AccessToken
		if err := source.store.Save(token); err != nil {
			source.logger.Warn("could not persist refreshed token", "error", err)
		}
	}
	return token, nil
}

type callbackResult struct {
	code  string
	state string
	err   string
}

// callbackServer receives the OAuth redirect on 127.0.0.1.
type callbackServer struct {
	server   *http.Server
	listener net.Listener
	results  chan callbackResult
	done     chan struct{}
}

func startCallbackServer(port int) (*callbackServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	cs := &callbackServer{
		server:   &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		listener: listener,
		results:  results,
		done:     make(chan struct{}),
	}

	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		result := callbackResult{
			code:  query.Get("code"),
			state: query.Get("state"),
			err:   query.Get("error"),
		}

		w.Header().Set("Content-Type", "text/html")
		if result.code != "" && result.err == "" {
			fmt.Fprint(w, callbackPage("Spotify connected", "You can close this window and return to pomodo."))
		} else {
			fmt.Fprint(w, callbackPage("Authorization failed", "No code received. Please try again."))
		}

		select {
		case results <- result:
		default:
		}
	})

	go func() {
		_ = cs.server.Serve(listener)
		close(cs.done)
	}()
	return cs, nil
}

func (cs *callbackServer) RedirectURL() string {
	return "http://" + cs.listener.Addr().String() + callbackPath
}

func (cs *callbackServer) Results() <-chan callbackResult {
	return cs.results
}

func (cs *callbackServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = cs.server.Shutdown(ctx)
	<-cs.done
}

func callbackPage(title, message string) string {
	return `<!DOCTYPE html>
<html>
<head><title>pomodo</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
<h1>` + title + `</h1>
<p>` + message + `</p>
</body>
</html>`
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
