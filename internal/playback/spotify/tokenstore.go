package spotify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

const tokenFileName = "spotify-token.yaml"

// TokenStore persists the OAuth token in a private YAML file.
type TokenStore struct {
	path string
}

type storedToken struct {
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
	TokenType    string `yaml:"token_type"`
	Expiry       string `yaml:"expiry,omitempty"`
}

// NewTokenStore creates a store backed by the file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultTokenStore returns the store under the user config directory.
func DefaultTokenStore() (*TokenStore, error) {
	path, err := xdg.ConfigFile(filepath.Join("pomodo", tokenFileName))
	if err != nil {
		return nil, fmt.Errorf("resolve token path: %w", err)
	}
	return NewTokenStore(path), nil
}

// Path returns the backing file path.
func (store *TokenStore) Path() string {
	return store.path
}

// Load reads the stored token. It returns ErrNotLoggedIn when none exists.
func (store *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read token: %w", err)
	}

	var stored storedToken
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if stored.AccessToken == "" && stored.RefreshToken == "" {
		return nil, ErrNotLoggedIn
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
	}
	if stored.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, stored.Expiry)
		if err != nil {
			return nil, fmt.Errorf("parse token expiry: %w", err)
		}
		token.Expiry = expiry
	}
	return token, nil
}

// Save writes the token with owner-only permissions.
func (store *TokenStore) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("save token: nil token")
	}
	stored := storedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}
	if !token.Expiry.IsZero() {
		stored.Expiry = token.Expiry.UTC().Format(time.RFC3339)
	}

	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmp, store.path); err != nil {
		return fmt.Errorf("replace token: %w", err)
	}
	return nil
}

// Delete removes the stored token. A missing file is not an error.
func (store *TokenStore) Delete() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
