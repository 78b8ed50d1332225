package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// ErrAuthTimeout is returned when the browser flow is not completed in time.
var ErrAuthTimeout = errors.New("authentication timeout")

// OAuth2Config holds the settings for the interactive OAuth2 flow.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	// TokenFile is where the obtained token is saved. Empty skips saving.
	TokenFile string
	// ListenAddr is the local callback address, e.g. "127.0.0.1:8085".
	ListenAddr string
	Timeout    time.Duration
}

func oauthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// AuthenticateOAuth2Interactive runs the browser consent flow and returns a
// token carrying a refresh token. openURL is called with the consent URL.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config, openURL func(string)) (*oauth2.Token, error) {
	if config.ListenAddr == "" {
		config.ListenAddr = "127.0.0.1:8085"
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}

	listener, err := net.Listen("tcp", config.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	redirectURL := fmt.Sprintf("http://%s/callback", listener.Addr().String())
	cfg := oauthConfig(config.ClientID, config.ClientSecret, redirectURL)
	state := uuid.NewString()

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeChan, errorChan))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorChan <- fmt.Errorf("callback server failed: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	if openURL != nil {
		openURL(authURL)
	}
	slog.Info("Waiting for Google authentication", "callback", redirectURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(config.Timeout):
		return nil, fmt.Errorf("%w: no response within %s", ErrAuthTimeout, config.Timeout)
	}

	token, err := cfg.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		}
	}

	return token, nil
}

func callbackHandler(state string, codeChan chan<- string, errorChan chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		code := query.Get("code")
		if code == "" {
			select {
			case errorChan <- fmt.Errorf("no authorization code received"):
			default:
			}
			http.Error(w, "Falha na autenticação. Tente novamente.", http.StatusBadRequest)
			return
		}

		select {
		case codeChan <- code:
		default:
		}
		_, _ = fmt.Fprint(w, `<html><body><h1>Autenticação concluída</h1><p>Você já pode fechar esta janela.</p></body></html>`)
	}
}

// LoadToken loads a token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// saveToken saves a token to file.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}
