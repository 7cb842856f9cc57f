// Package googleauth builds authenticated HTTP clients for the Google APIs
// (Sheets, Gmail) from an OAuth installed-app credential. The first run
// walks the user through browser consent; after that the cached token is
// refreshed silently and rewritten whenever Google rotates it.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Client returns an HTTP client carrying a valid OAuth token for scopes.
func Client(ctx context.Context, credentialsPath, tokenPath string, log *zap.Logger, scopes ...string) (*http.Client, error) {
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading credentials %s: %w", credentialsPath, err)
	}

	conf, err := google.ConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		log.Info("no cached token, starting consent flow", zap.String("path", tokenPath))
		tok, err = tokenFromConsent(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}

	src := &persistingTokenSource{
		src:  conf.TokenSource(ctx, tok),
		path: tokenPath,
		last: tok.AccessToken,
		log:  log,
	}
	return oauth2.NewClient(ctx, src), nil
}

// tokenFromConsent runs the manual copy-paste consent flow: the user opens
// the printed URL, approves, and pastes the code back.
func tokenFromConsent(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	url := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following URL in your browser, approve access, then paste the code here:\n%s\n\nCode: ", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decoding token %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("saving token %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// persistingTokenSource writes refreshed tokens back to disk so later runs
// skip the consent flow even after the access token expires.
type persistingTokenSource struct {
	src  oauth2.TokenSource
	path string
	last string
	log  *zap.Logger
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := saveToken(p.path, tok); err != nil {
			p.log.Warn("could not persist refreshed token", zap.Error(err))
		}
	}
	return tok, nil
}
