package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	bookshelf "github.com/ideamans/go-bookshelf"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
)

// ServiceAccountKey holds the fields of a service account JSON key the
// backend signs tokens with
type ServiceAccountKey struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// Credentials select how the backend authenticates. The first non-empty
// source wins: KeyJSON, KeyFile, Email+PrivateKey, then Application
// Default Credentials.
type Credentials struct {
	KeyFile    string
	KeyJSON    []byte
	Email      string
	PrivateKey string

	// Options are appended to the client options, e.g. a custom endpoint
	Options []option.ClientOption
}

// Authenticate implements bookshelf.Authenticator
func (c Credentials) Authenticate(ctx context.Context) (bookshelf.Backend, error) {
	tokenSource, err := c.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	b, err := NewBackend(ctx, append([]option.ClientOption{option.WithTokenSource(tokenSource)}, c.Options...)...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// TokenSource resolves the selected credential source. Keys are
// validated here, so a malformed key fails before any request is made.
func (c Credentials) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	switch {
	case len(c.KeyJSON) > 0:
		return CreateTokenSource(ctx, c.KeyJSON)
	case c.KeyFile != "":
		return CreateTokenSource(ctx, c.KeyFile)
	case c.Email != "" || c.PrivateKey != "":
		if c.Email == "" || c.PrivateKey == "" {
			return nil, errors.New("both email and private key are required")
		}
		return CreateTokenSource(ctx, &ServiceAccountKey{
			Type:        "service_account",
			ClientEmail: c.Email,
			PrivateKey:  c.PrivateKey,
		})
	}

	// GOOGLE_APPLICATION_CREDENTIALS, gcloud application-default
	// credentials, then the GCE metadata service
	tokenSource, err := google.DefaultTokenSource(ctx, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}
	return tokenSource, nil
}

// ParseServiceAccountJSON parses a service account JSON key
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing required fields in service account key")
	}

	return &key, nil
}

// CreateTokenSource creates an oauth2.TokenSource from a key file path,
// raw JSON or a parsed *ServiceAccountKey
func CreateTokenSource(ctx context.Context, credentials interface{}) (oauth2.TokenSource, error) {
	switch cred := credentials.(type) {
	case string:
		jsonData, err := os.ReadFile(cred)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return CreateTokenSource(ctx, jsonData)
	case []byte:
		key, err := ParseServiceAccountJSON(cred)
		if err != nil {
			return nil, err
		}
		return CreateTokenSource(ctx, key)
	case *ServiceAccountKey:
		return serviceAccountConfig(cred).TokenSource(ctx), nil
	default:
		return nil, fmt.Errorf("unsupported credential type: %T", credentials)
	}
}

func serviceAccountConfig(key *ServiceAccountKey) *jwt.Config {
	tokenURL := key.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	return &jwt.Config{
		Email:        key.ClientEmail,
		PrivateKey:   []byte(key.PrivateKey),
		PrivateKeyID: key.PrivateKeyID,
		Scopes:       Scopes,
		TokenURL:     tokenURL,
	}
}
