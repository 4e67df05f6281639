// Package identity resolves external credentials to a stable identity. The
// only provider today is Google sign-in via the tokeninfo endpoint.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Doubts_Clearance/internal/apperr"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Identity is what the provider asserts about the caller.
type Identity struct {
	Subject string // provider-stable user id
	Email   string
	Name    string
}

// Resolver turns a raw credential into an Identity.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (*Identity, error)
}

// GoogleResolver validates Google ID tokens against the tokeninfo endpoint
// and enforces the configured OAuth client id.
type GoogleResolver struct {
	ClientID string
	HTTP     *http.Client

	endpoint string // overridden in tests
}

func NewGoogleResolver(clientID string) *GoogleResolver {
	return &GoogleResolver{
		ClientID: clientID,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
		endpoint: tokenInfoURL,
	}
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

func (g *GoogleResolver) Resolve(ctx context.Context, credential string) (*Identity, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, apperr.Validation("credential required")
	}

	u := g.endpoint + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperr.Upstream("identity provider request", err)
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return nil, apperr.Upstream("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, apperr.Forbidden("invalid google credential")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream("identity provider", fmt.Errorf("status %d", resp.StatusCode))
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperr.Upstream("identity provider response", err)
	}
	if info.Aud != g.ClientID {
		return nil, apperr.Forbidden("credential issued for another application")
	}
	if info.EmailVerified != "true" || info.Email == "" {
		return nil, apperr.Forbidden("unverified google account")
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	return &Identity{Subject: info.Sub, Email: strings.ToLower(info.Email), Name: name}, nil
}
