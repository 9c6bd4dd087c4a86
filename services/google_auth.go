package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"main/config"
)

// GoogleIdentity is the subset of the tokeninfo response the app uses.
type GoogleIdentity struct {
	Subject     string `json:"sub"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	PhotoURL    string `json:"picture"`
	Audience    string `json:"aud"`
}

// GoogleVerifier validates Google ID tokens. The HTTP implementation calls
// the tokeninfo endpoint; tests substitute a fake.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

type googleTokenVerifier struct {
	cfg    config.AuthConfig
	client *http.Client
}

func NewGoogleVerifier(cfg config.AuthConfig) GoogleVerifier {
	return &googleTokenVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *googleTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	endpoint := v.cfg.GoogleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google rejected the token (status %d)", resp.StatusCode)
	}

	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if identity.Subject == "" {
		return nil, fmt.Errorf("tokeninfo response missing subject")
	}
	if v.cfg.GoogleClientID != "" && identity.Audience != v.cfg.GoogleClientID {
		return nil, fmt.Errorf("token issued for a different client")
	}
	return &identity, nil
}
