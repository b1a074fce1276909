// Package identity exchanges a Google-auth session id for the profile
// it belongs to, via the external session-data endpoint.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Verifier calls the provider's session-data endpoint with the session
// id in the X-Session-ID header.
type Verifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

func NewVerifier(url string, logger zerolog.Logger) *Verifier {
	return &Verifier{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger.With().Str("component", "identity_verifier").Logger(),
	}
}

type sessionData struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (v *Verifier) Verify(ctx context.Context, sessionID string) (*ports.IdentityClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url+"/session-data", nil)
	if err != nil {
		return nil, fmt.Errorf("build session-data request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error().Err(err).Msg("identity provider unreachable")
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Warn().Int("status", resp.StatusCode).Msg("identity provider rejected session id")
		return nil, domain.ErrIdentityRejected
	}

	var data sessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode session data: %v", domain.ErrIdentityUnavailable, err)
	}

	return &ports.IdentityClaims{
		Subject: data.ID,
		Email:   data.Email,
		Name:    data.Name,
		Picture: data.Picture,
	}, nil
}
