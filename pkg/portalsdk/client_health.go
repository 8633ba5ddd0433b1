package portalsdk

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/barangay/pkg/jwtx"
)

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/livez", nil, http.StatusOK)
}

// GetReadiness returns an *APIError with status 503 when a dependency is down.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/readyz", nil, http.StatusOK)
}

// GetJWKS fetches the token verification keys.
func (c *Client) GetJWKS(ctx context.Context) (*jwtx.JWKS, error) {
	return call[jwtx.JWKS](ctx, c, http.MethodGet, "/.well-known/jwks.json", nil, http.StatusOK)
}
