package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/driveport/driveport/internal/models"
)

// CurrentUser returns the account behind the configured API key.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	resp, err := c.doRequest(ctx, "GET", "/account", nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := decode(resp, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return &user, nil
}

// MintToken requests a short-lived storage session token. The token endpoint
// may be absolute or a path relative to the platform base URL.
func (c *Client) MintToken(ctx context.Context) (*models.SessionToken, error) {
	endpoint := c.cfg.TokenEndpoint
	if endpoint == "" {
		endpoint = "/account/tokens/storage"
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid token endpoint: %w", err)
	}

	path := endpoint
	if u.IsAbs() {
		base, err := url.Parse(c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint URL: %w", err)
		}
		if u.Host != base.Host {
			return nil, fmt.Errorf("token endpoint host %q does not match platform host %q", u.Host, base.Host)
		}
		path = u.Path
	}

	resp, err := c.doRequest(ctx, "POST", path, nil)
	if err != nil {
		return nil, err
	}

	var token models.SessionToken
	if err := decode(resp, &token); err != nil {
		return nil, fmt.Errorf("failed to mint storage token: %w", err)
	}
	return &token, nil
}
