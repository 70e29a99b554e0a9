package client

import (
	"context"
	"net/http"
)

// User returns the name of the signed-in user.
func (c *Client) User(ctx context.Context) (string, error) {
	var out struct {
		User string `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "user", "user", nil, &out); err != nil {
		return "", err
	}
	return out.User, nil
}

// Version returns the backend version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, http.MethodGet, "version", "version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "logout", "logout", nil, nil)
}
