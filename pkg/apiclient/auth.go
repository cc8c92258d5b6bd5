package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var result TokenPair
	if err := c.do(ctx, http.MethodPost, "auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{refreshToken}

	var result TokenPair
	if err := c.do(ctx, http.MethodPost, "auth/refresh", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/logout", nil, nil)
}
