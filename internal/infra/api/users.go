package api

import (
	"context"
	"fmt"
)

// UserClient handles authentication against the order service.
type UserClient struct {
	c *Client
}

// NewUserClient creates a user client over the shared transport.
func NewUserClient(c *Client) *UserClient {
	return &UserClient{c: c}
}

// SignupInput is the registration payload.
type SignupInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	DeliveryAddress string `json:"deliveryAddress"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token.
func (uc *UserClient) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	if err := uc.c.post(ctx, "/user/login", "/user/login", body, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return resp.Token, nil
}

// Signup registers a new account and returns its token.
func (uc *UserClient) Signup(ctx context.Context, in SignupInput) (string, error) {
	var resp tokenResponse
	if err := uc.c.post(ctx, "/user/signup", "/user/signup", in, &resp); err != nil {
		return "", fmt.Errorf("signup: %w", err)
	}
	return resp.Token, nil
}
