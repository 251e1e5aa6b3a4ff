package api

import (
	"context"
	"errors"
	"net/http"
)

var ErrNoToken = errors.New("login response carried no token")

type Confirmation struct {
	Message string `json:"message"`
}

type AuthService struct {
	client *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

// Login exchanges credentials for a token and stores it in the client session.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := a.client.Do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return "", ErrNoToken
	}
	a.client.Session().Set(token)
	return token, nil
}

func (a *AuthService) Register(ctx context.Context, username, email, password string) (Confirmation, error) {
	var c Confirmation
	body := map[string]string{"username": username, "email": email, "password": password}
	err := a.client.Do(ctx, http.MethodPost, "/auth/register", body, &c)
	return c, err
}

// Logout discards the local token. The collaborator is not contacted.
func (a *AuthService) Logout() {
	a.client.Session().Clear()
}
