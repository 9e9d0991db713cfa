package api

import (
	"context"
	"net/http"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// User is the profile served by auth/user/.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "login/", nil, credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account and returns the issued token. Field-level
// validation failures come back as *Error with Fields populated.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "register/", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// CurrentUser fetches the profile for the stored token.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "auth/user/", nil, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
