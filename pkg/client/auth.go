package client

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// MinPasswordLength is the shortest new password accepted by ResetPassword.
const MinPasswordLength = 8

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges a username (or email) and password for a credential and identity.
// Empty input fails with ErrValidation before any request is sent. A response
// without a token, person or nested user fails with ErrProtocol.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, validationError("username and password are required")
	}

	var resp domain.AuthResponse
	if err := c.post(ctx, "/api/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, failure(ErrAuthentication, err)
	}
	if resp.Token == "" || resp.Person == nil || resp.Person.User == nil {
		return nil, &Error{Kind: ErrProtocol, Message: "invalid server response"}
	}
	if resp.TokenType == "" {
		resp.TokenType = DefaultScheme
	}
	return &resp, nil
}

// ForgotPassword asks the backend to send a reset link to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return validationError("email is required")
	}
	if err := c.post(ctx, "/api/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		return failure(ErrRequest, err)
	}
	return nil
}

// ResetPassword sets a new password using the token from the reset email.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return validationError("reset token is required")
	}
	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return validationError("new password must be at least 8 characters")
	}
	body := map[string]string{"token": token, "newPassword": newPassword}
	if err := c.post(ctx, "/api/auth/reset-password", body, nil); err != nil {
		return failure(ErrRequest, err)
	}
	return nil
}
