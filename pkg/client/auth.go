package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// Login exchanges credentials for an access token and the account record.
func (c *Client) Login(ctx context.Context, form domain.LoginForm) (*domain.AuthToken, error) {
	var tok domain.AuthToken
	if err := c.postAnonymous(ctx, "/auth/login", form, &tok); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tok, nil
}

// RegisterStudent creates a student account.
func (c *Client) RegisterStudent(ctx context.Context, form domain.RegisterForm) (*domain.User, error) {
	var u domain.User
	if err := c.postAnonymous(ctx, "/auth/register/student", form, &u); err != nil {
		return nil, fmt.Errorf("client.RegisterStudent: %w", err)
	}
	return &u, nil
}

// RegisterCoach creates a coach account pending admin approval.
func (c *Client) RegisterCoach(ctx context.Context, form domain.RegisterForm) (*domain.User, error) {
	var u domain.User
	if err := c.postAnonymous(ctx, "/auth/register/coach", form, &u); err != nil {
		return nil, fmt.Errorf("client.RegisterCoach: %w", err)
	}
	return &u, nil
}

// GetCurrentUser returns the canonical record of the authenticated account.
func (c *Client) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/users/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetCurrentUser: %w", err)
	}
	return &u, nil
}

// UpdateCurrentUser applies a partial profile update and returns the canonical record.
func (c *Client) UpdateCurrentUser(ctx context.Context, update domain.UserUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.put(ctx, "/users/me", update, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateCurrentUser: %w", err)
	}
	return &u, nil
}

// ChangePassword changes the authenticated account's password. The backend
// invalidates outstanding tokens on success.
func (c *Client) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	if err := c.post(ctx, "/users/change-password", change, nil); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}
