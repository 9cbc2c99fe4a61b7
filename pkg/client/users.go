package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// UserQuery filters the admin user list.
type UserQuery struct {
	Username string
	RealName string
	Role     domain.Role
	Skip     int
	Limit    int
}

// ListUsers returns accounts visible to the calling admin.
func (c *Client) ListUsers(ctx context.Context, q UserQuery) ([]domain.User, error) {
	params := url.Values{}
	if q.Username != "" {
		params.Set("username", q.Username)
	}
	if q.RealName != "" {
		params.Set("real_name", q.RealName)
	}
	if q.Role != "" {
		params.Set("role", string(q.Role))
	}
	setPaging(params, q.Skip, q.Limit)

	var users []domain.User
	if err := c.get(ctx, "/users/?"+params.Encode(), &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// GetUser fetches a single account by ID.
func (c *Client) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/users/"+strconv.Itoa(id), &u); err != nil {
		return nil, fmt.Errorf("client.GetUser: %w", err)
	}
	return &u, nil
}

// UpdateUser edits another account.
func (c *Client) UpdateUser(ctx context.Context, id int, update domain.AdminUserUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.put(ctx, "/users/"+strconv.Itoa(id), update, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateUser: %w", err)
	}
	return &u, nil
}

// ToggleUserStatus flips an account between active and disabled.
func (c *Client) ToggleUserStatus(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodPatch, "/users/"+strconv.Itoa(id)+"/toggle-status", nil, nil); err != nil {
		return fmt.Errorf("client.ToggleUserStatus: %w", err)
	}
	return nil
}

// ResetUserPassword resets an account's password to the backend default.
func (c *Client) ResetUserPassword(ctx context.Context, id int) error {
	if err := c.post(ctx, "/users/"+strconv.Itoa(id)+"/reset-password", nil, nil); err != nil {
		return fmt.Errorf("client.ResetUserPassword: %w", err)
	}
	return nil
}

// DeactivateUser disables an account.
func (c *Client) DeactivateUser(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeactivateUser: %w", err)
	}
	return nil
}

// UpdateUserCampus moves an account to another campus; nil clears the assignment.
func (c *Client) UpdateUserCampus(ctx context.Context, id int, campusID *int) error {
	body := map[string]*int{"campus_id": campusID}
	if err := c.doRequest(ctx, http.MethodPatch, "/users/"+strconv.Itoa(id)+"/campus", body, nil); err != nil {
		return fmt.Errorf("client.UpdateUserCampus: %w", err)
	}
	return nil
}

func setPaging(params url.Values, skip, limit int) {
	if skip > 0 {
		params.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
}
