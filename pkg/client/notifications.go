package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// ListNotifications returns the authenticated account's notifications.
func (c *Client) ListNotifications(ctx context.Context, q domain.NotificationQuery) ([]domain.Notification, error) {
	params := url.Values{}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.Unread {
		params.Set("is_read", "false")
	}
	if q.Priority != "" {
		params.Set("priority", q.Priority)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}

	var notes []domain.Notification
	if err := c.get(ctx, "/notifications?"+params.Encode(), &notes); err != nil {
		return nil, fmt.Errorf("client.ListNotifications: %w", err)
	}
	return notes, nil
}

// MarkNotificationRead marks one notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) (*domain.Notification, error) {
	var n domain.Notification
	if err := c.post(ctx, "/notifications/"+strconv.Itoa(id)+"/read", nil, &n); err != nil {
		return nil, fmt.Errorf("client.MarkNotificationRead: %w", err)
	}
	return &n, nil
}

// MarkAllNotificationsRead marks every notification read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.post(ctx, "/notifications/mark-all-read", nil, nil); err != nil {
		return fmt.Errorf("client.MarkAllNotificationsRead: %w", err)
	}
	return nil
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/notifications/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteNotification: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.get(ctx, "/notifications/unread/count", &resp); err != nil {
		return 0, fmt.Errorf("client.UnreadCount: %w", err)
	}
	return resp.UnreadCount, nil
}
