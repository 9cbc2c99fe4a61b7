package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// ListCoaches returns approved coaches, optionally filtered by campus and level.
func (c *Client) ListCoaches(ctx context.Context, q domain.CoachQuery) ([]domain.Coach, error) {
	params := url.Values{}
	if q.CampusID > 0 {
		params.Set("campus_id", strconv.Itoa(q.CampusID))
	}
	if q.Level != "" {
		params.Set("level", string(q.Level))
	}
	setPaging(params, q.Skip, q.Limit)

	var coaches []domain.Coach
	if err := c.get(ctx, "/coaches?"+params.Encode(), &coaches); err != nil {
		return nil, fmt.Errorf("client.ListCoaches: %w", err)
	}
	return coaches, nil
}

// SearchCoaches searches coaches by name, gender and campus.
func (c *Client) SearchCoaches(ctx context.Context, q domain.CoachQuery) ([]domain.Coach, error) {
	params := url.Values{}
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Gender != "" {
		params.Set("gender", q.Gender)
	}
	if q.CampusID > 0 {
		params.Set("campus_id", strconv.Itoa(q.CampusID))
	}

	var coaches []domain.Coach
	if err := c.get(ctx, "/coaches/search?"+params.Encode(), &coaches); err != nil {
		return nil, fmt.Errorf("client.SearchCoaches: %w", err)
	}
	return coaches, nil
}

// GetCoach fetches a single coach profile.
func (c *Client) GetCoach(ctx context.Context, id int) (*domain.Coach, error) {
	var coach domain.Coach
	if err := c.get(ctx, "/coaches/"+strconv.Itoa(id), &coach); err != nil {
		return nil, fmt.Errorf("client.GetCoach: %w", err)
	}
	return &coach, nil
}

// ApproveCoach approves or rejects a pending coach registration.
func (c *Client) ApproveCoach(ctx context.Context, id int, approved bool) error {
	if err := c.post(ctx, "/coaches/"+strconv.Itoa(id)+"/approve", map[string]bool{"approved": approved}, nil); err != nil {
		return fmt.Errorf("client.ApproveCoach: %w", err)
	}
	return nil
}

// GetMyStudents returns the students of the authenticated coach.
func (c *Client) GetMyStudents(ctx context.Context) ([]domain.Student, error) {
	var students []domain.Student
	if err := c.get(ctx, "/coaches/my-students", &students); err != nil {
		return nil, fmt.Errorf("client.GetMyStudents: %w", err)
	}
	return students, nil
}
