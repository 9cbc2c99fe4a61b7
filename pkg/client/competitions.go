package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// ListCompetitions returns competitions, optionally filtered by campus and status.
func (c *Client) ListCompetitions(ctx context.Context, campusID int, status string, skip, limit int) ([]domain.Competition, error) {
	params := url.Values{}
	if campusID > 0 {
		params.Set("campus_id", strconv.Itoa(campusID))
	}
	if status != "" {
		params.Set("status", status)
	}
	setPaging(params, skip, limit)

	var comps []domain.Competition
	if err := c.get(ctx, "/competitions?"+params.Encode(), &comps); err != nil {
		return nil, fmt.Errorf("client.ListCompetitions: %w", err)
	}
	return comps, nil
}

// GetCompetition fetches a single competition.
func (c *Client) GetCompetition(ctx context.Context, id int) (*domain.Competition, error) {
	var comp domain.Competition
	if err := c.get(ctx, "/competitions/"+strconv.Itoa(id), &comp); err != nil {
		return nil, fmt.Errorf("client.GetCompetition: %w", err)
	}
	return &comp, nil
}

// RegisterForCompetition enters the authenticated student into a group.
func (c *Client) RegisterForCompetition(ctx context.Context, id int, groupType string) (*domain.CompetitionRegistration, error) {
	params := url.Values{}
	params.Set("group_type", groupType)

	var reg domain.CompetitionRegistration
	if err := c.post(ctx, "/competitions/"+strconv.Itoa(id)+"/register?"+params.Encode(), nil, &reg); err != nil {
		return nil, fmt.Errorf("client.RegisterForCompetition: %w", err)
	}
	return &reg, nil
}
