package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// referenceTTL is how long campus reference data is served from memory.
const referenceTTL = 5 * time.Minute

const mainCampusKey = "campus:main"

// ListCampuses returns campuses, optionally filtered by name. Results are cached.
func (c *Client) ListCampuses(ctx context.Context, name string, skip, limit int) ([]domain.Campus, error) {
	params := url.Values{}
	if name != "" {
		params.Set("name", name)
	}
	setPaging(params, skip, limit)
	path := "/campus?" + params.Encode()

	if cached, ok := c.refCache.Get(path); ok {
		if campuses, ok := cached.([]domain.Campus); ok {
			return campuses, nil
		}
	}

	var campuses []domain.Campus
	if err := c.get(ctx, path, &campuses); err != nil {
		return nil, fmt.Errorf("client.ListCampuses: %w", err)
	}
	c.refCache.SetDefault(path, campuses)
	return campuses, nil
}

// GetCampus fetches a single campus by ID.
func (c *Client) GetCampus(ctx context.Context, id int) (*domain.Campus, error) {
	var campus domain.Campus
	if err := c.get(ctx, "/campus/"+strconv.Itoa(id), &campus); err != nil {
		return nil, fmt.Errorf("client.GetCampus: %w", err)
	}
	return &campus, nil
}

// GetMainCampus returns the main campus. The result is cached.
func (c *Client) GetMainCampus(ctx context.Context) (*domain.Campus, error) {
	if cached, ok := c.refCache.Get(mainCampusKey); ok {
		if campus, ok := cached.(domain.Campus); ok {
			return &campus, nil
		}
	}
	var campus domain.Campus
	if err := c.get(ctx, "/campus/main", &campus); err != nil {
		return nil, fmt.Errorf("client.GetMainCampus: %w", err)
	}
	c.refCache.SetDefault(mainCampusKey, campus)
	return &campus, nil
}

// CreateCampus creates a campus.
func (c *Client) CreateCampus(ctx context.Context, in domain.CampusInput) (*domain.Campus, error) {
	var campus domain.Campus
	if err := c.post(ctx, "/campus", in, &campus); err != nil {
		return nil, fmt.Errorf("client.CreateCampus: %w", err)
	}
	c.refCache.Flush()
	return &campus, nil
}

// UpdateCampus edits a campus.
func (c *Client) UpdateCampus(ctx context.Context, id int, in domain.CampusInput) (*domain.Campus, error) {
	var campus domain.Campus
	if err := c.put(ctx, "/campus/"+strconv.Itoa(id), in, &campus); err != nil {
		return nil, fmt.Errorf("client.UpdateCampus: %w", err)
	}
	c.refCache.Flush()
	return &campus, nil
}

// DeleteCampus removes a campus.
func (c *Client) DeleteCampus(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/campus/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCampus: %w", err)
	}
	c.refCache.Flush()
	return nil
}

// AssignCampusAdmin makes adminID the administrator of campusID.
func (c *Client) AssignCampusAdmin(ctx context.Context, campusID, adminID int) error {
	path := fmt.Sprintf("/campus/%d/assign-admin/%d", campusID, adminID)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("client.AssignCampusAdmin: %w", err)
	}
	c.refCache.Flush()
	return nil
}
