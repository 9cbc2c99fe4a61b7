package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// CreateComment rates a booked session.
func (c *Client) CreateComment(ctx context.Context, cc domain.CommentCreate) (*domain.Comment, error) {
	var created domain.Comment
	if err := c.post(ctx, "/comments/", cc, &created); err != nil {
		return nil, fmt.Errorf("client.CreateComment: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateComment(ctx context.Context, id int, u domain.CommentUpdate) (*domain.Comment, error) {
	var cm domain.Comment
	if err := c.put(ctx, "/comments/"+strconv.Itoa(id), u, &cm); err != nil {
		return nil, fmt.Errorf("client.UpdateComment: %w", err)
	}
	return &cm, nil
}

func (c *Client) DeleteComment(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/comments/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteComment: %w", err)
	}
	return nil
}

// CoachComments lists the comments left for a coach, newest first.
func (c *Client) CoachComments(ctx context.Context, coachID, skip, limit int) ([]domain.Comment, error) {
	params := url.Values{}
	setPaging(params, skip, limit)

	var comments []domain.Comment
	if err := c.get(ctx, "/comments/coach/"+strconv.Itoa(coachID)+"?"+params.Encode(), &comments); err != nil {
		return nil, fmt.Errorf("client.CoachComments: %w", err)
	}
	return comments, nil
}

// MyComments lists the comments the signed-in student has written.
func (c *Client) MyComments(ctx context.Context, skip, limit int) ([]domain.Comment, error) {
	params := url.Values{}
	setPaging(params, skip, limit)

	var comments []domain.Comment
	if err := c.get(ctx, "/comments/my/comments?"+params.Encode(), &comments); err != nil {
		return nil, fmt.Errorf("client.MyComments: %w", err)
	}
	return comments, nil
}

func (c *Client) CoachCommentStats(ctx context.Context, coachID int) (*domain.CoachCommentStats, error) {
	var stats domain.CoachCommentStats
	if err := c.get(ctx, "/comments/coach/"+strconv.Itoa(coachID)+"/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.CoachCommentStats: %w", err)
	}
	return &stats, nil
}

// BookingComment returns the comment on a booking. A booking without one is a 404.
func (c *Client) BookingComment(ctx context.Context, bookingID int) (*domain.Comment, error) {
	var cm domain.Comment
	if err := c.get(ctx, "/comments/booking/"+strconv.Itoa(bookingID), &cm); err != nil {
		return nil, fmt.Errorf("client.BookingComment: %w", err)
	}
	return &cm, nil
}
