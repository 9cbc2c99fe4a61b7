package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// CreateEvaluation evaluates a completed session.
func (c *Client) CreateEvaluation(ctx context.Context, e domain.EvaluationCreate) (*domain.Evaluation, error) {
	var created domain.Evaluation
	if err := c.post(ctx, "/evaluations", e, &created); err != nil {
		return nil, fmt.Errorf("client.CreateEvaluation: %w", err)
	}
	return &created, nil
}

// ListEvaluations returns evaluations matching q.
func (c *Client) ListEvaluations(ctx context.Context, q domain.EvaluationQuery) ([]domain.Evaluation, error) {
	params := url.Values{}
	if q.CourseID > 0 {
		params.Set("course_id", strconv.Itoa(q.CourseID))
	}
	if q.EvaluatorType != "" {
		params.Set("evaluator_type", string(q.EvaluatorType))
	}
	setPaging(params, q.Skip, q.Limit)

	var evals []domain.Evaluation
	if err := c.get(ctx, "/evaluations?"+params.Encode(), &evals); err != nil {
		return nil, fmt.Errorf("client.ListEvaluations: %w", err)
	}
	return evals, nil
}

func (c *Client) GetEvaluation(ctx context.Context, id int) (*domain.Evaluation, error) {
	var e domain.Evaluation
	if err := c.get(ctx, "/evaluations/"+strconv.Itoa(id), &e); err != nil {
		return nil, fmt.Errorf("client.GetEvaluation: %w", err)
	}
	return &e, nil
}

func (c *Client) UpdateEvaluation(ctx context.Context, id int, u domain.EvaluationUpdate) (*domain.Evaluation, error) {
	var e domain.Evaluation
	if err := c.put(ctx, "/evaluations/"+strconv.Itoa(id), u, &e); err != nil {
		return nil, fmt.Errorf("client.UpdateEvaluation: %w", err)
	}
	return &e, nil
}

func (c *Client) DeleteEvaluation(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/evaluations/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteEvaluation: %w", err)
	}
	return nil
}

// CourseEvaluations returns every evaluation of one session.
func (c *Client) CourseEvaluations(ctx context.Context, courseID int) ([]domain.Evaluation, error) {
	var evals []domain.Evaluation
	if err := c.get(ctx, "/evaluations/course/"+strconv.Itoa(courseID), &evals); err != nil {
		return nil, fmt.Errorf("client.CourseEvaluations: %w", err)
	}
	return evals, nil
}

// PendingEvaluations returns the caller's completed sessions still awaiting an evaluation.
func (c *Client) PendingEvaluations(ctx context.Context) ([]domain.PendingEvaluation, error) {
	var pending []domain.PendingEvaluation
	if err := c.get(ctx, "/evaluations/pending/my", &pending); err != nil {
		return nil, fmt.Errorf("client.PendingEvaluations: %w", err)
	}
	return pending, nil
}

// CoachEvaluationSummary aggregates the ratings a coach has received.
func (c *Client) CoachEvaluationSummary(ctx context.Context, coachID int) (*domain.EvaluationSummary, error) {
	var sum domain.EvaluationSummary
	if err := c.get(ctx, "/evaluations/coach/"+strconv.Itoa(coachID)+"/summary", &sum); err != nil {
		return nil, fmt.Errorf("client.CoachEvaluationSummary: %w", err)
	}
	return &sum, nil
}
