package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// ApplyCoach submits the signed-in student's application to train with a coach.
func (c *Client) ApplyCoach(ctx context.Context, a domain.CoachStudentCreate) (*domain.CoachStudent, error) {
	var rel domain.CoachStudent
	if err := c.post(ctx, "/coach-students", a, &rel); err != nil {
		return nil, fmt.Errorf("client.ApplyCoach: %w", err)
	}
	return &rel, nil
}

// MyCoaches lists the signed-in student's coach relations, filtered by status when set.
func (c *Client) MyCoaches(ctx context.Context, status domain.RelationStatus) ([]domain.CoachStudent, error) {
	return c.listRelations(ctx, "client.MyCoaches", "/coach-students/my-coaches", status, 0, 0)
}

// MyStudents lists the signed-in coach's student relations.
func (c *Client) MyStudents(ctx context.Context, status domain.RelationStatus) ([]domain.CoachStudent, error) {
	return c.listRelations(ctx, "client.MyStudents", "/coach-students/my-students", status, 0, 0)
}

// PendingApplications lists applications awaiting the signed-in coach.
func (c *Client) PendingApplications(ctx context.Context, skip, limit int) ([]domain.CoachStudent, error) {
	return c.listRelations(ctx, "client.PendingApplications", "/coach-students/pending-approvals", "", skip, limit)
}

func (c *Client) listRelations(ctx context.Context, op, path string, status domain.RelationStatus, skip, limit int) ([]domain.CoachStudent, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", string(status))
	}
	setPaging(params, skip, limit)

	var rels []domain.CoachStudent
	if err := c.get(ctx, path+"?"+params.Encode(), &rels); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rels, nil
}

// AnswerApplication approves or rejects a student's application.
func (c *Client) AnswerApplication(ctx context.Context, relationID int, a domain.RelationApproval) (*domain.CoachStudent, error) {
	var rel domain.CoachStudent
	if err := c.put(ctx, "/coach-students/"+strconv.Itoa(relationID)+"/approve", a, &rel); err != nil {
		return nil, fmt.Errorf("client.AnswerApplication: %w", err)
	}
	return &rel, nil
}

// ChangeCoach asks to move from the current coach to a new one.
func (c *Client) ChangeCoach(ctx context.Context, ch domain.CoachChange) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/coach-students/change-coach", ch, &out); err != nil {
		return "", fmt.Errorf("client.ChangeCoach: %w", err)
	}
	return out.Message, nil
}

func (c *Client) RemoveCoachRelation(ctx context.Context, relationID int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/coach-students/"+strconv.Itoa(relationID), nil, nil); err != nil {
		return fmt.Errorf("client.RemoveCoachRelation: %w", err)
	}
	return nil
}
