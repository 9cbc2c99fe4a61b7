package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// GetCurrentStudent returns the student profile of the authenticated account.
func (c *Client) GetCurrentStudent(ctx context.Context) (*domain.Student, error) {
	var s domain.Student
	if err := c.get(ctx, "/students/me", &s); err != nil {
		return nil, fmt.Errorf("client.GetCurrentStudent: %w", err)
	}
	return &s, nil
}

// GetStudentBalance returns a student's account balance.
func (c *Client) GetStudentBalance(ctx context.Context, id int) (*domain.Balance, error) {
	var b domain.Balance
	if err := c.get(ctx, "/students/"+strconv.Itoa(id)+"/balance", &b); err != nil {
		return nil, fmt.Errorf("client.GetStudentBalance: %w", err)
	}
	return &b, nil
}
