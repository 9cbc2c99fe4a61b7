package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxEvaluationLen caps the text of an evaluation, in runes.
const MaxEvaluationLen = 2000

// Evaluation is written by a student or coach after a completed session.
type Evaluation struct {
	ID            int       `json:"id"`
	CourseID      int       `json:"course_id"`
	EvaluatorID   int       `json:"evaluator_id"`
	EvaluatorType Role      `json:"evaluator_type"`
	Content       string    `json:"content"`
	Rating        *int      `json:"rating,omitempty"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at,omitempty"`
}

// Edited reports whether the evaluation was changed after it was written.
func (e Evaluation) Edited() bool {
	return !e.UpdatedAt.IsZero() && !e.UpdatedAt.Equal(e.CreatedAt.Time)
}

// EvaluationCreate is the payload for POST /evaluations. CourseID is the
// completed booking being evaluated.
type EvaluationCreate struct {
	CourseID int    `json:"course_id"`
	Content  string `json:"content"`
	Rating   *int   `json:"rating,omitempty"`
}

// Validate checks the limits the backend enforces.
func (e EvaluationCreate) Validate() error {
	if e.CourseID <= 0 {
		return errors.New("choose a session to evaluate")
	}
	if err := validateContent(e.Content); err != nil {
		return err
	}
	return validateRating(e.Rating)
}

// EvaluationUpdate is the payload for PUT /evaluations/{id}. Nil fields are left unchanged.
type EvaluationUpdate struct {
	Content *string `json:"content,omitempty"`
	Rating  *int    `json:"rating,omitempty"`
}

// EvaluationQuery filters the evaluation list.
type EvaluationQuery struct {
	CourseID      int
	EvaluatorType Role
	Skip          int
	Limit         int
}

// EvaluationSummary aggregates ratings for a coach or user.
type EvaluationSummary struct {
	TotalEvaluations   int            `json:"total_evaluations"`
	AverageRating      float64        `json:"average_rating"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	RecentEvaluations  int            `json:"recent_evaluations"`
}

// PendingEvaluation is a completed session the caller has not evaluated yet.
type PendingEvaluation struct {
	CourseID    int       `json:"course_id"`
	BookingID   int       `json:"booking_id"`
	CompletedAt Timestamp `json:"completed_at,omitempty"`
	Booking     struct {
		StartTime   Timestamp `json:"start_time"`
		EndTime     Timestamp `json:"end_time"`
		CoachName   string    `json:"coach_name,omitempty"`
		StudentName string    `json:"student_name,omitempty"`
	} `json:"booking"`
}

// Counterpart returns the other party of the session from the viewer's side.
func (p PendingEvaluation) Counterpart(viewer Role) string {
	name := p.Booking.StudentName
	if viewer == RoleStudent {
		name = p.Booking.CoachName
	}
	if name == "" {
		return "-"
	}
	return name
}

func validateContent(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("evaluation text is required")
	}
	if utf8.RuneCountInString(s) > MaxEvaluationLen {
		return errors.New("evaluation text is limited to 2000 characters")
	}
	return nil
}

func validateRating(r *int) error {
	if r != nil && (*r < 1 || *r > 5) {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}
