package domain

// RelationStatus is the state of a student's application to a coach.
type RelationStatus string

const (
	RelationPending  RelationStatus = "pending"
	RelationApproved RelationStatus = "approved"
	RelationRejected RelationStatus = "rejected"
	RelationExpired  RelationStatus = "expired"
)

// MaxCoachesPerStudent is how many coaches a student may train with at once.
const MaxCoachesPerStudent = 2

// CoachStudent links a student to a coach once the coach approves the application.
type CoachStudent struct {
	ID                 int            `json:"id"`
	CoachID            int            `json:"coach_id"`
	StudentID          int            `json:"student_id"`
	Status             RelationStatus `json:"status"`
	ApplicationMessage string         `json:"application_message,omitempty"`
	ResponseMessage    string         `json:"response_message,omitempty"`
	AppliedAt          Timestamp      `json:"applied_at,omitempty"`
	ApprovedAt         Timestamp      `json:"approved_at,omitempty"`
	CreatedAt          Timestamp      `json:"created_at"`
	UpdatedAt          Timestamp      `json:"updated_at,omitempty"`

	Coach   *Coach   `json:"coach,omitempty"`
	Student *Student `json:"student,omitempty"`
}

// CoachStudentCreate is a student's application to train with a coach.
type CoachStudentCreate struct {
	CoachID            int    `json:"coach_id"`
	ApplicationMessage string `json:"application_message,omitempty"`
}

// RelationApproval is the coach's answer to an application.
type RelationApproval struct {
	Approved        bool   `json:"approved"`
	ResponseMessage string `json:"response_message,omitempty"`
}

// CoachChange asks to move from one coach to another.
type CoachChange struct {
	CurrentCoachID int    `json:"current_coach_id"`
	NewCoachID     int    `json:"new_coach_id"`
	Reason         string `json:"reason"`
}
