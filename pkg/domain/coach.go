package domain

// CoachLevel grades coaches and drives their hourly rate.
type CoachLevel string

const (
	CoachSenior       CoachLevel = "senior"
	CoachIntermediate CoachLevel = "intermediate"
	CoachJunior       CoachLevel = "junior"
)

// Coach is the coaching profile attached to a coach account.
type Coach struct {
	ID              int        `json:"id"`
	UserID          int        `json:"user_id"`
	Level           CoachLevel `json:"level"`
	HourlyRate      float64    `json:"hourly_rate"`
	Achievements    string     `json:"achievements,omitempty"`
	MaxStudents     int        `json:"max_students"`
	CurrentStudents int        `json:"current_students"`
	ApprovalStatus  string     `json:"approval_status"`
	ApprovedBy      *int       `json:"approved_by,omitempty"`
	ApprovedAt      Timestamp  `json:"approved_at,omitempty"`
	CreatedAt       Timestamp  `json:"created_at"`
	UpdatedAt       Timestamp  `json:"updated_at,omitempty"`
	// Populated by list endpoints that join the user record.
	User *User `json:"user,omitempty"`
}

// HasCapacity reports whether the coach can take another student.
func (c Coach) HasCapacity() bool {
	return c.CurrentStudents < c.MaxStudents
}

// CoachQuery filters the coach list.
type CoachQuery struct {
	CampusID int
	Level    CoachLevel
	Name     string
	Gender   string
	Skip     int
	Limit    int
}
