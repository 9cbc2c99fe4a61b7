package domain

// Competition is a campus tournament students can register for.
type Competition struct {
	ID                      int       `json:"id"`
	Name                    string    `json:"name"`
	CampusID                int       `json:"campus_id"`
	CompetitionDate         Timestamp `json:"competition_date"`
	RegistrationDeadline    Timestamp `json:"registration_deadline"`
	RegistrationFee         float64   `json:"registration_fee"`
	MaxParticipantsPerGroup int       `json:"max_participants_per_group"`
	Status                  string    `json:"status"`
	Description             string    `json:"description,omitempty"`
	CreatedBy               *int      `json:"created_by,omitempty"`
	CreatedAt               Timestamp `json:"created_at"`
	UpdatedAt               Timestamp `json:"updated_at,omitempty"`
}

// CompetitionRegistration is a student's entry into a competition group.
type CompetitionRegistration struct {
	ID            int       `json:"id"`
	CompetitionID int       `json:"competition_id"`
	StudentID     int       `json:"student_id"`
	GroupType     string    `json:"group_type"`
	PaymentID     *int      `json:"payment_id,omitempty"`
	IsConfirmed   bool      `json:"is_confirmed"`
	CreatedAt     Timestamp `json:"created_at"`
}
