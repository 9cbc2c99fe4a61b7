package domain

// Comment is a student's star rating of a booked session.
type Comment struct {
	ID        int       `json:"id"`
	BookingID int       `json:"booking_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at,omitempty"`

	// Filled in by the coach, student and "my" list endpoints.
	CoachName        string        `json:"coach_name,omitempty"`
	StudentName      string        `json:"student_name,omitempty"`
	BookingStartTime Timestamp     `json:"booking_start_time,omitempty"`
	BookingEndTime   Timestamp     `json:"booking_end_time,omitempty"`
	BookingStatus    BookingStatus `json:"booking_status,omitempty"`
}

// CommentCreate is the payload for POST /comments/.
type CommentCreate struct {
	BookingID int    `json:"booking_id"`
	Rating    int    `json:"rating"`
	Content   string `json:"content,omitempty"`
}

// Validate checks the rating range.
func (c CommentCreate) Validate() error {
	r := c.Rating
	return validateRating(&r)
}

// CommentUpdate is the payload for PUT /comments/{id}.
type CommentUpdate struct {
	Rating  int    `json:"rating"`
	Content string `json:"content,omitempty"`
}

// CoachCommentStats aggregates the comments left for one coach.
type CoachCommentStats struct {
	CoachID            int            `json:"coach_id"`
	CoachName          string         `json:"coach_name"`
	TotalComments      int            `json:"total_comments"`
	AverageRating      float64        `json:"average_rating"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	RecentComments     []Comment      `json:"recent_comments"`
}
