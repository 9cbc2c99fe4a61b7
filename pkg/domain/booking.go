package domain

import "fmt"

// BookingStatus is the lifecycle state of a booking, owned by the backend.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a coaching session reserved by a student.
type Booking struct {
	ID                 int           `json:"id"`
	CoachID            int           `json:"coach_id"`
	StudentID          int           `json:"student_id"`
	CampusID           int           `json:"campus_id"`
	TableNumber        string        `json:"table_number,omitempty"`
	StartTime          Timestamp     `json:"start_time"`
	EndTime            Timestamp     `json:"end_time"`
	DurationHours      float64       `json:"duration_hours"`
	HourlyRate         float64       `json:"hourly_rate"`
	TotalCost          float64       `json:"total_cost"`
	Status             BookingStatus `json:"status"`
	BookingMessage     string        `json:"booking_message,omitempty"`
	ResponseMessage    string        `json:"response_message,omitempty"`
	CancelledBy        *int          `json:"cancelled_by,omitempty"`
	CancelledAt        Timestamp     `json:"cancelled_at,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CreatedAt          Timestamp     `json:"created_at"`
	UpdatedAt          Timestamp     `json:"updated_at,omitempty"`
}

// Reference is a short identifier suitable for copying into a message.
func (b Booking) Reference() string {
	return fmt.Sprintf("BK-%06d %s table %s", b.ID, b.StartTime.Format("2006-01-02 15:04"), tableOrDash(b.TableNumber))
}

func tableOrDash(t string) string {
	if t == "" {
		return "-"
	}
	return t
}

// BookingCreate is the payload for POST /bookings.
type BookingCreate struct {
	CoachID        int     `json:"coach_id"`
	StudentID      int     `json:"student_id"`
	CampusID       int     `json:"campus_id"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	DurationHours  float64 `json:"duration_hours"`
	BookingMessage string  `json:"booking_message,omitempty"`
	TableNumber    string  `json:"table_number,omitempty"`
}

// BookingConfirmation is the coach's answer to a pending booking.
type BookingConfirmation struct {
	Action  string `json:"action"` // "confirm" or "reject"
	Message string `json:"message,omitempty"`
}

// BookingQuery filters the booking list.
type BookingQuery struct {
	Status    BookingStatus
	CoachID   int
	StudentID int
	CampusID  int
	StartDate string
	EndDate   string
	Skip      int
	Limit     int
}
