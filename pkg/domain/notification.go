package domain

// NotificationType groups notifications by the domain that raised them.
type NotificationType string

const (
	NotifySystem       NotificationType = "system"
	NotifyBooking      NotificationType = "booking"
	NotifyPayment      NotificationType = "payment"
	NotifyCompetition  NotificationType = "competition"
	NotifyEvaluation   NotificationType = "evaluation"
	NotifyCoachStudent NotificationType = "coach_student"
)

// Notification is a message delivered to a single recipient.
type Notification struct {
	ID           int              `json:"id"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	Type         NotificationType `json:"type"`
	Priority     string           `json:"priority"`
	RecipientID  int              `json:"recipient_id"`
	SenderID     *int             `json:"sender_id,omitempty"`
	ResourceType string           `json:"resource_type,omitempty"`
	ResourceID   *int             `json:"resource_id,omitempty"`
	IsRead       bool             `json:"is_read"`
	ReadAt       Timestamp        `json:"read_at,omitempty"`
	CreatedAt    Timestamp        `json:"created_at"`
}

// NotificationQuery filters the notification list.
type NotificationQuery struct {
	Type     NotificationType
	Unread   bool
	Priority string
	Page     int
	Size     int
}
