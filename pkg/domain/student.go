package domain

// Student is the training profile attached to a student account.
type Student struct {
	ID                    int       `json:"id"`
	UserID                int       `json:"user_id"`
	AccountBalance        float64   `json:"account_balance"`
	MaxCoaches            int       `json:"max_coaches"`
	CurrentCoaches        int       `json:"current_coaches"`
	MonthlyCancellations  int       `json:"monthly_cancellations"`
	LastCancellationReset Timestamp `json:"last_cancellation_reset,omitempty"`
	CreatedAt             Timestamp `json:"created_at"`
	UpdatedAt             Timestamp `json:"updated_at,omitempty"`
	User                  *User     `json:"user,omitempty"`
}

// Balance is an account balance snapshot.
type Balance struct {
	UserID      int       `json:"user_id"`
	Balance     float64   `json:"balance"`
	LastUpdated Timestamp `json:"last_updated"`
}
