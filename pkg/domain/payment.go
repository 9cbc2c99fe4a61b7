package domain

// PaymentMethod is how a recharge is paid.
type PaymentMethod string

const (
	PaymentWechat  PaymentMethod = "wechat"
	PaymentAlipay  PaymentMethod = "alipay"
	PaymentOffline PaymentMethod = "offline"
)

// Payment is a single account movement (recharge, expense or refund).
type Payment struct {
	ID            int           `json:"id"`
	UserID        int           `json:"user_id"`
	Type          string        `json:"type"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        string        `json:"status"`
	Description   string        `json:"description,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	QRCodeURL     string        `json:"qr_code_url,omitempty"`
	PaidAt        Timestamp     `json:"paid_at,omitempty"`
	CreatedAt     Timestamp     `json:"created_at"`
	UpdatedAt     Timestamp     `json:"updated_at,omitempty"`
}

// RechargeRequest is the payload for POST /payments/recharge.
type RechargeRequest struct {
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Description   string        `json:"description,omitempty"`
}

// PaymentSummary aggregates the caller's payment history.
type PaymentSummary struct {
	TotalRecharge  float64 `json:"total_recharge"`
	TotalExpense   float64 `json:"total_expense"`
	TotalRefund    float64 `json:"total_refund"`
	CurrentBalance float64 `json:"current_balance"`
	PaymentCount   int     `json:"payment_count"`
}

// QuickRechargeAmounts are the preset recharge buttons.
var QuickRechargeAmounts = []float64{50, 100, 200, 500, 1000, 2000}
