package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// CreateRecharge opens a recharge order for the authenticated account.
func (c *Client) CreateRecharge(ctx context.Context, req domain.RechargeRequest) (*domain.Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("client.CreateRecharge: amount must be positive")
	}
	var p domain.Payment
	if err := c.post(ctx, "/payments/recharge", req, &p); err != nil {
		return nil, fmt.Errorf("client.CreateRecharge: %w", err)
	}
	return &p, nil
}

// GenerateQRCode returns the pay-by-QR URL for an online recharge order.
func (c *Client) GenerateQRCode(ctx context.Context, method domain.PaymentMethod, paymentID int) (string, error) {
	var path string
	switch method {
	case domain.PaymentWechat:
		path = "/payments/wechat-qr/"
	case domain.PaymentAlipay:
		path = "/payments/alipay-qr/"
	default:
		return "", fmt.Errorf("client.GenerateQRCode: no QR code for payment method %q", method)
	}
	var resp struct {
		QRCodeURL string `json:"qr_code_url"`
	}
	if err := c.post(ctx, path+strconv.Itoa(paymentID), nil, &resp); err != nil {
		return "", fmt.Errorf("client.GenerateQRCode: %w", err)
	}
	return resp.QRCodeURL, nil
}

// GetBalance returns the authenticated account's balance.
func (c *Client) GetBalance(ctx context.Context) (*domain.Balance, error) {
	var b domain.Balance
	if err := c.get(ctx, "/payments/balance", &b); err != nil {
		return nil, fmt.Errorf("client.GetBalance: %w", err)
	}
	return &b, nil
}

// PaymentRecords returns the authenticated account's payment history.
func (c *Client) PaymentRecords(ctx context.Context, paymentType string, skip, limit int) ([]domain.Payment, error) {
	params := url.Values{}
	if paymentType != "" {
		params.Set("payment_type", paymentType)
	}
	setPaging(params, skip, limit)

	var payments []domain.Payment
	if err := c.get(ctx, "/payments/records?"+params.Encode(), &payments); err != nil {
		return nil, fmt.Errorf("client.PaymentRecords: %w", err)
	}
	return payments, nil
}

// PaymentSummary returns recharge, expense and refund totals.
func (c *Client) PaymentSummary(ctx context.Context) (*domain.PaymentSummary, error) {
	var s domain.PaymentSummary
	if err := c.get(ctx, "/payments/summary", &s); err != nil {
		return nil, fmt.Errorf("client.PaymentSummary: %w", err)
	}
	return &s, nil
}
