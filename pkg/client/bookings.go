package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// CreateBooking requests a coaching session.
func (c *Client) CreateBooking(ctx context.Context, b domain.BookingCreate) (*domain.Booking, error) {
	var created domain.Booking
	if err := c.post(ctx, "/bookings", b, &created); err != nil {
		return nil, fmt.Errorf("client.CreateBooking: %w", err)
	}
	return &created, nil
}

// ListBookings returns bookings matching q.
func (c *Client) ListBookings(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	for key, v := range map[string]int{"coach_id": q.CoachID, "student_id": q.StudentID, "campus_id": q.CampusID} {
		if v > 0 {
			params.Set(key, strconv.Itoa(v))
		}
	}
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	setPaging(params, q.Skip, q.Limit)

	var bookings []domain.Booking
	if err := c.get(ctx, "/bookings?"+params.Encode(), &bookings); err != nil {
		return nil, fmt.Errorf("client.ListBookings: %w", err)
	}
	return bookings, nil
}

// GetBooking fetches a single booking.
func (c *Client) GetBooking(ctx context.Context, id int) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.get(ctx, "/bookings/"+strconv.Itoa(id), &b); err != nil {
		return nil, fmt.Errorf("client.GetBooking: %w", err)
	}
	return &b, nil
}

// ConfirmBooking lets a coach confirm or reject a pending booking.
func (c *Client) ConfirmBooking(ctx context.Context, id int, confirm domain.BookingConfirmation) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.put(ctx, "/bookings/"+strconv.Itoa(id)+"/confirm", confirm, &b); err != nil {
		return nil, fmt.Errorf("client.ConfirmBooking: %w", err)
	}
	return &b, nil
}

// CancelBooking requests cancellation of a booking.
func (c *Client) CancelBooking(ctx context.Context, id int, reason string) (*domain.Booking, error) {
	var b domain.Booking
	body := map[string]string{"cancellation_reason": reason}
	if err := c.put(ctx, "/bookings/"+strconv.Itoa(id)+"/cancel", body, &b); err != nil {
		return nil, fmt.Errorf("client.CancelBooking: %w", err)
	}
	return &b, nil
}

// MyBookings returns the authenticated student's bookings.
func (c *Client) MyBookings(ctx context.Context, status domain.BookingStatus, skip, limit int) ([]domain.Booking, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", string(status))
	}
	setPaging(params, skip, limit)

	var bookings []domain.Booking
	if err := c.get(ctx, "/bookings/my?"+params.Encode(), &bookings); err != nil {
		return nil, fmt.Errorf("client.MyBookings: %w", err)
	}
	return bookings, nil
}

// PendingBookings returns bookings awaiting the authenticated coach's answer.
func (c *Client) PendingBookings(ctx context.Context, skip, limit int) ([]domain.Booking, error) {
	params := url.Values{}
	setPaging(params, skip, limit)

	var bookings []domain.Booking
	if err := c.get(ctx, "/bookings/pending?"+params.Encode(), &bookings); err != nil {
		return nil, fmt.Errorf("client.PendingBookings: %w", err)
	}
	return bookings, nil
}

// TodayBookings returns today's sessions for the authenticated account.
func (c *Client) TodayBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.get(ctx, "/bookings/today", &bookings); err != nil {
		return nil, fmt.Errorf("client.TodayBookings: %w", err)
	}
	return bookings, nil
}

// WeekBookings returns this week's sessions for the authenticated account.
func (c *Client) WeekBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.get(ctx, "/bookings/week", &bookings); err != nil {
		return nil, fmt.Errorf("client.WeekBookings: %w", err)
	}
	return bookings, nil
}

// AvailableCourts lists free tables at a campus for the given window.
func (c *Client) AvailableCourts(ctx context.Context, campusID int, start, end time.Time) ([]string, error) {
	params := url.Values{}
	params.Set("campus_id", strconv.Itoa(campusID))
	params.Set("start_time", start.Format("2006-01-02T15:04:05"))
	params.Set("end_time", end.Format("2006-01-02T15:04:05"))

	var courts []string
	if err := c.get(ctx, "/bookings/available-courts?"+params.Encode(), &courts); err != nil {
		return nil, fmt.Errorf("client.AvailableCourts: %w", err)
	}
	return courts, nil
}
