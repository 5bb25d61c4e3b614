package bookings

import (
	"time"
)

// Stored booking statuses. The admin flow never writes "expired"; it is a
// derived label, but legacy imports can carry it as a stored value.
// "refund_requested" is derived only and never stored.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPaid      = "paid"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusRefunded  = "refunded"
	StatusExpired   = "expired"
)

type Booking struct {
	ID         string     `json:"id"`
	TourID     string     `json:"tour_id"`
	UserID     string     `json:"user_id,omitempty"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Phone      string     `json:"phone"`
	Status     string     `json:"status"`
	TotalPrice float64    `json:"total_price"`
	Paid       bool       `json:"paid"`
	Adults     int        `json:"adults"`
	Children   int        `json:"children"`
	TravelDate *time.Time `json:"travel_date,omitempty"`
	TourDate   *time.Time `json:"tour_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CanonicalStatus maps spelling variants seen in legacy data onto the stored
// taxonomy. Unknown values pass through unchanged so they surface in listings
// instead of being silently dropped.
func CanonicalStatus(s string) string {
	switch s {
	case "cancelled":
		return StatusCanceled
	default:
		return s
	}
}

// IsRevenueRecognized reports whether a booking's total price counts toward
// revenue sums.
func IsRevenueRecognized(status string) bool {
	switch CanonicalStatus(status) {
	case StatusPaid, StatusCompleted, StatusRefunded:
		return true
	}
	return false
}

// EffectiveEndDate resolves the single date marking when the booking's trip is
// considered over. Precedence: travel date, tour date, end date, then for
// canceled or expired bookings the last update, and finally the creation date
// (a zero-length validity window).
func (b *Booking) EffectiveEndDate() time.Time {
	if d := validDate(b.TravelDate); d != nil {
		return *d
	}
	if d := validDate(b.TourDate); d != nil {
		return *d
	}
	if d := validDate(b.EndDate); d != nil {
		return *d
	}
	switch CanonicalStatus(b.Status) {
	case StatusCanceled, StatusExpired:
		if !b.UpdatedAt.IsZero() {
			return b.UpdatedAt
		}
	}
	return b.CreatedAt
}

// StartDate is the beginning of the booking's validity window.
func (b *Booking) StartDate() time.Time {
	return b.CreatedAt
}

func validDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}
