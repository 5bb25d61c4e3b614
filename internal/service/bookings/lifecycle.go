package bookings

import (
	"time"

	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
)

const (
	// A pending booking not acted on within this window is shown as expired.
	pendingExpiry = 24 * time.Hour
	// Refunds can be requested up to this long before the travel date.
	refundNotice = 7 * 24 * time.Hour
)

// DerivedStatusExpired is a display-only label, never stored.
const DerivedStatusExpired = "expired"

// View is a booking augmented with labels derived at read time. The flags are
// a pure projection of the record and the clock; nothing here is ever written
// back to the store.
type View struct {
	*storebookings.Booking
	EffectiveEndDate time.Time `json:"effective_end_date"`
	DerivedStatus    string    `json:"derived_status"`
	IsExpired        bool      `json:"is_expired"`
	CanRefundRequest bool      `json:"can_refund_request"`
}

// Classify produces the view projection for one booking at the given time.
// Missing or zero dates resolve every flag to false rather than granting a
// derived status on ambiguous data.
func Classify(b *storebookings.Booking, now time.Time) View {
	status := storebookings.CanonicalStatus(b.Status)
	v := View{
		Booking:          b,
		EffectiveEndDate: b.EffectiveEndDate(),
		DerivedStatus:    status,
	}

	if status == storebookings.StatusPending && !b.CreatedAt.IsZero() &&
		now.Sub(b.CreatedAt) > pendingExpiry {
		v.IsExpired = true
		v.DerivedStatus = DerivedStatusExpired
	}

	if status == storebookings.StatusCanceled && b.Paid &&
		b.TravelDate != nil && !b.TravelDate.IsZero() &&
		!b.TravelDate.Before(now.Add(refundNotice)) {
		v.CanRefundRequest = true
	}

	return v
}

// ClassifyAll projects a whole listing at a single instant so one page of
// results cannot straddle an expiry boundary.
func ClassifyAll(list []*storebookings.Booking, now time.Time) []View {
	views := make([]View, 0, len(list))
	for _, b := range list {
		views = append(views, Classify(b, now))
	}
	return views
}
