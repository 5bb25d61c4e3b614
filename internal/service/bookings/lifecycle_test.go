package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
)

func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  string
		age     time.Duration
		expired bool
	}{
		{"pending 25h old", storebookings.StatusPending, 25 * time.Hour, true},
		{"pending 23h old", storebookings.StatusPending, 23 * time.Hour, false},
		{"pending exactly 24h", storebookings.StatusPending, 24 * time.Hour, false},
		{"confirmed 25h old", storebookings.StatusConfirmed, 25 * time.Hour, false},
		{"paid 48h old", storebookings.StatusPaid, 48 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &storebookings.Booking{
				Status:    tt.status,
				CreatedAt: now.Add(-tt.age),
			}
			v := Classify(b, now)
			assert.Equal(t, tt.expired, v.IsExpired)
			if tt.expired {
				assert.Equal(t, DerivedStatusExpired, v.DerivedStatus)
			} else {
				assert.Equal(t, storebookings.CanonicalStatus(tt.status), v.DerivedStatus)
			}
		})
	}
}

func TestClassifyRefundEligibility(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	travelAt := func(d time.Duration) *time.Time {
		tt := now.Add(d)
		return &tt
	}

	tests := []struct {
		name     string
		status   string
		paid     bool
		travel   *time.Time
		eligible bool
	}{
		{"canceled paid exactly 7 days out", storebookings.StatusCanceled, true, travelAt(7 * 24 * time.Hour), true},
		{"canceled paid 8 days out", storebookings.StatusCanceled, true, travelAt(8 * 24 * time.Hour), true},
		{"canceled paid 6 days 23 hours out", storebookings.StatusCanceled, true, travelAt(6*24*time.Hour + 23*time.Hour), false},
		{"cancelled spelling still eligible", "cancelled", true, travelAt(10 * 24 * time.Hour), true},
		{"canceled unpaid", storebookings.StatusCanceled, false, travelAt(10 * 24 * time.Hour), false},
		{"paid status not canceled", storebookings.StatusPaid, true, travelAt(10 * 24 * time.Hour), false},
		{"canceled paid no travel date", storebookings.StatusCanceled, true, nil, false},
		{"canceled paid travel in past", storebookings.StatusCanceled, true, travelAt(-24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &storebookings.Booking{
				Status:     tt.status,
				Paid:       tt.paid,
				TravelDate: tt.travel,
				CreatedAt:  now.Add(-time.Hour),
			}
			v := Classify(b, now)
			assert.Equal(t, tt.eligible, v.CanRefundRequest)
		})
	}
}

func TestClassifyDoesNotMutateSource(t *testing.T) {
	now := time.Now()
	b := &storebookings.Booking{
		Status:    storebookings.StatusPending,
		CreatedAt: now.Add(-48 * time.Hour),
	}

	v := Classify(b, now)
	assert.True(t, v.IsExpired)
	assert.Equal(t, storebookings.StatusPending, b.Status)
}

func TestClassifyAllUsesSingleInstant(t *testing.T) {
	now := time.Now()
	list := []*storebookings.Booking{
		{Status: storebookings.StatusPending, CreatedAt: now.Add(-30 * time.Hour)},
		{Status: storebookings.StatusPending, CreatedAt: now.Add(-1 * time.Hour)},
	}

	views := ClassifyAll(list, now)
	assert.Len(t, views, 2)
	assert.True(t, views[0].IsExpired)
	assert.False(t, views[1].IsExpired)
}
