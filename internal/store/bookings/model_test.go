package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestEffectiveEndDatePrecedence(t *testing.T) {
	d1 := datePtr(2024, 6, 10)
	d2 := datePtr(2024, 6, 12)
	d3 := datePtr(2024, 6, 15)
	created := date(2024, 6, 1)
	updated := date(2024, 6, 3)

	t.Run("TravelDateWins", func(t *testing.T) {
		b := &Booking{TravelDate: d1, TourDate: d2, EndDate: d3, CreatedAt: created}
		assert.Equal(t, *d1, b.EffectiveEndDate())
	})

	t.Run("TourDateWhenNoTravelDate", func(t *testing.T) {
		b := &Booking{TourDate: d2, EndDate: d3, CreatedAt: created}
		assert.Equal(t, *d2, b.EffectiveEndDate())
	})

	t.Run("EndDateWhenNoTourDate", func(t *testing.T) {
		b := &Booking{EndDate: d3, CreatedAt: created}
		assert.Equal(t, *d3, b.EffectiveEndDate())
	})

	t.Run("CanceledFallsBackToLastUpdate", func(t *testing.T) {
		b := &Booking{Status: StatusCanceled, CreatedAt: created, UpdatedAt: updated}
		assert.Equal(t, updated, b.EffectiveEndDate())
	})

	t.Run("ExpiredFallsBackToLastUpdate", func(t *testing.T) {
		// Imported legacy records can carry a stored "expired" status.
		b := &Booking{Status: StatusExpired, CreatedAt: created, UpdatedAt: updated}
		assert.Equal(t, updated, b.EffectiveEndDate())
	})

	t.Run("CancelledSpellingFallsBackToLastUpdate", func(t *testing.T) {
		b := &Booking{Status: "cancelled", CreatedAt: created, UpdatedAt: updated}
		assert.Equal(t, updated, b.EffectiveEndDate())
	})

	t.Run("NoDatesAtAllFallsBackToCreation", func(t *testing.T) {
		b := &Booking{Status: StatusPending, CreatedAt: created, UpdatedAt: updated}
		assert.Equal(t, created, b.EffectiveEndDate())
	})

	t.Run("ZeroDatePointerTreatedAsAbsent", func(t *testing.T) {
		var zero time.Time
		b := &Booking{TravelDate: &zero, TourDate: d2, CreatedAt: created}
		assert.Equal(t, *d2, b.EffectiveEndDate())
	})
}

func TestCanonicalStatus(t *testing.T) {
	assert.Equal(t, StatusCanceled, CanonicalStatus("cancelled"))
	assert.Equal(t, StatusCanceled, CanonicalStatus("canceled"))
	assert.Equal(t, StatusPaid, CanonicalStatus("paid"))
	// Unknown values pass through.
	assert.Equal(t, "weird", CanonicalStatus("weird"))
}

func TestIsRevenueRecognized(t *testing.T) {
	assert.True(t, IsRevenueRecognized(StatusPaid))
	assert.True(t, IsRevenueRecognized(StatusCompleted))
	assert.True(t, IsRevenueRecognized(StatusRefunded))

	assert.False(t, IsRevenueRecognized(StatusPending))
	assert.False(t, IsRevenueRecognized(StatusConfirmed))
	assert.False(t, IsRevenueRecognized(StatusOngoing))
	assert.False(t, IsRevenueRecognized(StatusCanceled))
	assert.False(t, IsRevenueRecognized("cancelled"))
}
