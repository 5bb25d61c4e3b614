package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamtours/tourdesk/internal/store/bookings"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestBuildMonthlySeriesActiveWindow(t *testing.T) {
	list := []*bookings.Booking{
		{
			Status:     bookings.StatusConfirmed,
			CreatedAt:  day(2024, 3, 1),
			TravelDate: dayPtr(2024, 3, 5),
		},
	}

	s := BuildMonthlySeries(list, time.March, 2024, time.UTC)
	require.Len(t, s.ActiveCounts, 31)

	// Active on days 1 through 5 inclusive, nothing after.
	for d := 1; d <= 5; d++ {
		assert.Equal(t, 1, s.ActiveCounts[d-1], "day %d", d)
	}
	assert.Equal(t, 0, s.ActiveCounts[5], "day 6")
	assert.Equal(t, 0, s.ActiveCounts[30], "day 31")

	// The window belongs to March only.
	feb := BuildMonthlySeries(list, time.February, 2024, time.UTC)
	require.Len(t, feb.ActiveCounts, 29)
	for d := 1; d <= 29; d++ {
		assert.Equal(t, 0, feb.ActiveCounts[d-1], "feb day %d", d)
	}
}

func TestBuildMonthlySeriesRevenueRecognition(t *testing.T) {
	pending := &bookings.Booking{
		Status:     bookings.StatusPending,
		TotalPrice: 1000000,
		CreatedAt:  day(2024, 6, 1),
		TravelDate: dayPtr(2024, 6, 10),
	}

	s := BuildMonthlySeries([]*bookings.Booking{pending}, time.June, 2024, time.UTC)
	assert.Equal(t, float64(0), s.TotalRevenue)
	assert.Equal(t, float64(0), s.Revenue[9])

	paid := *pending
	paid.Status = bookings.StatusPaid
	s = BuildMonthlySeries([]*bookings.Booking{&paid}, time.June, 2024, time.UTC)
	assert.Equal(t, float64(1000000), s.TotalRevenue)
	assert.Equal(t, float64(1000000), s.Revenue[9])
}

func TestBuildMonthlySeriesDayBuckets(t *testing.T) {
	list := []*bookings.Booking{
		{
			Status:     bookings.StatusPaid,
			TotalPrice: 500000,
			CreatedAt:  day(2024, 6, 10),
			TravelDate: dayPtr(2024, 6, 10),
		},
		{
			Status:     bookings.StatusPending,
			TotalPrice: 300000,
			CreatedAt:  day(2024, 6, 10),
			TravelDate: dayPtr(2024, 6, 10),
		},
	}

	s := BuildMonthlySeries(list, time.June, 2024, time.UTC)
	require.Len(t, s.Labels, 30)
	assert.Equal(t, 10, s.Labels[9])

	// Only the paid booking counts toward day-10 revenue, both count as new
	// bookings on their shared creation day.
	assert.Equal(t, float64(500000), s.Revenue[9])
	assert.Equal(t, 2, s.BookingCounts[9])
	assert.Equal(t, float64(500000), s.TotalRevenue)
}

func TestBuildMonthlySeriesEndBeforeStartCollapses(t *testing.T) {
	// A canceled booking whose last update predates its creation date still
	// yields a one-day window at the start instead of a negative span.
	b := &bookings.Booking{
		Status:    bookings.StatusCanceled,
		CreatedAt: day(2024, 5, 20),
		UpdatedAt: day(2024, 5, 15),
	}

	s := BuildMonthlySeries([]*bookings.Booking{b}, time.May, 2024, time.UTC)
	assert.Equal(t, 1, s.ActiveCounts[19], "day 20")
	assert.Equal(t, 0, s.ActiveCounts[14], "day 15")
	assert.Equal(t, 0, s.ActiveCounts[20], "day 21")
}

func TestBuildMonthlySeriesTotalRevenueSpansMonths(t *testing.T) {
	// Total revenue covers every recognized booking, not just the viewed month.
	list := []*bookings.Booking{
		{Status: bookings.StatusCompleted, TotalPrice: 100, CreatedAt: day(2024, 1, 5), TravelDate: dayPtr(2024, 1, 8)},
		{Status: bookings.StatusRefunded, TotalPrice: 50, CreatedAt: day(2024, 2, 5), TravelDate: dayPtr(2024, 2, 8)},
	}

	s := BuildMonthlySeries(list, time.March, 2024, time.UTC)
	assert.Equal(t, float64(150), s.TotalRevenue)
	for d := range s.Revenue {
		assert.Equal(t, float64(0), s.Revenue[d])
	}
}
