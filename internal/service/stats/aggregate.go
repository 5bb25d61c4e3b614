package stats

import (
	"time"

	"github.com/roamtours/tourdesk/internal/store/bookings"
)

// MonthlySeries holds per-day dashboard series for one calendar month. Slices
// are indexed 0-based; Labels carries the matching 1-based day numbers.
type MonthlySeries struct {
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	Labels        []int     `json:"labels"`
	BookingCounts []int     `json:"booking_counts"`
	ActiveCounts  []int     `json:"active_counts"`
	Revenue       []float64 `json:"revenue"`
	TotalRevenue  float64   `json:"total_revenue"`
}

// BuildMonthlySeries recomputes the dashboard series from scratch over the
// full booking set:
//
//   - BookingCounts[d]: bookings created on day d+1 of the month.
//   - ActiveCounts[d]: bookings whose [start, effective end] window contains
//     the day, both ends inclusive.
//   - Revenue[d]: total price of revenue-recognized bookings whose effective
//     end falls on the day.
//
// TotalRevenue sums every revenue-recognized booking regardless of month.
func BuildMonthlySeries(list []*bookings.Booking, month time.Month, year int, loc *time.Location) MonthlySeries {
	if loc == nil {
		loc = time.UTC
	}
	days := daysInMonth(month, year)

	s := MonthlySeries{
		Month:         int(month),
		Year:          year,
		Labels:        make([]int, days),
		BookingCounts: make([]int, days),
		ActiveCounts:  make([]int, days),
		Revenue:       make([]float64, days),
	}
	for d := 0; d < days; d++ {
		s.Labels[d] = d + 1
	}

	for _, b := range list {
		created := b.CreatedAt.In(loc)
		if created.Year() == year && created.Month() == month {
			s.BookingCounts[created.Day()-1]++
		}

		start := dateOnly(b.StartDate().In(loc))
		end := dateOnly(b.EffectiveEndDate().In(loc))
		if end.Before(start) {
			// A resolved end before the start collapses to a zero-length
			// window at the start date.
			end = start
		}

		for d := 1; d <= days; d++ {
			day := time.Date(year, month, d, 0, 0, 0, 0, loc)
			if !day.Before(start) && !day.After(end) {
				s.ActiveCounts[d-1]++
			}
		}

		if bookings.IsRevenueRecognized(b.Status) {
			s.TotalRevenue += b.TotalPrice
			if end.Year() == year && end.Month() == month {
				s.Revenue[end.Day()-1] += b.TotalPrice
			}
		}
	}

	return s
}

func daysInMonth(month time.Month, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
