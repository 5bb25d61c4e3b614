package bookings

import (
	"strings"
	"time"

	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
)

const DefaultPageSize = 10

// Date filter windows, keyed off the booking's creation date.
const (
	DateFilterAll   = "all"
	DateFilterToday = "today"
	DateFilterMonth = "month"
	DateFilterYear  = "year"
)

// Filter holds the admin listing predicates. Zero values mean "no constraint".
type Filter struct {
	Query      string
	DateFilter string
	Status     string
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
}

// Apply filters the list in memory. Name matching is a case-insensitive
// substring match against "first last". The category predicate resolves
// through tourCategories (tour id to category); bookings whose tour is absent
// from the index never match a category filter.
func Apply(list []*storebookings.Booking, f Filter, now time.Time, tourCategories map[string]string) []*storebookings.Booking {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	status := storebookings.CanonicalStatus(f.Status)

	out := make([]*storebookings.Booking, 0, len(list))
	for _, b := range list {
		if q != "" {
			full := strings.ToLower(b.FirstName + " " + b.LastName)
			if !strings.Contains(full, q) {
				continue
			}
		}
		if status != "" && storebookings.CanonicalStatus(b.Status) != status {
			continue
		}
		if !matchesDateFilter(b.CreatedAt, f.DateFilter, now) {
			continue
		}
		if f.Category != "" && tourCategories[b.TourID] != f.Category {
			continue
		}
		if f.MinPrice != nil && b.TotalPrice < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && b.TotalPrice > *f.MaxPrice {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesDateFilter(created time.Time, filter string, now time.Time) bool {
	switch filter {
	case "", DateFilterAll:
		return true
	case DateFilterToday:
		return created.Year() == now.Year() && created.YearDay() == now.YearDay()
	case DateFilterMonth:
		return created.Year() == now.Year() && created.Month() == now.Month()
	case DateFilterYear:
		return created.Year() == now.Year()
	default:
		return true
	}
}

// Paginate slices out the requested 1-based page and returns the total page
// count, ceil(len/pageSize). Pages past the end yield an empty slice rather
// than being clamped, so a stale page number is visible to the caller.
func Paginate(list []*storebookings.Booking, page, pageSize int) ([]*storebookings.Booking, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	totalPages := (len(list) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= len(list) {
		return []*storebookings.Booking{}, totalPages
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], totalPages
}
