package bookings

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
)

func makeBookings(n int, created time.Time) []*storebookings.Booking {
	out := make([]*storebookings.Booking, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &storebookings.Booking{
			ID:        fmt.Sprintf("b-%02d", i),
			FirstName: "Ann",
			LastName:  fmt.Sprintf("Smith%d", i),
			Status:    storebookings.StatusConfirmed,
			CreatedAt: created,
		})
	}
	return out
}

func TestPaginate(t *testing.T) {
	now := time.Now()
	list := makeBookings(25, now)

	t.Run("ThreePagesOfTen", func(t *testing.T) {
		page1, total := Paginate(list, 1, 10)
		assert.Equal(t, 3, total)
		assert.Len(t, page1, 10)

		page2, _ := Paginate(list, 2, 10)
		assert.Len(t, page2, 10)

		page3, _ := Paginate(list, 3, 10)
		assert.Len(t, page3, 5)
	})

	t.Run("PagePastEndIsEmpty", func(t *testing.T) {
		page4, total := Paginate(list, 4, 10)
		assert.Equal(t, 3, total)
		assert.NotNil(t, page4)
		assert.Empty(t, page4)
	})

	t.Run("ZeroPageSizeFallsBackToDefault", func(t *testing.T) {
		page, total := Paginate(list, 1, 0)
		assert.Len(t, page, DefaultPageSize)
		assert.Equal(t, 3, total)
	})

	t.Run("PageBelowOneClampsToFirst", func(t *testing.T) {
		page, _ := Paginate(list, 0, 10)
		require.Len(t, page, 10)
		assert.Equal(t, "b-00", page[0].ID)
	})

	t.Run("EmptyList", func(t *testing.T) {
		page, total := Paginate(nil, 1, 10)
		assert.Empty(t, page)
		assert.Equal(t, 0, total)
	})
}

func TestApplyNameFilter(t *testing.T) {
	now := time.Now()
	list := []*storebookings.Booking{
		{FirstName: "Nguyen", LastName: "Tran", CreatedAt: now},
		{FirstName: "Alice", LastName: "Nguy", CreatedAt: now},
		{FirstName: "Bob", LastName: "Jones", CreatedAt: now},
	}

	out := Apply(list, Filter{Query: "nguy"}, now, nil)
	require.Len(t, out, 2)

	// Matches across the first/last name boundary too.
	out = Apply(list, Filter{Query: "en tr"}, now, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "Nguyen", out[0].FirstName)
}

func TestApplyStatusFilterCanonicalizes(t *testing.T) {
	now := time.Now()
	list := []*storebookings.Booking{
		{Status: "canceled", CreatedAt: now},
		{Status: "cancelled", CreatedAt: now},
		{Status: "paid", CreatedAt: now},
	}

	out := Apply(list, Filter{Status: "cancelled"}, now, nil)
	assert.Len(t, out, 2)

	out = Apply(list, Filter{Status: "canceled"}, now, nil)
	assert.Len(t, out, 2)
}

func TestApplyDateFilter(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	list := []*storebookings.Booking{
		{ID: "today", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "this-month", CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "this-year", CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "last-year", CreatedAt: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
	}

	assert.Len(t, Apply(list, Filter{DateFilter: DateFilterToday}, now, nil), 1)
	assert.Len(t, Apply(list, Filter{DateFilter: DateFilterMonth}, now, nil), 2)
	assert.Len(t, Apply(list, Filter{DateFilter: DateFilterYear}, now, nil), 3)
	assert.Len(t, Apply(list, Filter{DateFilter: DateFilterAll}, now, nil), 4)
	assert.Len(t, Apply(list, Filter{}, now, nil), 4)
}

func TestApplyCategoryAndPrice(t *testing.T) {
	now := time.Now()
	list := []*storebookings.Booking{
		{ID: "a", TourID: "t1", TotalPrice: 100, CreatedAt: now},
		{ID: "b", TourID: "t2", TotalPrice: 500, CreatedAt: now},
		{ID: "c", TourID: "t3", TotalPrice: 900, CreatedAt: now},
	}
	categories := map[string]string{"t1": "beach", "t2": "mountain"}

	out := Apply(list, Filter{Category: "beach"}, now, categories)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)

	// A tour missing from the index never matches a category filter.
	out = Apply(list, Filter{Category: "jungle"}, now, categories)
	assert.Empty(t, out)

	min, max := 200.0, 800.0
	out = Apply(list, Filter{MinPrice: &min, MaxPrice: &max}, now, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)
}

func TestFilterThenPaginate(t *testing.T) {
	now := time.Now()
	list := makeBookings(40, now)
	for i := 25; i < 40; i++ {
		list[i].Status = storebookings.StatusCanceled
	}

	filtered := Apply(list, Filter{Status: storebookings.StatusConfirmed}, now, nil)
	require.Len(t, filtered, 25)

	_, totalPages := Paginate(filtered, 1, 10)
	assert.Equal(t, 3, totalPages)

	page4, _ := Paginate(filtered, 4, 10)
	assert.Empty(t, page4)
}
