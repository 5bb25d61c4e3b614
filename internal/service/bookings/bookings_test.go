package bookings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
	storetours "github.com/roamtours/tourdesk/internal/store/tours"
)

type fakeStore struct {
	byID     map[string]*storebookings.Booking
	all      []*storebookings.Booking
	updates  []string
	imported []*storebookings.Booking
	paidIDs  []string

	// beforeUpdate, when set, runs at the start of UpdateStatus to simulate a
	// concurrent writer changing the row after the service's read.
	beforeUpdate func()
}

func (f *fakeStore) Create(_ context.Context, b *storebookings.Booking) (*storebookings.Booking, error) {
	b.ID = "new-id"
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.all = append(f.all, b)
	return b, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*storebookings.Booking, error) {
	return f.byID[id], nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]*storebookings.Booking, error) {
	return f.all, nil
}

func (f *fakeStore) ListByStatus(_ context.Context, status string) ([]*storebookings.Booking, error) {
	var out []*storebookings.Booking
	for _, b := range f.all {
		if storebookings.CanonicalStatus(b.Status) == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByCreatedRange(_ context.Context, from, to time.Time) ([]*storebookings.Booking, error) {
	var out []*storebookings.Booking
	for _, b := range f.all {
		if !b.CreatedAt.Before(from) && !b.CreatedAt.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id, status string, guard func(previous string) error) (string, error) {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	b := f.byID[id]
	prev := b.Status
	if guard != nil {
		if err := guard(prev); err != nil {
			return "", err
		}
	}
	b.Status = status
	f.updates = append(f.updates, id+":"+status)
	return prev, nil
}

func (f *fakeStore) SetPaid(_ context.Context, id string, paid bool) error {
	f.paidIDs = append(f.paidIDs, id)
	return nil
}

func (f *fakeStore) CreateImported(_ context.Context, b *storebookings.Booking) (*storebookings.Booking, error) {
	f.imported = append(f.imported, b)
	return b, nil
}

type fakeTours struct {
	tours map[string]*storetours.Tour
}

func (f *fakeTours) Get(_ context.Context, id string) (*storetours.Tour, error) {
	return f.tours[id], nil
}

func (f *fakeTours) CategoryIndex(_ context.Context) (map[string]string, error) {
	out := map[string]string{}
	for id, t := range f.tours {
		out[id] = t.Category
	}
	return out, nil
}

type fakePublisher struct {
	published [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, key, value []byte) error {
	f.published = append(f.published, value)
	return nil
}

func newTestService(store *fakeStore, tours *fakeTours, pub *fakePublisher) *BookingsService {
	return NewBookingsService(zap.NewNop(), store, tours, pub)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{"pending", "confirmed", true},
		{"pending", "canceled", true},
		{"pending", "cancelled", true},
		{"confirmed", "paid", true},
		{"paid", "ongoing", true},
		{"paid", "refunded", true},
		{"ongoing", "completed", true},
		{"canceled", "refunded", true},
		{"pending", "paid", false},
		{"completed", "pending", false},
		{"refunded", "paid", false},
		{"paid", "pending", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidTransitionPublishesEvent", func(t *testing.T) {
		store := &fakeStore{byID: map[string]*storebookings.Booking{
			"b1": {ID: "b1", UserID: "u1", Status: storebookings.StatusPending, CreatedAt: time.Now()},
		}}
		pub := &fakePublisher{}
		svc := newTestService(store, &fakeTours{}, pub)

		v, err := svc.UpdateStatus(ctx, "b1", "confirmed")
		require.NoError(t, err)
		assert.Equal(t, storebookings.StatusConfirmed, v.Status)
		require.Len(t, pub.published, 1)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(pub.published[0], &payload))
		assert.Equal(t, "booking_status_changed", payload["type"])
		assert.Equal(t, "b1", payload["booking_id"])
		assert.Equal(t, "pending", payload["from"])
		assert.Equal(t, "confirmed", payload["to"])
	})

	t.Run("InvalidTransitionRejected", func(t *testing.T) {
		store := &fakeStore{byID: map[string]*storebookings.Booking{
			"b1": {ID: "b1", Status: storebookings.StatusCompleted, CreatedAt: time.Now()},
		}}
		svc := newTestService(store, &fakeTours{}, &fakePublisher{})

		_, err := svc.UpdateStatus(ctx, "b1", "pending")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, store.updates)
	})

	t.Run("UnknownTargetRejected", func(t *testing.T) {
		store := &fakeStore{byID: map[string]*storebookings.Booking{
			"b1": {ID: "b1", Status: storebookings.StatusPending, CreatedAt: time.Now()},
		}}
		svc := newTestService(store, &fakeTours{}, &fakePublisher{})

		_, err := svc.UpdateStatus(ctx, "b1", "exploded")
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("MissingBooking", func(t *testing.T) {
		svc := newTestService(&fakeStore{byID: map[string]*storebookings.Booking{}}, &fakeTours{}, &fakePublisher{})
		_, err := svc.UpdateStatus(ctx, "nope", "confirmed")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("CancelledSpellingAccepted", func(t *testing.T) {
		store := &fakeStore{byID: map[string]*storebookings.Booking{
			"b1": {ID: "b1", Status: "cancelled", CreatedAt: time.Now()},
		}}
		svc := newTestService(store, &fakeTours{}, &fakePublisher{})

		v, err := svc.UpdateStatus(ctx, "b1", "refunded")
		require.NoError(t, err)
		assert.Equal(t, storebookings.StatusRefunded, v.Status)
	})

	t.Run("ConcurrentTransitionRejected", func(t *testing.T) {
		// A second admin moves the booking paid -> ongoing between this
		// request's read and its write. refunded is valid from paid but not
		// from ongoing, so the locked status must win.
		store := &fakeStore{byID: map[string]*storebookings.Booking{
			"b1": {ID: "b1", Status: storebookings.StatusPaid, CreatedAt: time.Now()},
		}}
		store.beforeUpdate = func() {
			store.byID["b1"].Status = storebookings.StatusOngoing
		}
		pub := &fakePublisher{}
		svc := newTestService(store, &fakeTours{}, pub)

		_, err := svc.UpdateStatus(ctx, "b1", "refunded")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, storebookings.StatusOngoing, store.byID["b1"].Status)
		assert.Empty(t, store.updates)
		assert.Empty(t, pub.published)
	})

	t.Run("PaidTransitionSetsPaidFlag", func(t *testing.T) {
		store := &fakeStore{byID: map[string]*storebookings.Booking{
			"b1": {ID: "b1", Status: storebookings.StatusConfirmed, CreatedAt: time.Now()},
		}}
		svc := newTestService(store, &fakeTours{}, &fakePublisher{})

		v, err := svc.UpdateStatus(ctx, "b1", "paid")
		require.NoError(t, err)
		assert.True(t, v.Paid)
		assert.Equal(t, []string{"b1"}, store.paidIDs)
	})
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	travel := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	tours := &fakeTours{tours: map[string]*storetours.Tour{
		"t1": {ID: "t1", Name: "Sapa Trek", Price: 250, DurationDays: 3},
	}}
	store := &fakeStore{byID: map[string]*storebookings.Booking{}}
	svc := newTestService(store, tours, &fakePublisher{})

	v, err := svc.Create(ctx, "u1", CreateRequest{
		TourID:     "t1",
		FirstName:  "Mai",
		LastName:   "Le",
		Adults:     2,
		Children:   1,
		TravelDate: travel,
	})
	require.NoError(t, err)
	assert.Equal(t, storebookings.StatusPending, v.Status)
	assert.Equal(t, float64(750), v.TotalPrice)
	require.NotNil(t, v.EndDate)
	assert.Equal(t, travel.AddDate(0, 0, 3), *v.EndDate)

	_, err = svc.Create(ctx, "u1", CreateRequest{TourID: "missing", Adults: 1, TravelDate: travel})
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	store := &fakeStore{byID: map[string]*storebookings.Booking{}}
	for i := 0; i < 25; i++ {
		store.all = append(store.all, &storebookings.Booking{
			ID:        string(rune('a' + i)),
			Status:    storebookings.StatusConfirmed,
			CreatedAt: now,
		})
	}
	svc := newTestService(store, &fakeTours{}, &fakePublisher{})

	res, err := svc.List(ctx, Filter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Items, 10)

	res, err = svc.List(ctx, Filter{}, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, res.TotalPages)
}

func TestImportLegacyBatch(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{byID: map[string]*storebookings.Booking{}}
	svc := newTestService(store, &fakeTours{}, &fakePublisher{})

	records := []json.RawMessage{
		json.RawMessage(`{"_id":"x1","status":"paid","booking_date":"2024-03-01T00:00:00Z","totalPrice":100}`),
		json.RawMessage(`{}`),
		json.RawMessage(`{"status":"cancelled","created_at":"2024-03-02T00:00:00Z"}`),
	}

	res, err := svc.Import(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Rejected)
	require.Len(t, store.imported, 2)
	assert.Equal(t, storebookings.StatusCanceled, store.imported[1].Status)
}
