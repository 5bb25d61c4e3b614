package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/metrics"
	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
	storetours "github.com/roamtours/tourdesk/internal/store/tours"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrTourNotFound      = errors.New("tour not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown status")
)

// Store is the slice of the bookings repository this service depends on.
type Store interface {
	Create(ctx context.Context, b *storebookings.Booking) (*storebookings.Booking, error)
	GetByID(ctx context.Context, id string) (*storebookings.Booking, error)
	ListAll(ctx context.Context) ([]*storebookings.Booking, error)
	ListByStatus(ctx context.Context, status string) ([]*storebookings.Booking, error)
	ListByCreatedRange(ctx context.Context, from, to time.Time) ([]*storebookings.Booking, error)
	UpdateStatus(ctx context.Context, id, status string, guard func(previous string) error) (string, error)
	SetPaid(ctx context.Context, id string, paid bool) error
	CreateImported(ctx context.Context, b *storebookings.Booking) (*storebookings.Booking, error)
}

// TourIndex resolves tours for booking creation and the category filter.
type TourIndex interface {
	Get(ctx context.Context, id string) (*storetours.Tour, error)
	CategoryIndex(ctx context.Context) (map[string]string, error)
}

// Publisher emits booking lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type BookingsService struct {
	log   *zap.Logger
	repo  Store
	tours TourIndex
	prod  Publisher
	now   func() time.Time
}

func NewBookingsService(log *zap.Logger, repo Store, tours TourIndex, prod Publisher) *BookingsService {
	return &BookingsService{log: log, repo: repo, tours: tours, prod: prod, now: time.Now}
}

// Stored-status transition table. Derived labels (expired, refund_requested)
// are not states and never appear here.
var allowedTransitions = map[string][]string{
	storebookings.StatusPending:   {storebookings.StatusConfirmed, storebookings.StatusCanceled},
	storebookings.StatusConfirmed: {storebookings.StatusPaid, storebookings.StatusCanceled},
	storebookings.StatusPaid:      {storebookings.StatusOngoing, storebookings.StatusRefunded},
	storebookings.StatusOngoing:   {storebookings.StatusCompleted},
	storebookings.StatusCompleted: {},
	storebookings.StatusCanceled:  {storebookings.StatusRefunded},
	storebookings.StatusRefunded:  {},
}

// CanTransition reports whether a stored status may move to the target.
func CanTransition(from, to string) bool {
	from = storebookings.CanonicalStatus(from)
	to = storebookings.CanonicalStatus(to)
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ListResult struct {
	Items      []View `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// CreateRequest is the customer-facing booking payload.
type CreateRequest struct {
	TourID     string    `json:"tour_id" binding:"required"`
	FirstName  string    `json:"first_name" binding:"required"`
	LastName   string    `json:"last_name" binding:"required"`
	Phone      string    `json:"phone"`
	Adults     int       `json:"adults" binding:"required,min=1"`
	Children   int       `json:"children" binding:"min=0"`
	TravelDate time.Time `json:"travel_date" binding:"required"`
}

// Create books a tour for a customer. Pricing is per head at the tour's list
// price, the trip window runs from the travel date for the tour's duration,
// and the booking starts out pending until the admin confirms it.
func (s *BookingsService) Create(ctx context.Context, userID string, req CreateRequest) (*View, error) {
	tour, err := s.tours.Get(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}

	end := req.TravelDate.AddDate(0, 0, tour.DurationDays)
	b := &storebookings.Booking{
		TourID:     tour.ID,
		UserID:     userID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Status:     storebookings.StatusPending,
		TotalPrice: tour.Price * float64(req.Adults+req.Children),
		Adults:     req.Adults,
		Children:   req.Children,
		TravelDate: &req.TravelDate,
		EndDate:    &end,
	}

	b, err = s.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	v := Classify(b, s.now())
	return &v, nil
}

// List fetches the booking set, applies the admin filters in memory, and
// returns one classified page. A stored-status filter is pushed down to the
// repository; everything else is a full recompute per call, which is fine at
// dashboard scale.
func (s *BookingsService) List(ctx context.Context, f Filter, page, pageSize int) (*ListResult, error) {
	var (
		list []*storebookings.Booking
		err  error
	)
	if status := storebookings.CanonicalStatus(f.Status); status != "" {
		list, err = s.repo.ListByStatus(ctx, status)
	} else {
		list, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	var categories map[string]string
	if f.Category != "" && s.tours != nil {
		categories, err = s.tours.CategoryIndex(ctx)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	filtered := Apply(list, f, now, categories)
	pageItems, totalPages := Paginate(filtered, page, pageSize)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	return &ListResult{
		Items:      ClassifyAll(pageItems, now),
		Total:      len(filtered),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *BookingsService) Get(ctx context.Context, id string) (*View, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	v := Classify(b, s.now())
	return &v, nil
}

// UpdateStatus transitions a booking within the stored taxonomy and publishes
// a status-change event for the notification worker.
func (s *BookingsService) UpdateStatus(ctx context.Context, id, target string) (*View, error) {
	target = storebookings.CanonicalStatus(target)
	if _, ok := allowedTransitions[target]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	// The guard runs against the row-locked status inside the repository
	// transaction, not the read above, so a concurrent transition between the
	// read and the write cannot slip past the table.
	from := storebookings.CanonicalStatus(b.Status)
	if _, err := s.repo.UpdateStatus(ctx, id, target, func(previous string) error {
		from = storebookings.CanonicalStatus(previous)
		if !CanTransition(from, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		}
		return nil
	}); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			metrics.StatusTransitionsTotal.WithLabelValues(from, target, "rejected").Inc()
			return nil, err
		}
		metrics.StatusTransitionsTotal.WithLabelValues(from, target, "error").Inc()
		return nil, err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(from, target, "ok").Inc()

	// Payment lands together with the paid status.
	if target == storebookings.StatusPaid && !b.Paid {
		if err := s.repo.SetPaid(ctx, id, true); err != nil {
			s.log.Error("set paid flag", zap.Error(err), zap.String("booking_id", id))
		} else {
			b.Paid = true
		}
	}

	if s.prod != nil {
		payload := map[string]any{
			"type":       "booking_status_changed",
			"booking_id": b.ID,
			"user_id":    b.UserID,
			"from":       from,
			"to":         target,
		}
		by, _ := json.Marshal(payload)
		if err := s.prod.Publish(ctx, []byte(b.ID), by); err != nil {
			s.log.Error("kafka publish error", zap.Error(err))
		}
	}

	b.Status = target
	b.UpdatedAt = s.now()
	v := Classify(b, s.now())
	return &v, nil
}

// ExportRange returns every booking created inside [from, to], classified,
// for the admin CSV/JSON export. No pagination; exports are bounded by the
// range the admin picks.
func (s *BookingsService) ExportRange(ctx context.Context, from, to time.Time) ([]View, error) {
	list, err := s.repo.ListByCreatedRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return ClassifyAll(list, s.now()), nil
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// Import ingests legacy booking records through the canonicalizing mapper.
// Bad records are counted and reported, never fatal for the batch.
func (s *BookingsService) Import(ctx context.Context, records []json.RawMessage) (*ImportResult, error) {
	res := &ImportResult{}
	now := s.now()
	for i, raw := range records {
		b, err := ParseLegacyBooking(raw, now)
		if err != nil {
			metrics.LegacyImportsTotal.WithLabelValues("rejected").Inc()
			res.Rejected++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		if _, err := s.repo.CreateImported(ctx, b); err != nil {
			metrics.LegacyImportsTotal.WithLabelValues("error").Inc()
			res.Rejected++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		metrics.LegacyImportsTotal.WithLabelValues("ok").Inc()
		res.Imported++
	}
	return res, nil
}
