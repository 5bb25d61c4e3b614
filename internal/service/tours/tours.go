package tours

import (
	"context"
	"errors"

	"go.uber.org/zap"

	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
	"github.com/roamtours/tourdesk/internal/store/reviews"
	"github.com/roamtours/tourdesk/internal/store/tours"
)

var (
	ErrNotFound    = errors.New("tour not found")
	ErrHasBookings = errors.New("tour has bookings and cannot be deleted")
)

type ToursService struct {
	log      *zap.Logger
	repo     *tours.ToursRepository
	reviews  *reviews.ReviewsRepository
	bookings *storebookings.BookingsRepository
}

func NewToursService(log *zap.Logger, repo *tours.ToursRepository, reviews *reviews.ReviewsRepository, bookings *storebookings.BookingsRepository) *ToursService {
	return &ToursService{log: log, repo: repo, reviews: reviews, bookings: bookings}
}

type TourDetail struct {
	*tours.Tour
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

func (s *ToursService) Create(ctx context.Context, t *tours.Tour) (*tours.Tour, error) {
	return s.repo.Create(ctx, t)
}

func (s *ToursService) Get(ctx context.Context, id string) (*TourDetail, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}

	avg, err := s.reviews.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := s.reviews.ListByTour(ctx, id, 1000, 0)
	if err != nil {
		return nil, err
	}

	return &TourDetail{Tour: t, AverageRating: avg, ReviewCount: len(list)}, nil
}

func (s *ToursService) List(ctx context.Context, limit, offset int, q, category string, minPrice, maxPrice *float64) ([]*tours.Tour, error) {
	return s.repo.List(ctx, limit, offset, q, category, minPrice, maxPrice)
}

func (s *ToursService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *ToursService) Update(ctx context.Context, id string, t *tours.Tour) error {
	return s.repo.Update(ctx, id, t)
}

// Delete refuses to remove a tour that still has bookings pointing at it.
func (s *ToursService) Delete(ctx context.Context, id string) error {
	count, err := s.bookings.CountByTour(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasBookings
	}
	return s.repo.Delete(ctx, id)
}
