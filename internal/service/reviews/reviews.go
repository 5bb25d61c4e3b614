package reviews

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store/reviews"
)

var ErrBadRating = errors.New("rating must be between 1 and 5")

type ReviewsService struct {
	log  *zap.Logger
	repo *reviews.ReviewsRepository
}

func NewReviewsService(log *zap.Logger, repo *reviews.ReviewsRepository) *ReviewsService {
	return &ReviewsService{log: log, repo: repo}
}

func (s *ReviewsService) Create(ctx context.Context, rv *reviews.Review) (*reviews.Review, error) {
	if rv.Rating < 1 || rv.Rating > 5 {
		return nil, ErrBadRating
	}
	return s.repo.Create(ctx, rv)
}

func (s *ReviewsService) ListByTour(ctx context.Context, tourID string, limit, offset int) ([]*reviews.Review, error) {
	return s.repo.ListByTour(ctx, tourID, limit, offset)
}

func (s *ReviewsService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
