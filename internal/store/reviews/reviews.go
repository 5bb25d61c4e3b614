package reviews

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store"
)

type Review struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tour_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewReviewsRepository(db *store.DB, log *zap.Logger) *ReviewsRepository {
	return &ReviewsRepository{db: db, log: log}
}

func (r *ReviewsRepository) Create(ctx context.Context, rv *Review) (*Review, error) {
	query := `
		INSERT INTO reviews (tour_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query, rv.TourID, rv.UserID, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *ReviewsRepository) ListByTour(ctx context.Context, tourID string, limit, offset int) ([]*Review, error) {
	query := `
		SELECT id, tour_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE tour_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool.Query(ctx, query, tourID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		rv := &Review{}
		err := rows.Scan(&rv.ID, &rv.TourID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// AverageRating returns the mean rating for a tour, 0 when unreviewed.
func (r *ReviewsRepository) AverageRating(ctx context.Context, tourID string) (float64, error) {
	var avg float64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE tour_id = $1`, tourID).Scan(&avg)
	return avg, err
}

func (r *ReviewsRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
