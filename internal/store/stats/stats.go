package stats

import (
	"context"

	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store"
)

type StatsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewStatsRepository(db *store.DB, log *zap.Logger) *StatsRepository {
	return &StatsRepository{db: db, log: log}
}

type Summary struct {
	TotalBookings   int            `json:"total_bookings"`
	TotalTours      int            `json:"total_tours"`
	TotalUsers      int            `json:"total_users"`
	TotalReviews    int            `json:"total_reviews"`
	TotalRevenue    float64        `json:"total_revenue"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
	PopularTours    []PopularTour  `json:"popular_tours"`
}

type PopularTour struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Bookings int    `json:"bookings"`
}

func (r *StatsRepository) GetSummary(ctx context.Context) (*Summary, error) {
	summary := &Summary{StatusBreakdown: map[string]int{}}

	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&summary.TotalBookings)
	if err != nil {
		return nil, err
	}

	err = r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM tours`).Scan(&summary.TotalTours)
	if err != nil {
		return nil, err
	}

	err = r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&summary.TotalUsers)
	if err != nil {
		return nil, err
	}

	err = r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&summary.TotalReviews)
	if err != nil {
		return nil, err
	}

	// Revenue-recognized statuses only.
	err = r.db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_price), 0)
		FROM bookings
		WHERE status IN ('paid', 'completed', 'refunded')
	`).Scan(&summary.TotalRevenue)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.StatusBreakdown[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	popular, err := r.popularTours(ctx, 5)
	if err != nil {
		return nil, err
	}
	summary.PopularTours = popular

	return summary, nil
}

func (r *StatsRepository) popularTours(ctx context.Context, limit int) ([]PopularTour, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT t.id, t.name, COUNT(b.id) AS bookings
		FROM tours t
		LEFT JOIN bookings b ON b.tour_id = t.id::text
		GROUP BY t.id, t.name
		ORDER BY bookings DESC, t.name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PopularTour
	for rows.Next() {
		var p PopularTour
		if err := rows.Scan(&p.ID, &p.Name, &p.Bookings); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
