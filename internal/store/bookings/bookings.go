package bookings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store"
)

type BookingsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewBookingsRepository(db *store.DB, log *zap.Logger) *BookingsRepository {
	return &BookingsRepository{db: db, log: log}
}

const bookingColumns = `id, tour_id, user_id, first_name, last_name, phone, status,
	       total_price, paid, adults, children, travel_date, tour_date, end_date,
	       created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	err := row.Scan(
		&b.ID, &b.TourID, &b.UserID, &b.FirstName, &b.LastName, &b.Phone, &b.Status,
		&b.TotalPrice, &b.Paid, &b.Adults, &b.Children, &b.TravelDate, &b.TourDate,
		&b.EndDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookingsRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (tour_id, user_id, first_name, last_name, phone, status,
		                      total_price, paid, adults, children, travel_date, tour_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	b.Status = CanonicalStatus(b.Status)
	err := r.db.Pool.QueryRow(ctx, query,
		b.TourID, b.UserID, b.FirstName, b.LastName, b.Phone, b.Status,
		b.TotalPrice, b.Paid, b.Adults, b.Children, b.TravelDate, b.TourDate, b.EndDate).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateImported inserts a booking keeping its original creation timestamp,
// used by the legacy import path. Records arriving with a precomputed id are
// upserted so a re-run of the same export converges instead of duplicating.
func (r *BookingsRepository) CreateImported(ctx context.Context, b *Booking) (*Booking, error) {
	b.Status = CanonicalStatus(b.Status)
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	if b.ID != "" {
		query := `
			INSERT INTO bookings (id, tour_id, user_id, first_name, last_name, phone, status,
			                      total_price, paid, adults, children, travel_date, tour_date, end_date,
			                      created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (id) DO UPDATE SET
				status = EXCLUDED.status,
				total_price = EXCLUDED.total_price,
				paid = EXCLUDED.paid,
				travel_date = EXCLUDED.travel_date,
				tour_date = EXCLUDED.tour_date,
				end_date = EXCLUDED.end_date,
				updated_at = EXCLUDED.updated_at
			RETURNING id`

		err := r.db.Pool.QueryRow(ctx, query,
			b.ID, b.TourID, b.UserID, b.FirstName, b.LastName, b.Phone, b.Status,
			b.TotalPrice, b.Paid, b.Adults, b.Children, b.TravelDate, b.TourDate, b.EndDate,
			b.CreatedAt, b.UpdatedAt).
			Scan(&b.ID)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	query := `
		INSERT INTO bookings (tour_id, user_id, first_name, last_name, phone, status,
		                      total_price, paid, adults, children, travel_date, tour_date, end_date,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	err := r.db.Pool.QueryRow(ctx, query,
		b.TourID, b.UserID, b.FirstName, b.LastName, b.Phone, b.Status,
		b.TotalPrice, b.Paid, b.Adults, b.Children, b.TravelDate, b.TourDate, b.EndDate,
		b.CreatedAt, b.UpdatedAt).
		Scan(&b.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookingsRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// ListAll returns every booking, newest first. The admin dashboard recomputes
// its series over the full set, which stays small at dashboard scale.
func (r *BookingsRepository) ListAll(ctx context.Context) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingsRepository) ListByStatus(ctx context.Context, status string) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, CanonicalStatus(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingsRepository) ListByCreatedRange(ctx context.Context, from, to time.Time) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingsRepository) CountByTour(ctx context.Context, tourID string) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE tour_id = $1`, tourID).Scan(&count)
	return count, err
}

// UpdateStatus transitions a booking and returns the previous stored status.
// The guard runs against the row-locked status; a non-nil error rolls the
// transaction back without writing, so concurrent updates cannot slip past a
// check made on a stale read.
func (r *BookingsRepository) UpdateStatus(ctx context.Context, id, status string, guard func(previous string) error) (string, error) {
	var previous string
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&previous); err != nil {
			return err
		}
		if guard != nil {
			if err := guard(previous); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`,
			CanonicalStatus(status), id)
		return err
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

func (r *BookingsRepository) SetPaid(ctx context.Context, id string, paid bool) error {
	result, err := r.db.Pool.Exec(ctx, `UPDATE bookings SET paid = $1, updated_at = now() WHERE id = $2`, paid, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
