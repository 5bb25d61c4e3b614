package tours

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store"
)

type Tour struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"duration_days"`
	SupplierID   *string   `json:"supplier_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ToursRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewToursRepository(db *store.DB, log *zap.Logger) *ToursRepository {
	return &ToursRepository{db: db, log: log}
}

const tourColumns = `id, name, description, category, price, duration_days, supplier_id, created_at, updated_at`

func scanTour(row pgx.Row) (*Tour, error) {
	t := &Tour{}
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.Price,
		&t.DurationDays, &t.SupplierID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ToursRepository) Create(ctx context.Context, t *Tour) (*Tour, error) {
	query := `
		INSERT INTO tours (name, description, category, price, duration_days, supplier_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.Pool.QueryRow(ctx, query,
		t.Name, t.Description, t.Category, t.Price, t.DurationDays, t.SupplierID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ToursRepository) Get(ctx context.Context, id string) (*Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	t, err := scanTour(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *ToursRepository) List(ctx context.Context, limit, offset int, q, category string, minPrice, maxPrice *float64) ([]*Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	if q != "" {
		query += ` AND name ILIKE $` + fmt.Sprintf("%d", argIndex)
		args = append(args, "%"+q+"%")
		argIndex++
	}
	if category != "" {
		query += ` AND category = $` + fmt.Sprintf("%d", argIndex)
		args = append(args, category)
		argIndex++
	}
	if minPrice != nil {
		query += ` AND price >= $` + fmt.Sprintf("%d", argIndex)
		args = append(args, *minPrice)
		argIndex++
	}
	if maxPrice != nil {
		query += ` AND price <= $` + fmt.Sprintf("%d", argIndex)
		args = append(args, *maxPrice)
		argIndex++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + fmt.Sprintf("%d", argIndex) + ` OFFSET $` + fmt.Sprintf("%d", argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []*Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

func (r *ToursRepository) Update(ctx context.Context, id string, t *Tour) error {
	query := `
		UPDATE tours
		SET name = $1, description = $2, category = $3, price = $4, duration_days = $5,
		    supplier_id = $6, updated_at = now()
		WHERE id = $7`

	result, err := r.db.Pool.Exec(ctx, query,
		t.Name, t.Description, t.Category, t.Price, t.DurationDays, t.SupplierID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ToursRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CategoryIndex maps tour id to category, used by the booking listing filter.
func (r *ToursRepository) CategoryIndex(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, category FROM tours`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := map[string]string{}
	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, err
		}
		index[id] = category
	}
	return index, rows.Err()
}

// Categories returns the distinct category labels in use, for filter dropdowns.
func (r *ToursRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT category FROM tours WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
