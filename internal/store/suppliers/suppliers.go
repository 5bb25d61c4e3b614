package suppliers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store"
)

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SuppliersRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewSuppliersRepository(db *store.DB, log *zap.Logger) *SuppliersRepository {
	return &SuppliersRepository{db: db, log: log}
}

func (r *SuppliersRepository) Create(ctx context.Context, s *Supplier) (*Supplier, error) {
	query := `
		INSERT INTO suppliers (name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.Pool.QueryRow(ctx, query, s.Name, s.Email, s.Phone, s.Address).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SuppliersRepository) Get(ctx context.Context, id string) (*Supplier, error) {
	query := `SELECT id, name, email, phone, address, created_at, updated_at FROM suppliers WHERE id = $1`

	s := &Supplier{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *SuppliersRepository) List(ctx context.Context, limit, offset int) ([]*Supplier, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM suppliers
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*Supplier
	for rows.Next() {
		s := &Supplier{}
		err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *SuppliersRepository) Update(ctx context.Context, id string, s *Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, email = $2, phone = $3, address = $4, updated_at = now()
		WHERE id = $5`

	result, err := r.db.Pool.Exec(ctx, query, s.Name, s.Email, s.Phone, s.Address, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *SuppliersRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
