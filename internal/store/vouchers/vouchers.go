package vouchers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store"
)

var ErrExhausted = errors.New("voucher usage limit reached")

type Voucher struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	PercentOff int       `json:"percent_off"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidTo    time.Time `json:"valid_to"`
	UsageLimit int       `json:"usage_limit"`
	UsedCount  int       `json:"used_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type VouchersRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewVouchersRepository(db *store.DB, log *zap.Logger) *VouchersRepository {
	return &VouchersRepository{db: db, log: log}
}

const voucherColumns = `id, code, percent_off, valid_from, valid_to, usage_limit, used_count, created_at, updated_at`

func scanVoucher(row pgx.Row) (*Voucher, error) {
	v := &Voucher{}
	err := row.Scan(&v.ID, &v.Code, &v.PercentOff, &v.ValidFrom, &v.ValidTo,
		&v.UsageLimit, &v.UsedCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VouchersRepository) Create(ctx context.Context, v *Voucher) (*Voucher, error) {
	query := `
		INSERT INTO vouchers (code, percent_off, valid_from, valid_to, usage_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, used_count, created_at, updated_at`

	err := r.db.Pool.QueryRow(ctx, query,
		v.Code, v.PercentOff, v.ValidFrom, v.ValidTo, v.UsageLimit).
		Scan(&v.ID, &v.UsedCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VouchersRepository) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE code = $1`

	v, err := scanVoucher(r.db.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *VouchersRepository) List(ctx context.Context, limit, offset int) ([]*Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []*Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

// Redeem increments the usage counter, guarded against exceeding the limit.
func (r *VouchersRepository) Redeem(ctx context.Context, code string) (*Voucher, error) {
	var redeemed *Voucher
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		v, err := scanVoucher(tx.QueryRow(ctx,
			`SELECT `+voucherColumns+` FROM vouchers WHERE code = $1 FOR UPDATE`, code))
		if err != nil {
			return err
		}
		if v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit {
			return ErrExhausted
		}
		_, err = tx.Exec(ctx,
			`UPDATE vouchers SET used_count = used_count + 1, updated_at = now() WHERE id = $1`, v.ID)
		if err != nil {
			return err
		}
		v.UsedCount++
		redeemed = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redeemed, nil
}

func (r *VouchersRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
