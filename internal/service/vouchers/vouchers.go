package vouchers

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/store/vouchers"
)

var (
	ErrNotFound   = errors.New("voucher not found")
	ErrNotStarted = errors.New("voucher is not valid yet")
	ErrExpired    = errors.New("voucher has expired")
)

type VouchersService struct {
	log  *zap.Logger
	repo *vouchers.VouchersRepository
	now  func() time.Time
}

func NewVouchersService(log *zap.Logger, repo *vouchers.VouchersRepository) *VouchersService {
	return &VouchersService{log: log, repo: repo, now: time.Now}
}

func (s *VouchersService) Create(ctx context.Context, v *vouchers.Voucher) (*vouchers.Voucher, error) {
	return s.repo.Create(ctx, v)
}

func (s *VouchersService) List(ctx context.Context, limit, offset int) ([]*vouchers.Voucher, error) {
	return s.repo.List(ctx, limit, offset)
}

// Redeem validates the voucher's window before consuming a use.
func (s *VouchersService) Redeem(ctx context.Context, code string) (*vouchers.Voucher, error) {
	v, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}

	now := s.now()
	if now.Before(v.ValidFrom) {
		return nil, ErrNotStarted
	}
	if now.After(v.ValidTo) {
		return nil, ErrExpired
	}

	return s.repo.Redeem(ctx, code)
}

func (s *VouchersService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
