package stats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/roamtours/tourdesk/internal/metrics"
	redisx "github.com/roamtours/tourdesk/internal/redis"
	"github.com/roamtours/tourdesk/internal/store/bookings"
	storestats "github.com/roamtours/tourdesk/internal/store/stats"
)

// BookingSource is the slice of the bookings repository the aggregator needs.
type BookingSource interface {
	ListAll(ctx context.Context) ([]*bookings.Booking, error)
}

// SummarySource provides the SQL rollups for the dashboard summary.
type SummarySource interface {
	GetSummary(ctx context.Context) (*storestats.Summary, error)
}

// StatsService serves the dashboard aggregations. Recomputes are guarded by a
// singleflight group so concurrent polls from the admin UI collapse into one
// computation, and results live in Redis for a short TTL.
type StatsService struct {
	log      *zap.Logger
	bookings BookingSource
	rollups  SummarySource
	cache    *redisx.Cache
	ttl      time.Duration
	group    singleflight.Group
}

func NewStatsService(log *zap.Logger, bookings BookingSource, rollups SummarySource, cache *redisx.Cache, ttl time.Duration) *StatsService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsService{log: log, bookings: bookings, rollups: rollups, cache: cache, ttl: ttl}
}

func (s *StatsService) Monthly(ctx context.Context, month time.Month, year int) (*MonthlySeries, error) {
	key := fmt.Sprintf("dashboard:monthly:%04d-%02d", year, int(month))

	if s.cache != nil {
		var cached MonthlySeries
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warn("stats cache read failed", zap.Error(err))
		}
		if hit {
			metrics.DashboardCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		metrics.DashboardCacheTotal.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		list, err := s.bookings.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		series := BuildMonthlySeries(list, month, year, time.UTC)
		metrics.DashboardRecomputeDuration.Observe(time.Since(start).Seconds())

		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, key, series, s.ttl); err != nil {
				s.log.Warn("stats cache write failed", zap.Error(err))
			}
		}
		return &series, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*MonthlySeries), nil
}

func (s *StatsService) Summary(ctx context.Context) (*storestats.Summary, error) {
	const key = "dashboard:summary"

	if s.cache != nil {
		var cached storestats.Summary
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warn("stats cache read failed", zap.Error(err))
		}
		if hit {
			metrics.DashboardCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		metrics.DashboardCacheTotal.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		summary, err := s.rollups.GetSummary(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, key, summary, s.ttl); err != nil {
				s.log.Warn("stats cache write failed", zap.Error(err))
			}
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*storestats.Summary), nil
}
