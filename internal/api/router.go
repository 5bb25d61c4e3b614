package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/api/auth"
	"github.com/roamtours/tourdesk/internal/api/bookings"
	"github.com/roamtours/tourdesk/internal/api/dashboard"
	"github.com/roamtours/tourdesk/internal/api/reviews"
	"github.com/roamtours/tourdesk/internal/api/suppliers"
	"github.com/roamtours/tourdesk/internal/api/tours"
	"github.com/roamtours/tourdesk/internal/api/users"
	vouchersHandler "github.com/roamtours/tourdesk/internal/api/vouchers"
	"github.com/roamtours/tourdesk/internal/config"
	kafkax "github.com/roamtours/tourdesk/internal/kafka"
	"github.com/roamtours/tourdesk/internal/middleware"
	redisx "github.com/roamtours/tourdesk/internal/redis"
	authService "github.com/roamtours/tourdesk/internal/service/auth"
	bookingsService "github.com/roamtours/tourdesk/internal/service/bookings"
	reviewsService "github.com/roamtours/tourdesk/internal/service/reviews"
	statsService "github.com/roamtours/tourdesk/internal/service/stats"
	toursService "github.com/roamtours/tourdesk/internal/service/tours"
	vouchersService "github.com/roamtours/tourdesk/internal/service/vouchers"
	"github.com/roamtours/tourdesk/internal/store"
	storeBookings "github.com/roamtours/tourdesk/internal/store/bookings"
	storeReviews "github.com/roamtours/tourdesk/internal/store/reviews"
	storeStats "github.com/roamtours/tourdesk/internal/store/stats"
	storeSuppliers "github.com/roamtours/tourdesk/internal/store/suppliers"
	storeTours "github.com/roamtours/tourdesk/internal/store/tours"
	storeUsers "github.com/roamtours/tourdesk/internal/store/users"
	storeVouchers "github.com/roamtours/tourdesk/internal/store/vouchers"
)

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(r *gin.Engine, log *zap.Logger) {
	r.Use(middleware.MetricsMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Tourdesk",
			"description": "Tour booking platform with admin analytics, lifecycle tracking, and legacy data import.",
			"version":     "1.0.0",
			"endpoints":   []string{"/v1/health", "/v1/auth", "/v1/tours", "/v1/vouchers", "/admin"},
		})
	})
	r.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cfg := config.Load()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	cache := redisx.NewCache(cfg.RedisAddr)
	r.Use(middleware.HybridRateLimit(cache.GetClient(), 50, 100))

	// DI wiring for all services
	db, err := store.NewDB(context.Background(), cfg.PostgresURL, int32(cfg.MaxDBConnections))
	if err == nil {
		// When DB is unavailable, endpoints will still serve 500 gracefully.

		// Create repositories
		bookingsRepo := storeBookings.NewBookingsRepository(db, log)
		toursRepo := storeTours.NewToursRepository(db, log)
		usersRepo := storeUsers.NewUsersRepository(db, log)
		reviewsRepo := storeReviews.NewReviewsRepository(db, log)
		suppliersRepo := storeSuppliers.NewSuppliersRepository(db, log)
		vouchersRepo := storeVouchers.NewVouchersRepository(db, log)
		statsRepo := storeStats.NewStatsRepository(db, log)

		// Create services
		producer := kafkax.NewProducer([]string{cfg.KafkaBrokers}, "bookings")
		authSvc := authService.NewAuthService(log, usersRepo, cfg.JWTSigningSecret)
		bookingsSvc := bookingsService.NewBookingsService(log, bookingsRepo, toursRepo, producer)
		toursSvc := toursService.NewToursService(log, toursRepo, reviewsRepo, bookingsRepo)
		reviewsSvc := reviewsService.NewReviewsService(log, reviewsRepo)
		vouchersSvc := vouchersService.NewVouchersService(log, vouchersRepo)
		statsSvc := statsService.NewStatsService(log, bookingsRepo, statsRepo, cache, cfg.StatsCacheTTL)

		// Register handlers
		auth.NewAuthHandler(log, authSvc, cfg.JWTSigningSecret).Register(r)
		tours.NewToursHandler(log, toursSvc, cfg.JWTSigningSecret).Register(r)
		bookings.NewBookingsHandler(log, bookingsSvc, cfg.JWTSigningSecret).Register(r)
		dashboard.NewDashboardHandler(log, statsSvc, cfg.JWTSigningSecret).Register(r)
		reviews.NewReviewsHandler(log, reviewsSvc, cfg.JWTSigningSecret).Register(r)
		suppliers.NewSuppliersHandler(log, suppliersRepo, cfg.JWTSigningSecret).Register(r)
		vouchersHandler.NewVouchersHandler(log, vouchersSvc, cfg.JWTSigningSecret).Register(r)
		users.NewUsersHandler(log, usersRepo, cfg.JWTSigningSecret).Register(r)
	} else {
		log.Warn("db init failed", zap.Error(err))
	}
}
