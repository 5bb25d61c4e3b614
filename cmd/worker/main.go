package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/config"
	kafkax "github.com/roamtours/tourdesk/internal/kafka"
	"github.com/roamtours/tourdesk/internal/logger"
	"github.com/roamtours/tourdesk/internal/mailer"
	mailerService "github.com/roamtours/tourdesk/internal/service/mailer"
	notifierService "github.com/roamtours/tourdesk/internal/service/notifier"
	"github.com/roamtours/tourdesk/internal/store"
	storeBookings "github.com/roamtours/tourdesk/internal/store/bookings"
	storeTours "github.com/roamtours/tourdesk/internal/store/tours"
	storeUsers "github.com/roamtours/tourdesk/internal/store/users"
	"github.com/roamtours/tourdesk/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	log.Info("worker starting")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := store.NewDB(ctx, cfg.PostgresURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Create repositories
	bookingsRepo := storeBookings.NewBookingsRepository(db, log)
	toursRepo := storeTours.NewToursRepository(db, log)
	usersRepo := storeUsers.NewUsersRepository(db, log)

	// Create mailer service
	mailerSender := &mailer.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	mailerSvc := mailerService.NewMailerService(log, mailerSender)

	// Create notifier service
	notifierSvc := notifierService.NewNotifierService(log, bookingsRepo, toursRepo, usersRepo, mailerSvc)

	// Create Kafka consumer and DLQ producer
	consumer := kafkax.NewConsumer([]string{cfg.KafkaBrokers}, "tourdesk-notifier", "bookings")
	defer consumer.Close()
	dlq := kafkax.NewProducer([]string{cfg.KafkaBrokers}, "bookings-dlq")
	defer dlq.Close()

	// Create and run the notifier loop
	n := worker.NewNotifier(log, notifierSvc, consumer, dlq, cfg.MaxWorkerRoutineCount)
	_ = n.Run(ctx)

	log.Info("worker stopped")
}
