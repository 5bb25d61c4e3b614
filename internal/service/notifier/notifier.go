package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/metrics"
	servicebookings "github.com/roamtours/tourdesk/internal/service/bookings"
	mailerService "github.com/roamtours/tourdesk/internal/service/mailer"
	"github.com/roamtours/tourdesk/internal/store/bookings"
	"github.com/roamtours/tourdesk/internal/store/tours"
	"github.com/roamtours/tourdesk/internal/store/users"
)

// StatusChangedPayload is the wire schema of booking status events.
type StatusChangedPayload struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type NotifierService struct {
	log      *zap.Logger
	bookings *bookings.BookingsRepository
	tours    *tours.ToursRepository
	users    *users.UsersRepository
	mailer   *mailerService.MailerService
}

func NewNotifierService(log *zap.Logger, bookings *bookings.BookingsRepository, tours *tours.ToursRepository, users *users.UsersRepository, mailer *mailerService.MailerService) *NotifierService {
	return &NotifierService{
		log:      log,
		bookings: bookings,
		tours:    tours,
		users:    users,
		mailer:   mailer,
	}
}

// HandleStatusChanged sends the customer email matching a status transition.
// Transitions without a customer-facing message are committed silently.
func (s *NotifierService) HandleStatusChanged(ctx context.Context, payload StatusChangedPayload) error {
	booking, err := s.bookings.GetByID(ctx, payload.BookingID)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", payload.BookingID))
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking not found: %s", payload.BookingID)
	}

	tourName := "your tour"
	if tour, err := s.tours.Get(ctx, booking.TourID); err == nil && tour != nil {
		tourName = tour.Name
	}

	// Imported legacy bookings reference users from the previous backend, so
	// an unresolvable recipient is a skip, not a retryable failure.
	var recipient string
	if payload.UserID != "" {
		user, err := s.users.GetByID(ctx, payload.UserID)
		if err != nil {
			s.log.Warn("Failed to resolve recipient", zap.Error(err), zap.String("user_id", payload.UserID))
		} else if user != nil {
			recipient = user.Email
		}
	}
	if recipient == "" {
		s.log.Warn("No recipient for status notification",
			zap.String("booking_id", payload.BookingID), zap.String("to", payload.To))
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	switch payload.To {
	case bookings.StatusConfirmed:
		err = s.mailer.SendConfirmationEmail(recipient, tourName, booking.TotalPrice)
	case bookings.StatusCanceled:
		view := servicebookings.Classify(booking, booking.UpdatedAt)
		err = s.mailer.SendCancellationEmail(recipient, tourName, view.CanRefundRequest)
	case bookings.StatusRefunded:
		err = s.mailer.SendRefundEmail(recipient, tourName, booking.TotalPrice)
	default:
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	return nil
}
