package mailer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/roamtours/tourdesk/internal/mailer"
)

type MailerService struct {
	log    *zap.Logger
	sender mailer.Sender
}

func NewMailerService(log *zap.Logger, sender mailer.Sender) *MailerService {
	return &MailerService{log: log, sender: sender}
}

func (m *MailerService) SendConfirmationEmail(userEmail, tourName string, total float64) error {
	subject := fmt.Sprintf("Booking confirmed: %s", tourName)
	body := fmt.Sprintf(`
Dear traveler,

Your booking for "%s" has been confirmed.

Total: %.0f

We look forward to having you!

Best regards,
Tourdesk Team
`, tourName, total)

	return m.send(userEmail, subject, body, "confirmation")
}

func (m *MailerService) SendCancellationEmail(userEmail, tourName string, refundEligible bool) error {
	subject := fmt.Sprintf("Booking canceled: %s", tourName)
	note := "This booking is not eligible for a refund request."
	if refundEligible {
		note = "You may request a refund from your booking page until 7 days before the travel date."
	}
	body := fmt.Sprintf(`
Dear traveler,

Your booking for "%s" has been canceled.

%s

Best regards,
Tourdesk Team
`, tourName, note)

	return m.send(userEmail, subject, body, "cancellation")
}

func (m *MailerService) SendRefundEmail(userEmail, tourName string, amount float64) error {
	subject := fmt.Sprintf("Refund processed: %s", tourName)
	body := fmt.Sprintf(`
Dear traveler,

Your refund of %.0f for "%s" has been processed. It should arrive within 5-7
business days.

Best regards,
Tourdesk Team
`, amount, tourName)

	return m.send(userEmail, subject, body, "refund")
}

func (m *MailerService) send(to, subject, body, kind string) error {
	mail := mailer.Mail{To: to, Subject: subject, Body: body}
	if err := m.sender.Send(mail); err != nil {
		m.log.Error("Failed to send email", zap.Error(err), zap.String("email", to), zap.String("kind", kind))
		return err
	}
	m.log.Info("Email sent", zap.String("email", to), zap.String("kind", kind))
	return nil
}
