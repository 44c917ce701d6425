package notificator

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
)

// sendMailFunc has the signature of smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotificator mails wallet activity to the email on the connected
// profile. Notifications without an email are skipped.
type EmailNotificator struct {
	logger *logger.Logger

	SMTPHost   string
	SMTPPort   int
	SMTPSender string

	SMTPAuth smtp.Auth

	sendMail sendMailFunc
}

func NewEmailNotificator(logger *logger.Logger, SMTPHost string, SMTPPort int, SMTPUser string, SMTPPassword string, SMTPSender string) *EmailNotificator {
	var auth smtp.Auth
	if SMTPUser != "" {
		auth = smtp.PlainAuth(
			"",
			SMTPUser,
			SMTPPassword,
			SMTPHost,
		)
	}

	return &EmailNotificator{
		logger:     logger,
		SMTPHost:   SMTPHost,
		SMTPPort:   SMTPPort,
		SMTPSender: SMTPSender,
		SMTPAuth:   auth,
		sendMail:   smtp.SendMail,
	}
}

func (e *EmailNotificator) Name() string { return "email" }

func (e *EmailNotificator) Send(notification *models.Notification, message string) error {
	to := notification.Email
	if to == "" {
		return nil
	}
	addr := fmt.Sprintf("%s:%s", e.SMTPHost, strconv.Itoa(e.SMTPPort))
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		e.SMTPSender,
		to,
		emailSubject(notification.Kind),
		message,
	)
	if err := e.sendMail(addr, e.SMTPAuth, e.SMTPSender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	e.logger.Debug("Email sent", "to", to, "kind", notification.Kind)
	return nil
}

func emailSubject(kind models.NotificationKind) string {
	switch kind {
	case models.NotificationTrade:
		return "TokenPulse trade executed"
	case models.NotificationDeposit:
		return "TokenPulse funds added"
	default:
		return "TokenPulse notification"
	}
}
