package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/castellan/site-auth/internal/infrastructure/config"
	"go.uber.org/zap"
)

// EmailService delivers notification mail over SMTP. It is constructed with
// the configuration it needs; no process-wide client state.
type EmailService struct {
	config *config.Config
	logger *zap.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(cfg *config.Config, logger *zap.Logger) *EmailService {
	return &EmailService{
		config: cfg,
		logger: logger,
	}
}

// SendSignupCode sends the account verification code to the user
func (s *EmailService) SendSignupCode(ctx context.Context, email, name, code string) error {
	subject := "Verify your account"
	body := fmt.Sprintf(`Hi %s,

Welcome! To activate your account, please use this verification code:
%s

This code can be used once and will expire in 24 hours.

If you didn't sign up, you can safely ignore this email.
`, name, code)

	return s.sendEmail(email, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	message := fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", s.config.SMTPFromName, s.config.SMTPFrom, to, subject, body)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(
		fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort),
		auth,
		s.config.SMTPFrom,
		[]string{to},
		[]byte(message),
	)

	if err != nil {
		s.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}

	s.logger.Info("Email sent successfully",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
