package service

import (
	"fmt"

	"masha/config"

	"gopkg.in/gomail.v2"
)

// EmailService sends system notification mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether outgoing mail is configured. Callers treat a
// disabled service as a no-op rather than an error.
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendWelcome mails a newly created user their sign-in details.
func (s *EmailService) SendWelcome(toEmail, name string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service is not enabled")
	}

	subject := "Your account is ready"
	body := s.generateWelcomeBody(name)

	return s.sendEmail(toEmail, subject, body)
}

func (s *EmailService) generateWelcomeBody(name string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>Welcome, %s</h2>
    <p>An account has been opened for you in the status tracking system.</p>
    <p>Sign in with your personal number. No password is required.</p>
    <p style="color: #666;">This message was sent automatically, do not reply.</p>
</body>
</html>
`, name)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}

	return nil
}
