package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/healthecon360/analytics-api/config"
)

type Service interface {
	SendVerification(ctx context.Context, email string, token string) error
	SendPasswordReset(ctx context.Context, email string, token string) error
	SendWelcome(ctx context.Context, email string, name string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type smtpService struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewSMTPService(cfg config.SMTPConfig, baseURL string) Service {
	return &smtpService{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: baseURL,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendVerification(ctx context.Context, email string, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.baseURL, token)
	body := fmt.Sprintf(`<p>Welcome to HealthEcon360.</p>
<p>Please <a href="%s">verify your email address</a> to activate your account.</p>`, link)
	return s.send(email, "Verify your email", body)
}

func (s *smtpService) SendPasswordReset(ctx context.Context, email string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	body := fmt.Sprintf(`<p>A password reset was requested for your account.</p>
<p><a href="%s">Reset your password</a>. If you did not request this, ignore this email.</p>`, link)
	return s.send(email, "Reset your password", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, email string, name string) error {
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your account is active. You can now record pricing, resource, and outcome data
and explore the analytics reports.</p>`, name)
	return s.send(email, "Welcome to HealthEcon360", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	return s.send(to, subject, content)
}

// NoopService discards all mail. Used when SMTP is not configured.
type NoopService struct{}

func (NoopService) SendVerification(context.Context, string, string) error   { return nil }
func (NoopService) SendPasswordReset(context.Context, string, string) error  { return nil }
func (NoopService) SendWelcome(context.Context, string, string) error        { return nil }
func (NoopService) SendCustom(context.Context, string, string, string) error { return nil }
