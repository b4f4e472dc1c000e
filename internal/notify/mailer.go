// Package notify emails generated certificates to participants.
package notify

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"eduquiz-service/internal/cert"
	"eduquiz-service/internal/domain"
)

// Config holds the SMTP transport settings. Credentials come from
// configuration (file or environment), never from call sites.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Mailer sends certificate emails over SMTP with SSL. It makes a single
// attempt per call; any failure (dial, auth, attachment read, send) surfaces
// as a *domain.DeliveryError and the caller decides what to do with it.
type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Mailer{cfg: cfg}
}

// Send delivers the certificate at certPath to the participant. The send is
// bounded by the configured timeout so a stalled SMTP conversation cannot
// hold the submission request indefinitely.
func (m *Mailer) Send(ctx context.Context, to, name, topic, certPath string, score, total int) error {
	display := cert.TitleTopic(topic)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("%s Quiz Certificate - EduQuiz", display))
	msg.SetBody("text/plain", fmt.Sprintf(`Hi %s,

Congratulations on completing your %s Quiz!

Score: %d/%d
Your Certificate is attached below.

Best wishes,
EduQuiz Team
`, name, display, score, total))
	msg.Attach(certPath)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	dialer.SSL = true

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return &domain.DeliveryError{Err: err}
		}
		return nil
	case <-ctx.Done():
		return &domain.DeliveryError{Err: ctx.Err()}
	case <-time.After(m.cfg.Timeout):
		return &domain.DeliveryError{Err: fmt.Errorf("smtp send timed out after %s", m.cfg.Timeout)}
	}
}
