package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"career-compass/app/config"

	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

type Email struct {
	To         string
	Subject    string
	HTML       string
	Attachment *Attachment
}

// Mailer delivers outbound email. Implementations must honor the context
// deadline; a hung SMTP conversation must not stall the caller forever.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// SMTPMailer sends mail over SMTP with a per-send timeout.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	timeout time.Duration
}

func NewSMTPMailer(cfg config.SMTPConfig, timeout time.Duration) *SMTPMailer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SMTPMailer{cfg: cfg, timeout: timeout}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Email) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.dialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
		}
		log.WithField("to", msg.To).Info("Mail delivered")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail send to %s timed out: %w", msg.To, ctx.Err())
	}
}

func (m *SMTPMailer) dialAndSend(msg Email) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.cfg.From)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/html", msg.HTML)

	if msg.Attachment != nil {
		att := msg.Attachment
		message.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.Content)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}),
		)
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(message)
}
