package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"job-portal/internal/config"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp not configured")

type Message struct {
	To      string
	Subject string
	Body    string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	sender  sender
	from    string
	timeout time.Duration
	logger  *log.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *log.Logger) *SMTPMailer {
	m := &SMTPMailer{from: cfg.From, timeout: cfg.Timeout, logger: logger}
	if cfg.Host != "" {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	} else if logger != nil {
		logger.Printf("[Mail] SMTP_HOST not set, outbound mail disabled")
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m == nil || m.sender == nil {
		return ErrNotConfigured
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- m.sender.DialAndSend(gm)
	}()

	select {
	case err := <-done:
		if err != nil {
			if m.logger != nil {
				m.logger.Printf("[Mail] send failed | to=%s subject=%q err=%v", msg.To, msg.Subject, err)
			}
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		if m.logger != nil {
			m.logger.Printf("[Mail] send timed out | to=%s subject=%q", msg.To, msg.Subject)
		}
		return ctx.Err()
	}
}
