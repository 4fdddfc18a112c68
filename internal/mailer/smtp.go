package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
)

// SMTPConfig holds the connection and envelope settings for SMTP delivery.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string // empty disables SMTP AUTH
	Password    string
	FromName    string
	FromAddress string
}

// smtpClient is the subset of *mail.Client used by SMTP, narrowed for tests.
type smtpClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTP is a notify.Sender that delivers each message over its own SMTP session.
type SMTP struct {
	client      smtpClient
	fromName    string
	fromAddress string
}

// NewSMTP builds an SMTP sender. STARTTLS is used when the server offers it.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer.NewSMTP: %w", err)
	}
	return newSMTP(client, cfg.FromName, cfg.FromAddress), nil
}

func newSMTP(client smtpClient, fromName, fromAddress string) *SMTP {
	return &SMTP{client: client, fromName: fromName, fromAddress: fromAddress}
}

// Send renders msg as an HTML email and delivers it.
func (s *SMTP) Send(ctx context.Context, msg notify.Message) error {
	m, err := s.build(msg)
	if err != nil {
		return fmt.Errorf("mailer.SMTP.Send: %w", err)
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mailer.SMTP.Send: %w", err)
	}
	return nil
}

func (s *SMTP) build(msg notify.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.fromAddress); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}
