// Package notify tells the site operator about new contact messages.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"

	"atelier/internal/domain/models"

	"github.com/wneessen/go-mail"
)

// MailConfig holds SMTP settings
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	SiteName string
}

// MailNotifier emails each new message to the operator.
type MailNotifier struct {
	cfg    MailConfig
	logger *slog.Logger
}

// NewMailNotifier creates a notifier
func NewMailNotifier(cfg MailConfig, logger *slog.Logger) *MailNotifier {
	return &MailNotifier{cfg: cfg, logger: logger}
}

// NotifyMessage sends msg to the operator inbox with Reply-To set to the sender
func (n *MailNotifier) NotifyMessage(ctx context.Context, msg *models.Message) error {
	m, err := n.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: n.cfg.Host,
		}),
	)
	if err != nil {
		return fmt.Errorf("create SMTP client (host=%s port=%d): %w", n.cfg.Host, n.cfg.Port, err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send notification (host=%s port=%d): %w", n.cfg.Host, n.cfg.Port, err)
	}

	n.logger.Info("message notification sent", "id", msg.ID, "to", n.cfg.To)
	return nil
}

func (n *MailNotifier) buildMessage(msg *models.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(n.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if err := m.ReplyTo(msg.Email); err != nil {
		n.logger.Debug("reply-to not set", "email", msg.Email, "error", err)
	}

	m.Subject(subject(n.cfg.SiteName, msg))
	m.SetBodyString(mail.TypeTextPlain, body(msg))
	return m, nil
}

func subject(site string, msg *models.Message) string {
	if site == "" {
		return "New contact message from " + msg.Name
	}
	return fmt.Sprintf("[%s] New contact message from %s", site, msg.Name)
}

func body(msg *models.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	fmt.Fprintf(&b, "Received: %s\n\n", msg.CreatedAt.Format("2006-01-02 15:04 MST"))
	b.WriteString(msg.Message)
	b.WriteString("\n")
	return b.String()
}

// LogNotifier records messages in the log when SMTP is not configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyMessage logs msg
func (n *LogNotifier) NotifyMessage(ctx context.Context, msg *models.Message) error {
	n.logger.Info("new contact message (SMTP disabled)", "id", msg.ID, "from", msg.Email)
	return nil
}
