package mailer

import (
	"context"
	"fmt"
	"strings"

	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

// Message is a single outgoing email with a plain-text body and an optional
// HTML alternative.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message through one transport.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderLog      = "log"
)

// NewSender builds the transport named by cfg.Provider.
func NewSender(cfg utils.MailConfig, log *zap.Logger) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderSMTP, "":
		return NewSMTPSender(cfg, log), nil
	case ProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("mail provider sendgrid requires SENDGRID_API_KEY")
		}
		return NewSendGridSender(cfg, log), nil
	case ProviderLog:
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
