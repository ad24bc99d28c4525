package mailer

import (
	"context"
	"fmt"

	"finance-tracker/pkg/utils"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type smtpSender struct {
	cfg utils.MailConfig
	log *zap.Logger
}

func NewSMTPSender(cfg utils.MailConfig, log *zap.Logger) Sender {
	return &smtpSender{
		cfg: cfg,
		log: log.With(zap.String("mailer", ProviderSMTP)),
	}
}

// clientOptions maps the mail settings onto go-mail options. Implicit SSL
// wins over STARTTLS; authentication is only attempted with credentials.
func (s *smtpSender) clientOptions() []mail.Option {
	var opts []mail.Option
	if s.cfg.Port > 0 {
		opts = append(opts, mail.WithPort(s.cfg.Port))
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}

	switch {
	case s.cfg.UseSSL:
		opts = append(opts, mail.WithSSL())
	case s.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	return opts
}

func (s *smtpSender) buildMsg(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender %q: %w", s.cfg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("set recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

func (s *smtpSender) Send(ctx context.Context, msg *Message) error {
	m, err := s.buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Server, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", msg.To),
			zap.String("server", s.cfg.Server),
			zap.Int("port", s.cfg.Port),
		)
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	s.log.Info("Email sent", zap.String("to", msg.To))
	return nil
}
