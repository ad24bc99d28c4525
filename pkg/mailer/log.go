package mailer

import (
	"context"

	"go.uber.org/zap"
)

type logSender struct {
	log *zap.Logger
}

// NewLogSender returns a Sender that only logs messages. It is meant for local
// development where no mail server is reachable.
func NewLogSender(log *zap.Logger) Sender {
	return &logSender{log: log.With(zap.String("mailer", ProviderLog))}
}

func (s *logSender) Send(_ context.Context, msg *Message) error {
	s.log.Info("Email (not delivered)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}
