package mailer

import (
	"context"
	"fmt"
	"net/http"

	"finance-tracker/pkg/utils"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const sendGridEndpoint = "/v3/mail/send"

type sendGridSender struct {
	apiKey string
	host   string
	from   string
	log    *zap.Logger
}

func NewSendGridSender(cfg utils.MailConfig, log *zap.Logger) Sender {
	return &sendGridSender{
		apiKey: cfg.SendGridAPIKey,
		from:   cfg.From,
		log:    log.With(zap.String("mailer", ProviderSendGrid)),
	}
}

func (s *sendGridSender) Send(ctx context.Context, msg *Message) error {
	from := sgmail.NewEmail("", s.from)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	// empty host means the public API
	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = http.MethodPost
	request.Body = sgmail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		s.log.Error("Failed to send email", zap.Error(err), zap.String("to", msg.To))
		return fmt.Errorf("sendgrid send to %s: %w", msg.To, err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		s.log.Error("SendGrid rejected email",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body),
			zap.String("to", msg.To),
		)
		return fmt.Errorf("sendgrid send to %s: status %d", msg.To, response.StatusCode)
	}

	s.log.Info("Email sent", zap.String("to", msg.To), zap.Int("status", response.StatusCode))
	return nil
}
