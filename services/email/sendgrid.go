package email

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Anish-Karthik/OD-automation/core"
)

// SendgridMailer delivers notifications through the Sendgrid API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

var _ core.Mailer = (*SendgridMailer)(nil)

func NewSendgridMailer(apiKey, fromName, fromAddr string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddr),
	}
}

func (m *SendgridMailer) Send(msg core.Message) error {
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(m.from, msg.Subject, to, msg.Body, "<p>"+msg.Body+"</p>")
	res, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
