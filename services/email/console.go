package email

import (
	"go.uber.org/zap"

	"github.com/Anish-Karthik/OD-automation/core"
)

// ConsoleMailer logs messages instead of sending them; used in dev when no
// Sendgrid key is configured, and in tests.
type ConsoleMailer struct {
	logger *zap.Logger
}

var _ core.Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(msg core.Message) error {
	m.logger.Info("email (console backend)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
