package email

import (
	"fmt"
	"log/slog"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
)

// NewEmailService creates and returns an email sender based on the configuration.
func NewEmailService(cfg config.DevServer, logger *slog.Logger) (domain.EmailSender, error) {
	switch cfg.EmailProvider {
	case "log":
		return NewLogSender(cfg.EmailSender, logger), nil
	case "resend":
		if cfg.EmailAPIKey == "" {
			return nil, fmt.Errorf("email provider is 'resend' but EMAIL_API_KEY is not set")
		}
		return NewResendSender(cfg.EmailAPIKey, cfg.EmailSender, nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.EmailProvider)
	}
}
