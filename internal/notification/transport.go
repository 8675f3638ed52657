package notification

import (
	"context"
	"fmt"

	"github.com/frahmantamala/feedback-collector/internal"
)

// NewTransport selects the transport named by cfg.Transport.
func NewTransport(ctx context.Context, cfg internal.MailConfig) (Transport, error) {
	switch cfg.Transport {
	case internal.MailTransportSMTP, "":
		return NewSMTPTransport(SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Security: cfg.Security,
			Sender:   cfg.Sender,
			Password: cfg.Password,
			Timeout:  cfg.Timeout,
		}), nil
	case internal.MailTransportSES:
		t, err := NewSESTransport(ctx, SESConfig{
			Region:    cfg.SESRegion,
			AccessKey: cfg.SESAccessKey,
			SecretKey: cfg.SESSecretKey,
			Sender:    cfg.Sender,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported mail transport %q", cfg.Transport)
	}
}
