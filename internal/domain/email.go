package domain

import "context"

// EmailSender delivers transactional mail such as OTP codes.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
