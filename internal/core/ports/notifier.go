package ports

import "context"

// Notifier delivers a transactional email. Implementations report delivery
// failure with an error; the caller decides how to compensate.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
