package ports

import "context"

// Account event types published for the notification transport.
const (
	EventAccountRegistered    = "account.registered"
	EventAccountLocked        = "account.locked"
	EventAccountPasswordReset = "account.password_reset"
)

// AccountEvent is the payload fanned out to real-time subscribers.
type AccountEvent struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// EventPublisher broadcasts account lifecycle events. Publishing is
// best-effort; callers log failures and move on.
type EventPublisher interface {
	Publish(ctx context.Context, event AccountEvent) error
}
