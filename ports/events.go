package ports

import "context"

// EventPublisher notifies other services about completed sign-ins
type EventPublisher interface {
	PublishSignIn(ctx context.Context, address, userID, sessionID string) error
}
