package domain

import "context"

// Notifier surfaces non-blocking messages to the user
type Notifier interface {
	// AuthRequired prompts the user to log in
	AuthRequired(ctx context.Context, message string)

	// Error shows a transient, dismissible error message
	Error(ctx context.Context, message string)
}
