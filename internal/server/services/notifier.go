//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=../mocks/mock_notifier.go -package=mocks

// Package services contains server-side business logic: account operations
// and direct-message dispatch.
package services

// Notifier pushes a real-time event to the current connection of a user.
// Implemented by *realtime.Registry.
type Notifier interface {
	Push(userID, event string, payload any) error
}
