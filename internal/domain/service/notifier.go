package service

// Notifier surfaces transient user-facing notifications. Implementations
// must be safe to call from any goroutine and must never block.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NoopNotifier discards all notifications. Useful in tests and background
// contexts where nothing renders them.
type NoopNotifier struct{}

// Success implements Notifier.
func (NoopNotifier) Success(string) {}

// Error implements Notifier.
func (NoopNotifier) Error(string) {}
