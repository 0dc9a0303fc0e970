// Package delivery defines the contract every front-end surface of the app
// implements.
package delivery

import "context"

// Delivery is a user-facing surface served by the application.
type Delivery interface {
	// Serve blocks until the surface shuts down or ctx is canceled.
	Serve(ctx context.Context) error
}
