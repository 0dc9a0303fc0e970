// Package service declares the interfaces for capabilities the application
// core needs but does not implement itself.
package service

// Navigator routes the user to an application view. URLs are app routes
// (/login, /game/{id}, /search?q=...), not backend endpoints. The delivery
// layer owns the concrete implementation.
type Navigator interface {
	Navigate(url string) error
}

// RouteListener is notified after every completed navigation. The search
// controller subscribes to clear its highlighted selection on route changes.
type RouteListener interface {
	RouteChanged(url string)
}
