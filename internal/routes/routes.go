// Package routes defines the application's view routes and helpers for
// building them. These are navigation targets inside the app, distinct from
// the backend endpoint paths in the api package.
package routes

import (
	"fmt"
	"net/url"
)

const (
	Home    = "/"
	Login   = "/login"
	Shelves = "/shelves"
	Profile = "/profile"
)

// Game returns the route for a single game view.
func Game(id int64) string {
	return fmt.Sprintf("/game/%d", id)
}

// Search returns the route for the search results view with the query
// encoded, mirroring /search?q={encoded text}.
func Search(query string) string {
	return "/search?q=" + url.QueryEscape(query)
}
