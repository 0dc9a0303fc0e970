package entity

import (
	"strings"
	"time"
)

// Status identifies the shelf a play belongs to. The numeric values are part
// of the wire contract with the backend and must not be reordered.
type Status int

const (
	StatusPlaying Status = iota
	StatusPlayed
	StatusWishlist
	StatusBacklog
)

// AllStatuses lists every shelf in display order.
var AllStatuses = []Status{StatusPlaying, StatusPlayed, StatusWishlist, StatusBacklog}

// String returns the shelf label for the status.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "Playing"
	case StatusPlayed:
		return "Played"
	case StatusWishlist:
		return "Wishlist"
	case StatusBacklog:
		return "Backlog"
	default:
		return "Unknown"
	}
}

// Valid reports whether the status is one of the four shelves.
func (s Status) Valid() bool {
	return s >= StatusPlaying && s <= StatusBacklog
}

// ParseStatus resolves a shelf name (case-insensitive) to its Status.
func ParseStatus(name string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "playing":
		return StatusPlaying, true
	case "played":
		return StatusPlayed, true
	case "wishlist":
		return StatusWishlist, true
	case "backlog":
		return StatusBacklog, true
	default:
		return 0, false
	}
}

// Play links a user, a catalog game, and a shelf status. At most one Play
// exists per (user, game) pair; changing shelves mutates Status in place
// rather than creating a second record.
type Play struct {
	ID                  int64      `json:"id"`                             // The backend's identifier for this play record.
	UserID              int64      `json:"user_id,omitempty"`              // The owning user.
	APIGameID           int64      `json:"api_game_id"`                    // The catalog identifier of the game.
	Name                string     `json:"name,omitempty"`                 // Denormalized game title for shelf rendering.
	Developers          []NamedRef `json:"developers,omitempty"`           // Denormalized developer list for shelf rendering.
	OriginalReleaseDate string     `json:"original_release_date,omitempty"`
	Status              Status     `json:"status"`
	CreatedAt           string     `json:"created_at,omitempty"` // When the game was first shelved.
	HoursPlayed         float64    `json:"hours_played,omitempty"`
	PercentageCompleted float64    `json:"percentage_completed,omitempty"`
	LastPlayedAt        string     `json:"last_played_at,omitempty"`
}

// PlayPayload is the request body shared by the create and update play
// endpoints.
type PlayPayload struct {
	UserID    int64  `json:"userId"`
	GameID    int64  `json:"gameId"`
	PlayID    int64  `json:"playId,omitempty"`
	Status    Status `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// NewPlayCreatedAt stamps a payload creation time in the backend's expected
// format.
func NewPlayCreatedAt(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}
