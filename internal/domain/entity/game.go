package entity

// NamedRef is a lightweight reference to a named catalog entity
// (developer, genre, platform, publisher, franchise).
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ImageSet carries the catalog's pre-scaled image URLs for a game.
type ImageSet struct {
	IconURL     string `json:"icon_url,omitempty"`
	MediumURL   string `json:"medium_url,omitempty"`
	ScreenURL   string `json:"screen_url,omitempty"`
	SmallURL    string `json:"small_url,omitempty"`
	SuperURL    string `json:"super_url,omitempty"`
	ThumbURL    string `json:"thumb_url,omitempty"`
	TinyURL     string `json:"tiny_url,omitempty"`
	OriginalURL string `json:"original_url,omitempty"`
}

// GameSummary is a read-only projection of a catalog game. It is never
// mutated locally; instances are fetched by id or produced by catalog search.
type GameSummary struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Deck                string     `json:"deck,omitempty"` // Short one-paragraph description.
	Description         string     `json:"description,omitempty"`
	Image               *ImageSet  `json:"image,omitempty"`
	OriginalReleaseDate string     `json:"original_release_date,omitempty"`
	DateLastUpdated     string     `json:"date_last_updated,omitempty"`
	Developers          []NamedRef `json:"developers,omitempty"`
	Franchises          []NamedRef `json:"franchises,omitempty"`
	Genres              []NamedRef `json:"genres,omitempty"`
	Platforms           []NamedRef `json:"platforms,omitempty"`
	Publishers          []NamedRef `json:"publishers,omitempty"`
}

// SearchResults is the catalog's paginated search envelope.
type SearchResults struct {
	Error                string        `json:"error,omitempty"`
	Limit                int           `json:"limit,omitempty"`
	Offset               int           `json:"offset,omitempty"`
	NumberOfPageResults  int           `json:"number_of_page_results,omitempty"`
	NumberOfTotalResults int           `json:"number_of_total_results,omitempty"`
	StatusCode           int           `json:"status_code,omitempty"`
	Results              []GameSummary `json:"results"`
}
