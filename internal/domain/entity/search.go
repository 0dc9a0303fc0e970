package entity

// SearchOption is the ephemeral projection of a catalog hit shown in the
// type-ahead menu. Options live for exactly one keystroke-driven fetch cycle;
// the next resolution replaces the whole list.
type SearchOption struct {
	Game *GameSummary // nil for synthetic options such as "Show more results...".

	// IsDivider marks options followed by a separator in the menu.
	IsDivider bool

	// Label is the display text.
	Label string

	// TargetURL is the app route selecting this option navigates to.
	TargetURL string
}
