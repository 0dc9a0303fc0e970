package usecase

import (
	"gameplays/internal/domain/entity"
)

// SearchUsecase is the debounced type-ahead search controller. Keystrokes
// update the visible input immediately; only a pause in typing issues a
// catalog fetch, and stale responses are discarded.
type SearchUsecase interface {
	// OnInputChange records a keystroke. An empty trimmed input clears
	// the option list immediately without fetching; anything else
	// (re)arms the debounce timer.
	OnInputChange(text string)

	// OnEnter closes the menu and, for non-empty input, navigates to the
	// search results view, bypassing option selection.
	OnEnter()

	// OnSelect navigates to the option's target. Options without a
	// target surface an error instead of navigating.
	OnSelect(option entity.SearchOption) error

	// ClearSelection drops the highlighted option without touching the
	// input text. Called on route changes.
	ClearSelection()

	// Input returns the current input text.
	Input() string

	// Options returns the current option list.
	Options() []entity.SearchOption

	// SetListener registers the menu renderer invoked after every option
	// list change.
	SetListener(fn func(options []entity.SearchOption))

	// Close cancels any pending debounce timer.
	Close()
}
