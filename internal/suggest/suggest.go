// Package suggest normalizes the raw outfit-suggestion response into an
// ordered, labeled result set.
package suggest

import (
	"errors"
	"fmt"
	"io"

	"github.com/rafamesquita/BlindStyle-TCC/internal/api"
	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

// ErrNoSuggestions is returned when every suggestion slot is null. It is a
// distinct outcome from a request failure: the service answered, it just has
// nothing to offer.
var ErrNoSuggestions = errors.New("no suggestion found")

// Suggestion is one surviving suggestion slot, titled by its 1-based position
// among the non-null entries.
type Suggestion struct {
	Title  string
	Outfit models.Outfit
}

// Normalize filters null slots out of the raw response and labels each
// survivor "Sugestão N" by its position in the surviving sequence. An
// all-null response yields ErrNoSuggestions rather than an empty list.
func Normalize(slots *api.SuggestionSlots) ([]Suggestion, error) {
	if slots == nil {
		return nil, ErrNoSuggestions
	}

	var result []Suggestion
	for _, outfit := range slots.Slots() {
		if outfit == nil {
			continue
		}
		result = append(result, Suggestion{
			Title:  fmt.Sprintf("Sugestão %d", len(result)+1),
			Outfit: *outfit,
		})
	}

	if len(result) == 0 {
		return nil, ErrNoSuggestions
	}
	return result, nil
}

// Render writes the suggestion list as plain text, one titled block per
// suggestion.
func Render(w io.Writer, suggestions []Suggestion) error {
	for _, s := range suggestions {
		if _, err := fmt.Fprintln(w, s.Title); err != nil {
			return fmt.Errorf("failed to write suggestion: %w", err)
		}
		for _, piece := range s.Outfit.Pieces {
			fmt.Fprintf(w, "  - %s\n", piece.Description)
		}
		fmt.Fprintf(w, "  probabilidade: %.0f%%\n", s.Outfit.Probability*100)
	}
	return nil
}
