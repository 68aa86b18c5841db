package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

// SuggestionSlots is the raw suggestion response: a fixed set of nullable
// outfit slots. Slot order is part of the contract.
type SuggestionSlots struct {
	Outfit1 *models.Outfit `json:"Outfit1"`
	Outfit2 *models.Outfit `json:"Outfit2"`
	Outfit3 *models.Outfit `json:"Outfit3"`
}

// Slots returns the outfits in declaration order, nulls included.
func (s SuggestionSlots) Slots() []*models.Outfit {
	return []*models.Outfit{s.Outfit1, s.Outfit2, s.Outfit3}
}

// GenerateSuggestions asks the suggestion service for candidate outfits
// matching a previously saved item.
func (c *Client) GenerateSuggestions(ctx context.Context, itemID string) (*SuggestionSlots, error) {
	path := "/suggestions/generate?item_id=" + url.QueryEscape(itemID)

	var slots SuggestionSlots
	if err := c.postJSON(ctx, path, nil, &slots, true); err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}
	return &slots, nil
}
