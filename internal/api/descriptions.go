package api

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// StripDataURIPrefix removes a leading "data:image/...;base64," marker so the
// payload is always raw base64. Applying it to already-raw input is a no-op.
func StripDataURIPrefix(imageBase64 string) string {
	return dataURIPrefix.ReplaceAllString(imageBase64, "")
}

// ExtractFeatures sends a base64-encoded clothing image to the
// feature-extraction service and returns the structured description.
func (c *Client) ExtractFeatures(ctx context.Context, imageBase64 string) (*models.Description, error) {
	payload := map[string]string{
		"image_base64": StripDataURIPrefix(imageBase64),
	}

	var description models.Description
	if err := c.postJSON(ctx, "/descriptions/extract-features/upload", payload, &description, true); err != nil {
		return nil, fmt.Errorf("failed to extract features: %w", err)
	}
	return &description, nil
}
