package models

import "time"

// ClothingFeatures represents the structured attributes the feature-extraction
// service derives from a clothing image. The values are opaque to the client
// and forwarded verbatim when an item is saved.
type ClothingFeatures struct {
	Category      string `json:"category"`
	ItemType      string `json:"item_type"`
	PrimaryColor  string `json:"primary_color"`
	Usage         string `json:"usage"`
	Texture       string `json:"texture"`
	PrintCategory string `json:"print_category"`
}

// Description represents the feature-extraction response for one image.
type Description struct {
	Success     bool              `json:"success"`
	Description string            `json:"description"`
	Features    *ClothingFeatures `json:"features,omitempty"`
}

// ClothingItem represents one wardrobe item as the API accepts and returns it.
// ID and CreatedAt are only present on items read back from the server.
type ClothingItem struct {
	ID            int       `json:"id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ItemType      string    `json:"item_type"`
	PrimaryColor  string    `json:"primary_color"`
	Usage         string    `json:"usage"`
	Texture       string    `json:"texture"`
	PrintCategory string    `json:"print_category"`
	ImageURL      string    `json:"image_url"`
	Ownership     bool      `json:"ownership"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// OutfitPiece is one garment inside a suggested outfit.
type OutfitPiece struct {
	PieceID     string `json:"piece_id"`
	ImageBase64 string `json:"image_base64"`
	Description string `json:"description"`
}

// Outfit represents one suggestion slot returned by the suggestion service.
type Outfit struct {
	OutfitID    string        `json:"outfit_id"`
	Pieces      []OutfitPiece `json:"pieces"`
	Probability float64       `json:"probability"`
}
