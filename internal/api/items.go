package api

import (
	"context"
	"fmt"

	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

// CreateItem persists a clothing item to the user's history.
func (c *Client) CreateItem(ctx context.Context, item models.ClothingItem) (*models.ClothingItem, error) {
	var created models.ClothingItem
	if err := c.postJSON(ctx, "/items/create", item, &created, true); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &created, nil
}

// ListItems fetches one page of the item history.
func (c *Client) ListItems(ctx context.Context, page, size int, status string) ([]models.ClothingItem, error) {
	path := fmt.Sprintf("/items/list-all?page=%d&size=%d&status=%s", page, size, status)

	var response struct {
		Items []models.ClothingItem `json:"items"`
		Total int                   `json:"total"`
		Page  int                   `json:"page"`
		Size  int                   `json:"size"`
	}
	if err := c.getJSON(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return response.Items, nil
}
