// Package history renders and exports the user's saved item history.
package history

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

// Render writes the item list in the requested format: "text" (default) or
// "yaml".
func Render(w io.Writer, items []models.ClothingItem, format string) error {
	switch format {
	case "", "text":
		return renderText(w, items)
	case "yaml":
		return renderYAML(w, items)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, yaml)", format)
	}
}

func renderText(w io.Writer, items []models.ClothingItem) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nenhuma roupa no histórico.")
		return nil
	}

	for _, item := range items {
		fmt.Fprintf(w, "#%d %s\n", item.ID, item.Name)
		if item.Description != "" {
			fmt.Fprintf(w, "  %s\n", item.Description)
		}
		details := []string{}
		for _, v := range []string{item.Category, item.ItemType, item.PrimaryColor, item.Usage, item.Texture, item.PrintCategory} {
			if v != "" {
				details = append(details, v)
			}
		}
		if len(details) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(details, ", "))
		}
	}
	return nil
}

type yamlItem struct {
	ID            int    `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description,omitempty"`
	Category      string `yaml:"category,omitempty"`
	ItemType      string `yaml:"item_type,omitempty"`
	PrimaryColor  string `yaml:"primary_color,omitempty"`
	Usage         string `yaml:"usage,omitempty"`
	Texture       string `yaml:"texture,omitempty"`
	PrintCategory string `yaml:"print_category,omitempty"`
	Status        string `yaml:"status,omitempty"`
}

// renderYAML leaves the image payloads out: they are base64 blobs that bury
// the readable fields.
func renderYAML(w io.Writer, items []models.ClothingItem) error {
	out := make([]yamlItem, 0, len(items))
	for _, item := range items {
		out = append(out, yamlItem{
			ID:            item.ID,
			Name:          item.Name,
			Description:   item.Description,
			Category:      item.Category,
			ItemType:      item.ItemType,
			PrimaryColor:  item.PrimaryColor,
			Usage:         item.Usage,
			Texture:       item.Texture,
			PrintCategory: item.PrintCategory,
			Status:        item.Status,
		})
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode items as YAML: %w", err)
	}
	return nil
}
