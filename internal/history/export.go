package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

// ExportRecord is the flat row shape written to export datasets.
type ExportRecord struct {
	ID            int    `json:"id" parquet:"id"`
	Name          string `json:"name" parquet:"name"`
	Description   string `json:"description" parquet:"description"`
	Category      string `json:"category" parquet:"category"`
	ItemType      string `json:"item_type" parquet:"item_type"`
	PrimaryColor  string `json:"primary_color" parquet:"primary_color"`
	Usage         string `json:"usage" parquet:"usage"`
	Texture       string `json:"texture" parquet:"texture"`
	PrintCategory string `json:"print_category" parquet:"print_category"`
	ImageBase64   string `json:"image_base64" parquet:"image_base64"`
	Status        string `json:"status" parquet:"status"`
}

// Export writes the item history to outputPath as a dataset. The format is
// picked from the file extension: .parquet or .jsonl.
func Export(items []models.ClothingItem, outputPath string) error {
	records := make([]ExportRecord, 0, len(items))
	for _, item := range items {
		records = append(records, ExportRecord{
			ID:            item.ID,
			Name:          item.Name,
			Description:   item.Description,
			Category:      item.Category,
			ItemType:      item.ItemType,
			PrimaryColor:  item.PrimaryColor,
			Usage:         item.Usage,
			Texture:       item.Texture,
			PrintCategory: item.PrintCategory,
			ImageBase64:   item.ImageURL,
			Status:        item.Status,
		})
	}

	ext := strings.ToLower(filepath.Ext(outputPath))
	switch ext {
	case ".parquet":
		return exportParquet(records, outputPath)
	case ".jsonl", ".json":
		return exportJSONL(records, outputPath)
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func exportParquet(records []ExportRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ExportRecord](file)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet records: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	slog.Info("Exported history", "format", "parquet", "records", len(records), "path", outputPath)
	return nil
}

func exportJSONL(records []ExportRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for i, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush export file: %w", err)
	}

	slog.Info("Exported history", "format", "jsonl", "records", len(records), "path", outputPath)
	return nil
}
