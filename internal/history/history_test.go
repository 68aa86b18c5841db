package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

func testItems() []models.ClothingItem {
	return []models.ClothingItem{
		{
			ID:           1,
			Name:         "Camisa favorita",
			Description:  "Camisa azul de algodão",
			Category:     "tops",
			ItemType:     "camisa",
			PrimaryColor: "azul",
			ImageURL:     "AAAA",
			Status:       "active",
		},
		{
			ID:   2,
			Name: "Roupa",
		},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testItems(), "text"); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "#1 Camisa favorita") {
		t.Errorf("Expected item header in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Camisa azul de algodão") {
		t.Errorf("Expected description in output, got:\n%s", out)
	}
}

func TestRenderTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, ""); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "Nenhuma roupa") {
		t.Errorf("Expected empty-history message, got:\n%s", buf.String())
	}
}

func TestRenderYAMLOmitsImagePayload(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testItems(), "yaml"); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "name: Camisa favorita") {
		t.Errorf("Expected name field in YAML, got:\n%s", out)
	}
	if strings.Contains(out, "AAAA") {
		t.Errorf("Image payload must not appear in YAML output:\n%s", out)
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testItems(), "xml"); err == nil {
		t.Fatal("Expected error for unsupported format")
	}
}

func TestExportJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardrobe.jsonl")
	if err := Export(testItems(), path); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	var records []ExportRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record ExportRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("Failed to parse exported line: %v", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Camisa favorita" {
		t.Errorf("Expected first record name, got %s", records[0].Name)
	}
	if records[0].ImageBase64 != "AAAA" {
		t.Errorf("Export keeps the image payload, got %q", records[0].ImageBase64)
	}
}

func TestExportUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardrobe.csv")
	if err := Export(testItems(), path); err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
}
