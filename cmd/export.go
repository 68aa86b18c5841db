package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rafamesquita/BlindStyle-TCC/internal/history"
	"github.com/rafamesquita/BlindStyle-TCC/internal/models"
)

func newExportCmd() *cobra.Command {
	var output, status string
	var pageSize int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the item history as a dataset",
		Long: `Downloads every page of the item history and writes it to a dataset file.

The output format is picked from the file extension: .parquet or .jsonl.`,
		Example: `  blindstyle export --output wardrobe.parquet
  blindstyle export --output wardrobe.jsonl --status inactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			var all []models.ClothingItem
			for page := 1; ; page++ {
				items, err := a.client.ListItems(cmd.Context(), page, pageSize, status)
				if err != nil {
					return err
				}
				all = append(all, items...)
				if len(items) < pageSize {
					break
				}
			}

			if err := history.Export(all, output); err != nil {
				return err
			}
			fmt.Printf("Exportadas %d roupas para %s\n", len(all), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "wardrobe.parquet", "Output file (.parquet or .jsonl)")
	cmd.Flags().StringVar(&status, "status", "active", "Item status filter")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Page size used while fetching")

	return cmd
}
