package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rafamesquita/BlindStyle-TCC/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var page, size int
	var status, format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the clothing items saved to your history",
		Example: `  blindstyle history
  blindstyle history --format yaml
  blindstyle history --page 2 --size 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			items, err := a.client.ListItems(cmd.Context(), page, size, status)
			if err != nil {
				return err
			}
			return history.Render(os.Stdout, items, format)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 10, "Items per page")
	cmd.Flags().StringVar(&status, "status", "active", "Item status filter")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")

	return cmd
}
