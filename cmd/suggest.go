package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rafamesquita/BlindStyle-TCC/internal/suggest"
)

func newSuggestCmd() *cobra.Command {
	var itemID string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Generate outfit suggestions for a saved item",
		Long: `Asks the suggestion service for outfits matching an item already saved to
your history. Item ids come from 'blindstyle history'.`,
		Example: `  blindstyle history
  blindstyle suggest --item-id 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			slots, err := a.client.GenerateSuggestions(cmd.Context(), itemID)
			if err != nil {
				return err
			}

			suggestions, err := suggest.Normalize(slots)
			if errors.Is(err, suggest.ErrNoSuggestions) {
				fmt.Println("Nenhuma sugestão encontrada.")
				return nil
			}
			if err != nil {
				return err
			}
			return suggest.Render(os.Stdout, suggestions)
		},
	}

	cmd.Flags().StringVar(&itemID, "item-id", "", "ID of a saved item (see 'blindstyle history')")
	_ = cmd.MarkFlagRequired("item-id")

	return cmd
}
