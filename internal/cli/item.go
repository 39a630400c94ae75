package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/wire"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage quote line items (staff)",
}

var itemAddCmd = &cobra.Command{
	Use:   "add [quote-id] [description] [unit-price]",
	Short: "Add a priced line item to a quote",
	Long:  "Add a line item. The unit price is a decimal amount, e.g. 4200 or 150.50.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := parseMoney(args[2])
		if err != nil {
			return err
		}
		qty, _ := cmd.Flags().GetInt64("quantity")

		return wire.QuoteAdapter().AddItem(sessionContext(cmd), primary.AddLineItemRequest{
			QuoteID:     args[0],
			Description: args[1],
			Quantity:    qty,
			UnitPrice:   price,
		})
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:   "rm [line-item-id]",
	Short: "Remove a line item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "" {
			return fmt.Errorf("line item ID is required")
		}
		return wire.QuoteAdapter().RemoveItem(sessionContext(cmd), args[0])
	},
}

// ItemCmd returns the item command
func ItemCmd() *cobra.Command {
	itemAddCmd.Flags().Int64P("quantity", "q", 1, "Quantity")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemRemoveCmd)

	return itemCmd
}
