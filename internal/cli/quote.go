package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/wire"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Manage quote requests",
	Long:  "Submit, price, send and decide on quote requests",
}

var quoteCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new quote request (client)",
	RunE: func(cmd *cobra.Command, args []string) error {
		wood, _ := cmd.Flags().GetString("wood")
		power, _ := cmd.Flags().GetString("power")
		dims, _ := cmd.Flags().GetString("dimensions")
		qty, _ := cmd.Flags().GetInt("quantity")
		notes, _ := cmd.Flags().GetString("notes")

		return wire.QuoteAdapter().Create(sessionContext(cmd), primary.CreateQuoteRequest{
			WoodType:    wood,
			PowerSource: power,
			Dimensions:  dims,
			Quantity:    qty,
			ClientNotes: notes,
		})
	},
}

var quoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		client, _ := cmd.Flags().GetString("client")
		return wire.QuoteAdapter().List(sessionContext(cmd), primary.QuoteFilters{ClientID: client, Status: status})
	},
}

var quoteShowCmd = &cobra.Command{
	Use:   "show [quote-id]",
	Short: "Show a quote with its line items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().Show(sessionContext(cmd), args[0])
	},
}

var quoteReviewCmd = &cobra.Command{
	Use:   "review [quote-id]",
	Short: "Start reviewing a submitted quote (staff)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().Review(sessionContext(cmd), args[0])
	},
}

var quoteSendCmd = &cobra.Command{
	Use:   "send [quote-id]",
	Short: "Send the priced quote to the client (staff)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().Send(sessionContext(cmd), args[0])
	},
}

var quoteAcceptCmd = &cobra.Command{
	Use:   "accept [quote-id]",
	Short: "Accept a quote and place the order (client)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().Accept(sessionContext(cmd), args[0])
	},
}

var quoteRejectCmd = &cobra.Command{
	Use:   "reject [quote-id]",
	Short: "Reject a quote (client)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().Reject(sessionContext(cmd), args[0])
	},
}

var quoteReopenCmd = &cobra.Command{
	Use:   "reopen [quote-id]",
	Short: "Resubmit a rejected or expired quote (client)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().Reopen(sessionContext(cmd), args[0])
	},
}

var quoteNotesCmd = &cobra.Command{
	Use:   "notes [quote-id] [notes]",
	Short: "Replace internal staff notes (staff)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().SetNotes(sessionContext(cmd), args[0], args[1])
	},
}

var quoteStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count quotes per status (staff)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QuoteAdapter().Stats(sessionContext(cmd))
	},
}

// QuoteCmd returns the quote command
func QuoteCmd() *cobra.Command {
	quoteCreateCmd.Flags().String("wood", "", "Wood type")
	quoteCreateCmd.Flags().String("power", "", "Power source")
	quoteCreateCmd.Flags().String("dimensions", "", "Dimensions, e.g. 2000x900")
	quoteCreateCmd.Flags().IntP("quantity", "q", 1, "Number of units")
	quoteCreateCmd.Flags().StringP("notes", "n", "", "Notes for the workshop")
	quoteListCmd.Flags().StringP("status", "s", "", "Filter by status (submitted, reviewing, quoted, accepted, rejected, expired)")
	quoteListCmd.Flags().StringP("client", "c", "", "Filter by client ID (staff)")

	quoteCmd.AddCommand(quoteCreateCmd)
	quoteCmd.AddCommand(quoteListCmd)
	quoteCmd.AddCommand(quoteShowCmd)
	quoteCmd.AddCommand(quoteReviewCmd)
	quoteCmd.AddCommand(quoteSendCmd)
	quoteCmd.AddCommand(quoteAcceptCmd)
	quoteCmd.AddCommand(quoteRejectCmd)
	quoteCmd.AddCommand(quoteReopenCmd)
	quoteCmd.AddCommand(quoteNotesCmd)
	quoteCmd.AddCommand(quoteStatsCmd)

	return quoteCmd
}
