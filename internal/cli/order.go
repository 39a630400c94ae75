package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/wire"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Track orders",
	Long:  "List orders and record fabrication progress",
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		client, _ := cmd.Flags().GetString("client")
		return wire.OrderAdapter().List(sessionContext(cmd), primary.OrderFilters{ClientID: client, Status: status})
	},
}

var orderShowCmd = &cobra.Command{
	Use:   "show [order-id]",
	Short: "Show order details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.OrderAdapter().Show(sessionContext(cmd), args[0])
	},
}

var orderStatusCmd = &cobra.Command{
	Use:   "status [order-id] [status]",
	Short: "Update fabrication status (staff)",
	Long: `Update an order's status. Statuses, in sequence:
  confirmed, materials, building, finishing, ready, shipped, delivered, completed`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.UpdateOrderStatusRequest{OrderID: args[0], Status: args[1]}

		if cmd.Flags().Changed("note") {
			note, _ := cmd.Flags().GetString("note")
			req.Note = &note
		}
		if cmd.Flags().Changed("tracking") {
			tracking, _ := cmd.Flags().GetString("tracking")
			req.TrackingNumber = &tracking
		}
		if cmd.Flags().Changed("eta") {
			raw, _ := cmd.Flags().GetString("eta")
			eta, err := parseDate(raw)
			if err != nil {
				return err
			}
			req.EstimatedCompletion = &eta
		}

		return wire.OrderAdapter().UpdateStatus(sessionContext(cmd), req)
	},
}

var orderStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count orders per status (staff)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.OrderAdapter().Stats(sessionContext(cmd))
	},
}

// OrderCmd returns the order command
func OrderCmd() *cobra.Command {
	orderListCmd.Flags().StringP("status", "s", "", "Filter by status")
	orderListCmd.Flags().StringP("client", "c", "", "Filter by client ID (staff)")
	orderStatusCmd.Flags().StringP("note", "n", "", "Status note shown to the client")
	orderStatusCmd.Flags().String("tracking", "", "Carrier tracking number")
	orderStatusCmd.Flags().String("eta", "", "Estimated completion date (YYYY-MM-DD)")

	orderCmd.AddCommand(orderListCmd)
	orderCmd.AddCommand(orderShowCmd)
	orderCmd.AddCommand(orderStatusCmd)
	orderCmd.AddCommand(orderStatsCmd)

	return orderCmd
}
