package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/cli"
	"github.com/example/quotedesk/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "quotedesk",
		Short:   "quotedesk - quotes, orders and client conversations for a made-to-order workshop",
		Version: version.String(),
		Long: `quotedesk takes a client's quote request through pricing and review to an
accepted order, tracks the order through fabrication, and keeps the
conversation between client and staff attached to each quote and order.`,
		SilenceUsage: true,
	}
	cli.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.SessionCmd())

	// Lifecycle commands
	rootCmd.AddCommand(cli.QuoteCmd())
	rootCmd.AddCommand(cli.ItemCmd())
	rootCmd.AddCommand(cli.OrderCmd())
	rootCmd.AddCommand(cli.MsgCmd())
	rootCmd.AddCommand(cli.ClientCmd())

	if err := cli.Execute(context.Background(), rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
