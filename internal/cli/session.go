package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/wire"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Developer sessions",
}

var sessionIssueCmd = &cobra.Command{
	Use:   "issue [user-id] [role]",
	Short: "Issue a session token (client or staff)",
	Long: `Issue a session token for local use. For a client the user ID is the
client ID, e.g.:

  eval $(quotedesk session issue CLIENT-001 client --export)`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		export, _ := cmd.Flags().GetBool("export")
		return wire.SessionAdapter().Issue(sessionContext(cmd), args[0], args[1], export)
	},
}

var sessionWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the principal behind the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SessionAdapter().WhoAmI(sessionContext(cmd))
	},
}

// SessionCmd returns the session command
func SessionCmd() *cobra.Command {
	sessionIssueCmd.Flags().Bool("export", false, "Print a shell export line")

	sessionCmd.AddCommand(sessionIssueCmd)
	sessionCmd.AddCommand(sessionWhoamiCmd)

	return sessionCmd
}
