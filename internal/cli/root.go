// Package cli provides the cobra commands of the quotedesk binary.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/ctxutil"
	"github.com/example/quotedesk/internal/wire"
)

// SessionEnv names the environment variable holding the caller's session token.
const SessionEnv = "QUOTEDESK_SESSION"

// closeResources releases what the wire package opened.
var closeResources = wire.Close

// AddGlobalFlags registers the flags every command understands and hooks
// config selection into the command lifecycle.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "Config file (default: ./quotedesk.toml or ~/.quotedesk/quotedesk.toml)")
	root.PersistentFlags().String("session", "", "Session token (default: $"+SessionEnv+")")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		wire.SetConfigPath(path)
	}
}

// Execute runs root and then releases the database, session store and
// broker connections, including when the command fails.
func Execute(ctx context.Context, root *cobra.Command) error {
	defer closeResources()
	return root.ExecuteContext(ctx)
}

// sessionContext returns the command context carrying the caller's session.
func sessionContext(cmd *cobra.Command) context.Context {
	token, _ := cmd.Flags().GetString("session")
	if token == "" {
		token = os.Getenv(SessionEnv)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithSessionToken(ctx, token)
}
