package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/db"
	"github.com/example/quotedesk/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the quotedesk database",
		Long:  `Create or migrate the quotedesk database. With --seed, load development fixtures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			where := cfg.Database.DSN
			if where == "" {
				path, err := db.DefaultPath()
				if err != nil {
					return err
				}
				where = path
			}

			// wire migrates the schema on first use
			database := wire.DB()
			fmt.Printf("✓ Database ready at %s (%s, schema v%d)\n", where, cfg.Database.Driver, db.LatestVersion())

			seed, _ := cmd.Flags().GetBool("seed")
			if !seed {
				return nil
			}
			if err := db.SeedFixtures(sessionContext(cmd), database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Loaded development fixtures")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  eval $(quotedesk session issue USR-STAFF staff --export)")
			fmt.Println("  quotedesk quote list")
			return nil
		},
	}
	cmd.Flags().Bool("seed", false, "Load development fixtures (clients, quotes, an order, messages)")
	return cmd
}
