package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/wire"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage client profiles",
}

var clientCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register a client (staff)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		return wire.ClientAdapter().Create(sessionContext(cmd), primary.CreateClientRequest{
			Name:    args[0],
			Email:   email,
			Address: addressFromFlags(cmd),
		})
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients (staff)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ClientAdapter().List(sessionContext(cmd))
	},
}

var clientShowCmd = &cobra.Command{
	Use:   "show [client-id]",
	Short: "Show a client profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ClientAdapter().Show(sessionContext(cmd), args[0])
	},
}

var clientAddressCmd = &cobra.Command{
	Use:   "address [client-id]",
	Short: "Replace a client's address",
	Long:  "Replace a client's address. Orders already placed keep the address they were placed with.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ClientAdapter().SetAddress(sessionContext(cmd), args[0], addressFromFlags(cmd))
	},
}

func addAddressFlags(cmd *cobra.Command) {
	cmd.Flags().String("line1", "", "Address line 1")
	cmd.Flags().String("line2", "", "Address line 2")
	cmd.Flags().String("city", "", "City")
	cmd.Flags().String("postcode", "", "Postal code")
	cmd.Flags().String("country", "", "Country")
}

func addressFromFlags(cmd *cobra.Command) primary.Address {
	line1, _ := cmd.Flags().GetString("line1")
	line2, _ := cmd.Flags().GetString("line2")
	city, _ := cmd.Flags().GetString("city")
	postcode, _ := cmd.Flags().GetString("postcode")
	country, _ := cmd.Flags().GetString("country")
	return primary.Address{Line1: line1, Line2: line2, City: city, PostalCode: postcode, Country: country}
}

// ClientCmd returns the client command
func ClientCmd() *cobra.Command {
	clientCreateCmd.Flags().StringP("email", "e", "", "Contact email")
	addAddressFlags(clientCreateCmd)
	addAddressFlags(clientAddressCmd)

	clientCmd.AddCommand(clientCreateCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientShowCmd)
	clientCmd.AddCommand(clientAddressCmd)

	return clientCmd
}
