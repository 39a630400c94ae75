package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/quotedesk/internal/wire"
)

var msgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Conversations on quotes and orders",
}

var msgPostCmd = &cobra.Command{
	Use:   "post [quote-or-order-id] [message]",
	Short: "Post a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := scopeFromID(args[0])
		if err != nil {
			return err
		}
		return wire.ConversationAdapter().Post(sessionContext(cmd), scope, args[1])
	},
}

var msgThreadCmd = &cobra.Command{
	Use:   "thread [quote-or-order-id]",
	Short: "Show a conversation",
	Long:  "Show a conversation. An order's thread includes the messages of the quote it came from.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := scopeFromID(args[0])
		if err != nil {
			return err
		}
		return wire.ConversationAdapter().Thread(sessionContext(cmd), scope)
	},
}

var msgInboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List conversations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ConversationAdapter().Inbox(sessionContext(cmd))
	},
}

var msgReadCmd = &cobra.Command{
	Use:   "read [message-id...]",
	Short: "Mark messages as read",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ConversationAdapter().MarkRead(sessionContext(cmd), args)
	},
}

// MsgCmd returns the msg command
func MsgCmd() *cobra.Command {
	msgCmd.AddCommand(msgPostCmd)
	msgCmd.AddCommand(msgThreadCmd)
	msgCmd.AddCommand(msgInboxCmd)
	msgCmd.AddCommand(msgReadCmd)

	return msgCmd
}
