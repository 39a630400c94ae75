package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/quotedesk/internal/core/conversation"
	"github.com/example/quotedesk/internal/ports/primary"
)

// ConversationAdapter translates messaging commands to ConversationService calls.
type ConversationAdapter struct {
	guard primary.AccessGuard
	conv  primary.ConversationService
	out   io.Writer
}

// NewConversationAdapter creates a new ConversationAdapter.
func NewConversationAdapter(guard primary.AccessGuard, conv primary.ConversationService, out io.Writer) *ConversationAdapter {
	return &ConversationAdapter{guard: guard, conv: conv, out: out}
}

// Post sends a message on a quote or order.
func (a *ConversationAdapter) Post(ctx context.Context, scope conversation.Scope, body string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	msg, err := a.conv.PostMessage(ctx, p, primary.PostMessageRequest{Scope: scope, Body: body})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Posted %s on %s\n", msg.ID, scope)
	return nil
}

// Thread prints a conversation in creation order.
func (a *ConversationAdapter) Thread(ctx context.Context, scope conversation.Scope) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	msgs, err := a.conv.GetThread(ctx, p, scope)
	if err != nil {
		return fmt.Errorf("failed to get thread: %w", err)
	}

	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}
	for _, m := range msgs {
		sender := color.New(color.Faint).Sprint("system")
		if m.SenderID != nil {
			sender = *m.SenderID
		}
		marker := " "
		if !m.IsRead {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s [%s] %s: %s\n", marker, formatTime(m.CreatedAt), m.Scope, sender, m.Body)
	}
	return nil
}

// Inbox lists conversations: all of them for staff, the caller's own for
// clients.
func (a *ConversationAdapter) Inbox(ctx context.Context) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}

	var convs []*primary.Conversation
	if p.IsStaff() {
		convs, err = a.conv.GetInbox(ctx, p)
	} else {
		convs, err = a.conv.ListConversations(ctx, p)
	}
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(convs) == 0 {
		fmt.Fprintln(a.out, "No conversations")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-16s %6s %6s %s\n", "SCOPE", "LAST", "UNREAD", "TOTAL", "MESSAGE")
	fmt.Fprintln(a.out, rule)
	for _, c := range convs {
		unread := fmt.Sprintf("%6d", c.UnreadCount)
		if c.UnreadCount > 0 {
			unread = color.New(color.FgHiMagenta).Sprint(unread)
		}
		fmt.Fprintf(a.out, "%-20s %-16s %s %6d %s\n", c.Scope, formatTime(c.LastMessageAt), unread, c.MessageCount, c.LastMessage)
	}
	fmt.Fprintln(a.out)
	return nil
}

// MarkRead flags messages read on behalf of the caller.
func (a *ConversationAdapter) MarkRead(ctx context.Context, messageIDs []string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	n, err := a.conv.MarkRead(ctx, p, messageIDs)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Marked %d message(s) read\n", n)
	return nil
}
