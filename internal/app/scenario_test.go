package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/quotedesk/internal/core/conversation"
	"github.com/example/quotedesk/internal/ports/primary"
)

// TestQuoteToOrderLifecycle walks a quote from submission to a building
// order through the public services only.
func TestQuoteToOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	if _, err := f.clientSvc.CreateClient(ctx, staff, primary.CreateClientRequest{
		Name:    "Alice",
		Address: primary.Address{Line1: "12 Mill Lane", City: "Ashford", PostalCode: "TN24 8AB", Country: "UK"},
	}); err != nil {
		t.Fatalf("create client: %v", err)
	}

	created, err := f.quoteSvc.CreateQuote(ctx, alice, primary.CreateQuoteRequest{
		WoodType: "oak", PowerSource: "mains", Dimensions: "2x1m", Quantity: 1,
	})
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	quoteID := created.QuoteID
	if created.Quote.Status != "submitted" {
		t.Fatalf("status = %s, want submitted", created.Quote.Status)
	}

	for _, it := range []primary.AddLineItemRequest{
		{QuoteID: quoteID, Description: "Post", Quantity: 1, UnitPrice: 420000},
		{QuoteID: quoteID, Description: "Delivery", Quantity: 1, UnitPrice: 15000},
	} {
		if _, err := f.ledger.AddLineItem(ctx, staff, it); err != nil {
			t.Fatalf("add %s: %v", it.Description, err)
		}
	}
	total, err := f.ledger.ComputeTotal(ctx, staff, quoteID)
	if err != nil || total != 435000 {
		t.Fatalf("total = %d, %v", total, err)
	}

	if _, err := f.quoteSvc.StartReview(ctx, staff, quoteID); err != nil {
		t.Fatalf("review: %v", err)
	}
	sent, err := f.quoteSvc.SendQuote(ctx, staff, quoteID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != "quoted" || *sent.QuotedTotal != 435000 {
		t.Fatalf("sent quote = %+v", sent)
	}
	if want := f.clock.Now().AddDate(0, 0, 30); !sent.ValidUntil.Equal(want) {
		t.Errorf("valid until = %v, want %v", sent.ValidUntil, want)
	}

	accepted, err := f.quoteSvc.AcceptQuote(ctx, alice, quoteID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Quote.Status != "accepted" {
		t.Errorf("quote status = %s", accepted.Quote.Status)
	}
	o := accepted.Order
	if o.Status != "confirmed" || o.Total != 435000 || o.QuoteID != quoteID {
		t.Fatalf("order = %+v", o)
	}
	if o.DeliveryAddress != "12 Mill Lane, TN24 8AB Ashford, UK" {
		t.Errorf("delivery address = %q", o.DeliveryAddress)
	}

	f.clock.Advance(time.Hour)
	if _, err := f.orderSvc.UpdateStatus(ctx, staff, primary.UpdateOrderStatusRequest{OrderID: o.ID, Status: "building"}); err != nil {
		t.Fatalf("update status: %v", err)
	}

	thread, err := f.convSvc.GetThread(ctx, alice, conversation.OrderScope(o.ID))
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(thread) != 1 {
		t.Fatalf("thread = %d messages, want 1", len(thread))
	}
	if thread[0].Body != "Order status changed from Confirmed to Building" || thread[0].SenderID != nil {
		t.Errorf("audit message = %+v", thread[0])
	}

	want := []string{"quote.submitted", "quote.reviewing", "quote.quoted", "quote.accepted", "order.created", "order.status_changed"}
	got := f.recorder.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
