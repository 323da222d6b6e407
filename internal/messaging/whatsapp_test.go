package messaging_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/messaging"
)

func TestMessage(t *testing.T) {
	w := messaging.WhatsApp{Number: "918179771029"}
	e := messaging.Enquiry{ProductName: "Cotton Nighty", EffectivePrice: decimal.NewFromInt(400)}

	if got := w.Message(e); got != "I want to enquire about Cotton Nighty priced at ₹400" {
		t.Fatalf("unexpected message %q", got)
	}

	e.ChosenColor, e.ChosenSize, e.ImageAddress = "Red", "M", "https://img/r.jpg"
	got := w.Message(e)
	for _, part := range []string{"Color: Red", "Size: M", "Image: https://img/r.jpg"} {
		if !strings.Contains(got, part) {
			t.Fatalf("message missing %q: %q", part, got)
		}
	}
}

func TestLink(t *testing.T) {
	w := messaging.WhatsApp{Number: "+918179771029"}
	e := messaging.Enquiry{ProductName: "A & B", EffectivePrice: decimal.RequireFromString("99.50")}

	link := w.Link(e)
	if !strings.HasPrefix(link, "https://wa.me/918179771029?text=") {
		t.Fatalf("unexpected link %q", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if got := u.Query().Get("text"); got != w.Message(e) {
		t.Fatalf("text does not round-trip: %q", got)
	}
}
