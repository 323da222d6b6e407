package messaging

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Enquiry is what a shopper sends when starting an order.
type Enquiry struct {
	ProductName    string
	ChosenColor    string
	ChosenSize     string
	EffectivePrice decimal.Decimal
	ImageAddress   string
}

type WhatsApp struct {
	Number string
}

func (w WhatsApp) Message(e Enquiry) string {
	var b strings.Builder
	b.WriteString("I want to enquire about ")
	b.WriteString(e.ProductName)
	b.WriteString(" priced at ₹")
	b.WriteString(e.EffectivePrice.String())
	if e.ChosenColor != "" {
		b.WriteString("\nColor: ")
		b.WriteString(e.ChosenColor)
	}
	if e.ChosenSize != "" {
		b.WriteString("\nSize: ")
		b.WriteString(e.ChosenSize)
	}
	if e.ImageAddress != "" {
		b.WriteString("\nImage: ")
		b.WriteString(e.ImageAddress)
	}
	return b.String()
}

// Link opens a pre-filled chat with the shop's number.
func (w WhatsApp) Link(e Enquiry) string {
	text := strings.ReplaceAll(url.QueryEscape(w.Message(e)), "+", "%20")
	return "https://wa.me/" + strings.TrimPrefix(w.Number, "+") + "?text=" + text
}
