// Package notification delivers order messages to the shop's WhatsApp desk.
// Delivery is best effort: failures are logged and never reach the caller.
package notification

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Kind string

const (
	KindOrderConfirmation   Kind = "order_confirmation"
	KindPaymentConfirmation Kind = "payment_confirmation"
)

type Message struct {
	Kind      Kind   `json:"kind"`
	OrderID   string `json:"order_id"`
	Customer  string `json:"customer"`
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
	Link      string `json:"link"`
}

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah groups digits the Indonesian way: 188000 -> "188.000".
func FormatRupiah(amount int64) string {
	return idPrinter.Sprintf("%d", amount)
}

// WhatsAppLink builds a wa.me deep link that opens a chat with text prefilled.
func WhatsAppLink(number, text string) string {
	// wa.me expects %20 for spaces, like encodeURIComponent.
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + number + "?text=" + escaped
}
