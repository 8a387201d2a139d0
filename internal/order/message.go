package order

import (
	"fmt"
	"strings"

	"rnimart-be/internal/notification"
)

// ConfirmationText is the order confirmation sent to the admin's WhatsApp.
// Other tools parse it, so the layout must not change.
func ConfirmationText(o Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo Admin RNI,\nSaya *%s* konfirmasi ID *%s*:\n", o.Customer, o.ID)
	for _, it := range o.Items {
		weight := it.Weight
		if weight == "" {
			weight = "N/A"
		}
		fmt.Fprintf(&b, "- %s (%s) (x%d)\n", it.Name, weight, it.Qty)
	}
	fmt.Fprintf(&b, "*Total: Rp %s*", notification.FormatRupiah(o.Total))
	return b.String()
}

func PaymentConfirmationText(o Order) string {
	return fmt.Sprintf(
		"Halo Admin RNI,\nSaya ingin konfirmasi pembayaran untuk pesanan:\n\n*ID Pesanan:* %s\n*Total:* Rp %s\n*Metode:* %s\n\nMohon bantuannya untuk memproses pesanan saya. Terima kasih.",
		o.ID, notification.FormatRupiah(o.Total), o.PaymentMethod,
	)
}
