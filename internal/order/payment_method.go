package order

import "strings"

const (
	PaymentCash     = "Cash"
	PaymentTransfer = "Transfer"
	PaymentQRIS     = "QRIS"

	DeliveryPickup  = "Ambil di Toko"
	DeliveryCourier = "Kurir RNI"
)

type PaymentMethod struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Instructions []string `json:"instructions,omitempty"`
}

type DeliveryMethod struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var paymentMethods = []PaymentMethod{
	{ID: PaymentCash, Label: "Cash (Tunai)"},
	{ID: PaymentTransfer, Label: "Transfer BCA"},
	{ID: PaymentQRIS, Label: "QRIS Instan"},
}

var deliveryMethods = []DeliveryMethod{
	{ID: DeliveryPickup, Label: "Ambil di Toko"},
	{ID: DeliveryCourier, Label: "Kurir RNI"},
}

var InstructionMap = map[string][]string{
	PaymentCash: {
		"Siapkan uang tunai sebesar Rp {{amount}}",
		"Bayar di kasir saat mengambil pesanan atau kepada Kurir RNI",
		"Admin akan menandai pesanan {{order_id}} sebagai Sudah Bayar setelah pembayaran diterima",
	},
	PaymentTransfer: {
		"Transfer ke rekening BCA 1234 567 890 a/n RNI MART",
		"Pastikan nominal transfer Rp {{amount}}",
		"Simpan bukti transfer lalu kirim konfirmasi pembayaran untuk pesanan {{order_id}}",
	},
	PaymentQRIS: {
		"Buka aplikasi e-wallet atau mobile banking yang mendukung QRIS",
		"Pindai kode QRIS RNI MART DIGITAL",
		"Periksa nominal pembayaran Rp {{amount}}",
		"Kirim konfirmasi pembayaran untuk pesanan {{order_id}}",
	},
}

// PaymentMethods lists the checkout payment options with their instruction templates.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	for i, m := range paymentMethods {
		m.Instructions = GetInstructions(m.ID)
		out[i] = m
	}
	return out
}

func DeliveryMethods() []DeliveryMethod {
	return append([]DeliveryMethod(nil), deliveryMethods...)
}

func validPaymentMethod(id string) bool {
	for _, m := range paymentMethods {
		if m.ID == id {
			return true
		}
	}
	return false
}

func validDeliveryMethod(id string) bool {
	for _, m := range deliveryMethods {
		if m.ID == id {
			return true
		}
	}
	return false
}

func GetInstructions(method string) []string {
	if steps, ok := InstructionMap[method]; ok {
		return append([]string(nil), steps...)
	}

	return []string{
		"Ikuti instruksi pembayaran dari admin RNI Mart",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}
