package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Pending":    StatusPending,
		"Selesai":    StatusCompleted,
		"completed":  StatusCompleted,
		"Dibatalkan": StatusCancelled,
		" Cancelled": StatusCancelled,
		"canceled":   StatusCancelled,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("Dikirim")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParsePaymentStatus(t *testing.T) {
	for in, want := range map[string]PaymentStatus{
		"Belum Bayar": PaymentUnpaid,
		"unpaid":      PaymentUnpaid,
		"Sudah Bayar": PaymentPaid,
		"PAID":        PaymentPaid,
	} {
		got, err := ParsePaymentStatus(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePaymentStatus("Lunas Sebagian")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrder_Clone(t *testing.T) {
	o := Order{ID: "RNI-1", Items: []Item{{Name: "Beras", Qty: 1, Price: 75000}}}
	c := o.Clone()
	c.Items[0].Qty = 5

	assert.Equal(t, 1, o.Items[0].Qty)
}

func TestConfirmationText(t *testing.T) {
	o := Order{
		ID:       "RNI-123456",
		Customer: "Budi Santoso",
		Items: []Item{
			{Name: "Beras RNI Premium", Qty: 2, Price: 75000, Weight: "5kg"},
			{Name: "Paket Sembako Berkah", Qty: 1, Price: 38000},
		},
		Total: 188000,
	}

	assert.Equal(t,
		"Halo Admin RNI,\n"+
			"Saya *Budi Santoso* konfirmasi ID *RNI-123456*:\n"+
			"- Beras RNI Premium (5kg) (x2)\n"+
			"- Paket Sembako Berkah (N/A) (x1)\n"+
			"*Total: Rp 188.000*",
		ConfirmationText(o),
	)
}

func TestPaymentConfirmationText(t *testing.T) {
	o := Order{ID: "RNI-654321", Total: 1250000, PaymentMethod: PaymentQRIS}

	assert.Equal(t,
		"Halo Admin RNI,\nSaya ingin konfirmasi pembayaran untuk pesanan:\n\n"+
			"*ID Pesanan:* RNI-654321\n*Total:* Rp 1.250.000\n*Metode:* QRIS\n\n"+
			"Mohon bantuannya untuk memproses pesanan saya. Terima kasih.",
		PaymentConfirmationText(o),
	)
}

func TestGetInstructions(t *testing.T) {
	t.Run("Known method", func(t *testing.T) {
		steps := GetInstructions(PaymentTransfer)
		assert.Contains(t, steps[0], "BCA")
	})

	t.Run("Unknown method falls back", func(t *testing.T) {
		assert.Len(t, GetInstructions("Bitcoin"), 1)
	})

	t.Run("Returned slice is a copy", func(t *testing.T) {
		steps := GetInstructions(PaymentQRIS)
		steps[0] = "changed"
		assert.NotEqual(t, "changed", InstructionMap[PaymentQRIS][0])
	})
}

func TestInjectVariables(t *testing.T) {
	t.Run("ReplacesPlaceholders", func(t *testing.T) {
		got := InjectVariables([]string{"Bayar Rp {{amount}} untuk {{order_id}}"}, InstructionVars{
			"amount":   "188.000",
			"order_id": "RNI-123456",
		})
		assert.Equal(t, []string{"Bayar Rp 188.000 untuk RNI-123456"}, got)
	})

	t.Run("HandlesMissingVariables", func(t *testing.T) {
		got := InjectVariables([]string{"Bayar Rp {{amount}}"}, InstructionVars{})
		assert.Equal(t, []string{"Bayar Rp {{amount}}"}, got)
	})
}
