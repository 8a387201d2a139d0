package order

import (
	"strings"
)

// Status is the fulfilment state. Stored values are the Indonesian labels.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Selesai"
	StatusCancelled Status = "Dibatalkan"
)

// PaymentStatus is independent from Status and toggled by staff.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Belum Bayar"
	PaymentPaid   PaymentStatus = "Sudah Bayar"
)

// ParseStatus accepts the stored labels and their English names, ignoring case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "selesai", "completed":
		return StatusCompleted, nil
	case "dibatalkan", "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", ErrInvalidStatus
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "belum bayar", "unpaid":
		return PaymentUnpaid, nil
	case "sudah bayar", "paid":
		return PaymentPaid, nil
	}
	return "", ErrInvalidStatus
}

// Item is a cart line frozen at checkout. It does not point back at the
// product, so later catalog edits never change history.
type Item struct {
	Name   string `json:"nama"`
	Qty    int    `json:"qty"`
	Price  int64  `json:"harga"`
	Weight string `json:"berat,omitempty"`
}

func (i Item) Subtotal() int64 {
	return int64(i.Qty) * i.Price
}

// Order is immutable after checkout except for Status and PaymentStatus.
// Customer is the display name of the buyer, not a reference.
type Order struct {
	ID              string        `json:"id_pesanan"`
	Customer        string        `json:"customer"`
	Items           []Item        `json:"detail_produk"`
	Total           int64         `json:"total_harga"`
	PaymentMethod   string        `json:"metode_bayar"`
	DeliveryMethod  string        `json:"jenis_delivery"`
	Date            string        `json:"tanggal_order"`
	Status          Status        `json:"status"`
	ShippingAddress string        `json:"alamat_kirim"`
	PaymentStatus   PaymentStatus `json:"status_bayar"`
}

func (o Order) Clone() Order {
	if o.Items != nil {
		o.Items = append([]Item(nil), o.Items...)
	}
	return o
}

// CanRequestPaymentConfirmation is true while the order is unpaid and not cancelled.
func (o Order) CanRequestPaymentConfirmation() bool {
	return o.PaymentStatus == PaymentUnpaid && o.Status != StatusCancelled
}
