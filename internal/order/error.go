package order

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUnauthenticated = errors.New("login required to checkout")
	ErrNotOrderOwner   = errors.New("order belongs to another customer")

	// -- Validation & Input --
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrInvalidStatus         = errors.New("invalid order status")

	// -- Resource State --
	ErrOrderNotFound                 = errors.New("order not found")
	ErrPaymentConfirmationNotAllowed = errors.New("order is already paid or cancelled")
)
