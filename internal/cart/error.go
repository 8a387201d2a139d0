package cart

import "errors"

var (
	// -- Validation & Input --
	ErrMissingCartID   = errors.New("cart id is required")
	ErrInvalidQuantity = errors.New("invalid cart quantity")
)
