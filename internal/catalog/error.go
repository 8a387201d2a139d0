package catalog

import "errors"

var (
	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")
	ErrCategoryExists  = errors.New("category already exists")

	// -- Validation & Input --
	ErrInvalidProduct    = errors.New("invalid product input")
	ErrUnknownCategory   = errors.New("category is not in the category list")
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrInvalidBundleItem = errors.New("bundle items must be existing unit products")
)
