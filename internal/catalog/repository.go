package catalog

import "context"

// Repository is the persisted catalog. Update* calls replace the whole list with
// the value returned by fn; if fn or the write fails nothing changes.
type Repository interface {
	Products(ctx context.Context) ([]Product, error)
	UpdateProducts(ctx context.Context, fn func([]Product) ([]Product, error)) error
	Categories(ctx context.Context) ([]string, error)
	UpdateCategories(ctx context.Context, fn func([]string) ([]string, error)) error
}
