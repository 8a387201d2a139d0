package order

import "context"

// Repository is the persisted order history, most recent first. UpdateOrders
// replaces the whole history with the value returned by fn; if fn or the
// write fails nothing changes.
type Repository interface {
	Orders(ctx context.Context) ([]Order, error)
	UpdateOrders(ctx context.Context, fn func([]Order) ([]Order, error)) error
}
