package user

import "context"

// Repository is the persisted user list. UpdateUsers replaces the whole list with
// the value returned by fn; if fn or the write fails nothing changes.
type Repository interface {
	Users(ctx context.Context) ([]User, error)
	UpdateUsers(ctx context.Context, fn func([]User) ([]User, error)) error
}
