// Package store owns the four persisted lists of the shop and implements the
// catalog, order and user repositories on top of a kvstore.Store.
package store

import (
	"context"

	"rnimart-be/internal/catalog"
	"rnimart-be/internal/kvstore"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/order"
	"rnimart-be/internal/user"

	"go.uber.org/zap"
)

const (
	KeyProducts   = "rni_products"
	KeyOrders     = "rni_orders"
	KeyUsers      = "rni_users"
	KeyCategories = "rni_categories"
)

type Store struct {
	kv kvstore.Store

	products   *record[catalog.Product]
	orders     *record[order.Order]
	users      *record[user.User]
	categories *record[string]
}

var (
	_ catalog.Repository = (*Store)(nil)
	_ order.Repository   = (*Store)(nil)
	_ user.Repository    = (*Store)(nil)
)

// Load reads every record from kv, seeding the ones that are absent. An empty
// user list is reseeded too so the bootstrap accounts always exist.
func Load(ctx context.Context, kv kvstore.Store) (*Store, error) {
	return load(ctx, kv, user.HashPassword)
}

func load(ctx context.Context, kv kvstore.Store, hash func(string) (string, error)) (*Store, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "store"))

	s := &Store{
		kv:         kv,
		products:   newRecord(KeyProducts, catalog.Product.Clone),
		orders:     newRecord(KeyOrders, order.Order.Clone),
		users:      newRecord[user.User](KeyUsers, nil),
		categories: newRecord[string](KeyCategories, nil),
	}

	steps := []struct {
		key  string
		load func() (bool, error)
	}{
		{KeyProducts, func() (bool, error) { return s.products.load(ctx, kv, defaultProducts) }},
		{KeyCategories, func() (bool, error) { return s.categories.load(ctx, kv, defaultCategories) }},
		{KeyOrders, func() (bool, error) { return s.orders.load(ctx, kv, func() []order.Order { return nil }) }},
		{KeyUsers, func() (bool, error) { return s.users.load(ctx, kv, func() []user.User { return nil }) }},
	}
	for _, step := range steps {
		seeded, err := step.load()
		if err != nil {
			log.Error("failed to load record", zap.String("key", step.key), zap.Error(err))
			return nil, err
		}
		if seeded {
			log.Info("record seeded with defaults", zap.String("key", step.key))
		}
	}

	if len(s.users.get()) == 0 {
		users, err := defaultUsers(hash)
		if err != nil {
			return nil, err
		}
		if err := s.users.seed(ctx, kv, users); err != nil {
			log.Error("failed to seed users", zap.Error(err))
			return nil, err
		}
		log.Info("bootstrap accounts created", zap.Int("count", len(users)))
	}

	return s, nil
}

func (s *Store) Products(ctx context.Context) ([]catalog.Product, error) {
	return s.products.get(), nil
}

func (s *Store) UpdateProducts(ctx context.Context, fn func([]catalog.Product) ([]catalog.Product, error)) error {
	return s.products.update(ctx, s.kv, fn)
}

// ReplaceProducts overwrites the whole product list.
func (s *Store) ReplaceProducts(ctx context.Context, products []catalog.Product) error {
	return s.UpdateProducts(ctx, func([]catalog.Product) ([]catalog.Product, error) { return products, nil })
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	return s.categories.get(), nil
}

func (s *Store) UpdateCategories(ctx context.Context, fn func([]string) ([]string, error)) error {
	return s.categories.update(ctx, s.kv, fn)
}

func (s *Store) ReplaceCategories(ctx context.Context, categories []string) error {
	return s.UpdateCategories(ctx, func([]string) ([]string, error) { return categories, nil })
}

func (s *Store) Orders(ctx context.Context) ([]order.Order, error) {
	return s.orders.get(), nil
}

func (s *Store) UpdateOrders(ctx context.Context, fn func([]order.Order) ([]order.Order, error)) error {
	return s.orders.update(ctx, s.kv, fn)
}

func (s *Store) ReplaceOrders(ctx context.Context, orders []order.Order) error {
	return s.UpdateOrders(ctx, func([]order.Order) ([]order.Order, error) { return orders, nil })
}

func (s *Store) Users(ctx context.Context) ([]user.User, error) {
	return s.users.get(), nil
}

func (s *Store) UpdateUsers(ctx context.Context, fn func([]user.User) ([]user.User, error)) error {
	return s.users.update(ctx, s.kv, fn)
}

func (s *Store) ReplaceUsers(ctx context.Context, users []user.User) error {
	return s.UpdateUsers(ctx, func([]user.User) ([]user.User, error) { return users, nil })
}
