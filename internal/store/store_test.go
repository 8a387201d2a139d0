package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rnimart-be/internal/catalog"
	"rnimart-be/internal/kvstore"
	"rnimart-be/internal/order"
	"rnimart-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainHash(p string) (string, error) { return p, nil }

// flakyKV fails every Set once failSet is true.
type flakyKV struct {
	kvstore.Store
	failSet bool
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestLoad_SeedsMissingRecords(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	s, err := load(ctx, kv, plainHash)
	require.NoError(t, err)

	products, _ := s.Products(ctx)
	require.Len(t, products, 4)
	assert.Equal(t, "P1", products[0].ID)
	assert.Equal(t, int64(75000), products[0].Price)
	assert.Equal(t, catalog.TypeBundle, products[3].Type)

	categories, _ := s.Categories(ctx)
	assert.Equal(t, []string{"Sembako", "Makanan", "Minuman", "Kebutuhan Rumah", "Paket Hemat"}, categories)

	orders, _ := s.Orders(ctx)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	users, _ := s.Users(ctx)
	require.Len(t, users, 2)
	assert.Equal(t, "superadmin", users[0].Username)
	assert.Equal(t, user.RoleAdmin, users[0].Role)
	assert.Equal(t, "budi01", users[1].Username)

	for _, key := range []string{KeyProducts, KeyCategories, KeyOrders, KeyUsers} {
		_, err := kv.Get(ctx, key)
		assert.NoError(t, err, key)
	}
}

func TestLoad_HashesBootstrapPasswords(t *testing.T) {
	ctx := context.Background()
	s, err := Load(ctx, kvstore.NewMemory())
	require.NoError(t, err)

	users, _ := s.Users(ctx)
	for _, u := range users {
		assert.NotEqual(t, "123", u.Password)
		assert.True(t, user.CheckPassword(u.Password, "123"))
	}
}

func TestLoad_KeepsExistingRecords(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	existing := []catalog.Product{{ID: "X1", Name: "Gula Pasir", Price: 16000, Type: catalog.TypeUnit}}
	raw, _ := json.Marshal(existing)
	require.NoError(t, kv.Set(ctx, KeyProducts, raw))
	require.NoError(t, kv.Set(ctx, KeyUsers, []byte(`[{"nama":"Sari","username":"sari","role":"Customer","wa":"62811","password":"abc"}]`)))

	s, err := load(ctx, kv, plainHash)
	require.NoError(t, err)

	products, _ := s.Products(ctx)
	assert.Equal(t, existing, products)

	users, _ := s.Users(ctx)
	require.Len(t, users, 1)
	assert.Equal(t, "sari", users[0].Username)
}

func TestLoad_EmptyUserListIsReseeded(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, KeyUsers, []byte(`[]`)))

	s, err := load(ctx, kv, plainHash)
	require.NoError(t, err)

	users, _ := s.Users(ctx)
	assert.Len(t, users, 2)
}

func TestLoad_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, KeyOrders, []byte(`{not json`)))

	_, err := load(ctx, kv, plainHash)
	assert.ErrorContains(t, err, "failed to decode rni_orders")
}

func TestStore_UpdateOrders(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Store: kvstore.NewMemory()}
	s, err := load(ctx, kv, plainHash)
	require.NoError(t, err)

	placed := order.Order{ID: "RNI-1", Customer: "Budi Santoso", Total: 75000, Items: []order.Item{{Name: "Beras RNI Premium", Qty: 1, Price: 75000}}}

	t.Run("Success persists", func(t *testing.T) {
		err := s.UpdateOrders(ctx, func(orders []order.Order) ([]order.Order, error) {
			return append([]order.Order{placed}, orders...), nil
		})
		require.NoError(t, err)

		raw, err := kv.Get(ctx, KeyOrders)
		require.NoError(t, err)
		var stored []order.Order
		require.NoError(t, json.Unmarshal(raw, &stored))
		assert.Equal(t, []order.Order{placed}, stored)
	})

	t.Run("Callback error is returned unwrapped", func(t *testing.T) {
		err := s.UpdateOrders(ctx, func(orders []order.Order) ([]order.Order, error) {
			return nil, order.ErrOrderNotFound
		})
		assert.Equal(t, order.ErrOrderNotFound, err)

		orders, _ := s.Orders(ctx)
		assert.Len(t, orders, 1)
	})

	t.Run("Write failure keeps snapshot", func(t *testing.T) {
		kv.failSet = true
		defer func() { kv.failSet = false }()

		err := s.UpdateOrders(ctx, func(orders []order.Order) ([]order.Order, error) {
			return nil, nil
		})
		assert.ErrorContains(t, err, "disk full")

		orders, _ := s.Orders(ctx)
		assert.Len(t, orders, 1)
	})

	t.Run("Readers get copies", func(t *testing.T) {
		orders, _ := s.Orders(ctx)
		orders[0].Items[0].Qty = 99
		orders[0].Status = order.StatusCancelled

		again, _ := s.Orders(ctx)
		assert.Equal(t, 1, again[0].Items[0].Qty)
		assert.NotEqual(t, order.StatusCancelled, again[0].Status)
	})
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	s, err := load(ctx, kvstore.NewMemory(), plainHash)
	require.NoError(t, err)

	cats := []string{"Sembako"}
	require.NoError(t, s.ReplaceCategories(ctx, cats))
	cats[0] = "changed"

	got, _ := s.Categories(ctx)
	assert.Equal(t, []string{"Sembako"}, got)

	require.NoError(t, s.ReplaceProducts(ctx, nil))
	products, _ := s.Products(ctx)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	require.NoError(t, s.ReplaceUsers(ctx, []user.User{{Username: "x"}}))
	users, _ := s.Users(ctx)
	assert.Len(t, users, 1)

	require.NoError(t, s.ReplaceOrders(ctx, []order.Order{{ID: "RNI-2"}}))
	orders, _ := s.Orders(ctx)
	assert.Len(t, orders, 1)
}
