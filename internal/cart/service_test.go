package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"rnimart-be/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Get(ctx context.Context, id string) (catalog.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Product), args.Error(1)
}

func (m *MockCatalog) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		m := new(MockCatalog)
		m.On("Get", ctx, "P1").Return(beras, nil)
		m.On("List", ctx, catalog.ListFilter{}).Return([]catalog.Product{beras}, nil)

		s := NewService(NewRegistry(time.Hour), m)
		v, err := s.AddItem(ctx, "cart-1", "P1")

		require.NoError(t, err)
		assert.Equal(t, 1, v.TotalCount)
		assert.Equal(t, int64(75000), v.TotalPrice)
	})

	t.Run("Product not found", func(t *testing.T) {
		m := new(MockCatalog)
		m.On("Get", ctx, "P9").Return(catalog.Product{}, catalog.ErrProductNotFound)

		_, err := NewService(NewRegistry(time.Hour), m).AddItem(ctx, "cart-1", "P9")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("Missing cart id", func(t *testing.T) {
		_, err := NewService(NewRegistry(time.Hour), new(MockCatalog)).AddItem(ctx, "", "P1")
		assert.ErrorIs(t, err, ErrMissingCartID)
	})
}

func TestService_ViewUsesLivePrices(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(time.Hour)
	reg.Get("cart-1").Add(beras)
	reg.Get("cart-1").Add(beras)

	repriced := beras
	repriced.Price = 80000

	m := new(MockCatalog)
	m.On("List", ctx, catalog.ListFilter{}).Return([]catalog.Product{repriced}, nil)

	v, err := NewService(reg, m).View(ctx, "cart-1")

	require.NoError(t, err)
	assert.Equal(t, int64(160000), v.TotalPrice)
	m.AssertExpectations(t)
}

func TestService_ViewCatalogError(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(time.Hour)
	reg.Get("cart-1").Add(beras)

	m := new(MockCatalog)
	m.On("List", ctx, catalog.ListFilter{}).Return(nil, errors.New("store down"))

	_, err := NewService(reg, m).View(ctx, "cart-1")
	assert.EqualError(t, err, "store down")
}

func TestService_UpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(time.Hour)
	reg.Get("cart-1").Add(beras)
	reg.Get("cart-1").Add(minyak)

	m := new(MockCatalog)
	m.On("List", ctx, catalog.ListFilter{}).Return([]catalog.Product{beras, minyak}, nil)
	s := NewService(reg, m)

	v, err := s.UpdateQuantity(ctx, "cart-1", "P1", 2)
	require.NoError(t, err)
	assert.Equal(t, 4, v.TotalCount)

	v, err = s.RemoveItem(ctx, "cart-1", "P2")
	require.NoError(t, err)
	assert.Len(t, v.Lines, 1)

	require.NoError(t, s.Clear(ctx, "cart-1"))
	v, err = s.View(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
}

func TestService_UpdateQuantityZeroDelta(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(time.Hour)
	reg.Get("cart-1").Add(beras)

	m := new(MockCatalog)
	_, err := NewService(reg, m).UpdateQuantity(ctx, "cart-1", "P1", 0)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 1, reg.Get("cart-1").View().TotalCount)
	m.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
