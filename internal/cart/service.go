package cart

import (
	"context"

	"rnimart-be/internal/catalog"
	"rnimart-be/internal/logger"

	"go.uber.org/zap"
)

// Catalog is the part of the catalog the cart reads prices from.
type Catalog interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
	List(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, error)
}

type Service interface {
	View(ctx context.Context, cartID string) (View, error)
	AddItem(ctx context.Context, cartID, productID string) (View, error)
	UpdateQuantity(ctx context.Context, cartID, productID string, delta int) (View, error)
	RemoveItem(ctx context.Context, cartID, productID string) (View, error)
	Clear(ctx context.Context, cartID string) error
	// Cart returns the live cart with prices synced, for checkout.
	Cart(ctx context.Context, cartID string) (*Cart, error)
}

type service struct {
	carts   *Registry
	catalog Catalog
}

func NewService(carts *Registry, catalog Catalog) Service {
	return &service{carts: carts, catalog: catalog}
}

func (s *service) View(ctx context.Context, cartID string) (View, error) {
	c, err := s.Cart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	return c.View(), nil
}

func (s *service) AddItem(ctx context.Context, cartID, productID string) (View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("product_id", productID),
	)

	if cartID == "" {
		return View{}, ErrMissingCartID
	}

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		log.Warn("product lookup failed", zap.Error(err))
		return View{}, err
	}

	c, err := s.Cart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	c.Add(p)

	log.Debug("item added to cart", zap.Int("total_count", c.TotalCount()))
	return c.View(), nil
}

// UpdateQuantity rejects a zero delta; a request without one carries no change.
func (s *service) UpdateQuantity(ctx context.Context, cartID, productID string, delta int) (View, error) {
	if delta == 0 {
		return View{}, ErrInvalidQuantity
	}
	c, err := s.Cart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	c.UpdateQuantity(productID, delta)
	return c.View(), nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, productID string) (View, error) {
	c, err := s.Cart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	c.Remove(productID)
	return c.View(), nil
}

func (s *service) Clear(ctx context.Context, cartID string) error {
	if cartID == "" {
		return ErrMissingCartID
	}
	s.carts.Get(cartID).Clear()
	return nil
}

func (s *service) Cart(ctx context.Context, cartID string) (*Cart, error) {
	if cartID == "" {
		return nil, ErrMissingCartID
	}

	c := s.carts.Get(cartID)
	if c.IsEmpty() {
		return c, nil
	}

	products, err := s.catalog.List(ctx, catalog.ListFilter{})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load catalog for cart",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, err
	}

	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	c.Sync(func(id string) (catalog.Product, bool) {
		p, ok := byID[id]
		return p, ok
	})
	return c, nil
}
