package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"rnimart-be/internal/logger"
	"rnimart-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, input ProductInput) (Product, error)
	Update(ctx context.Context, id string, input ProductInput) (Product, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) ([]string, error)
}

type service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) Service {
	return &service{
		repo:  repo,
		newID: func() string { return utils.ProductIDFromTime(time.Now()) },
	}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && filter.Category != AllCategories && p.Category != filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (Product, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (s *service) Create(ctx context.Context, input ProductInput) (Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if err := utils.ValidateStruct(input); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return Product{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	category, isNew, err := s.resolveCategory(ctx, input)
	if err != nil {
		log.Warn("category rejected", zap.String("category", input.Category), zap.Error(err))
		return Product{}, err
	}

	var created Product
	err = s.repo.UpdateProducts(ctx, func(products []Product) ([]Product, error) {
		p, err := buildProduct(products, input, category)
		if err != nil {
			return nil, err
		}
		p.ID = s.newID()
		created = p
		// newest first, like the admin inventory list
		return append([]Product{p}, products...), nil
	})
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return Product{}, err
	}
	if isNew {
		s.ensureCategory(ctx, log, category)
	}

	log.Info("product created",
		zap.String("product_id", created.ID),
		zap.String("type", string(created.Type)),
	)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, input ProductInput) (Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", id),
	)

	if err := utils.ValidateStruct(input); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return Product{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	category, isNew, err := s.resolveCategory(ctx, input)
	if err != nil {
		log.Warn("category rejected", zap.String("category", input.Category), zap.Error(err))
		return Product{}, err
	}

	var updated Product
	err = s.repo.UpdateProducts(ctx, func(products []Product) ([]Product, error) {
		idx := slices.IndexFunc(products, func(p Product) bool { return p.ID == id })
		if idx < 0 {
			return nil, ErrProductNotFound
		}

		others := slices.Delete(slices.Clone(products), idx, idx+1)
		p, err := buildProduct(others, input, category)
		if err != nil {
			return nil, err
		}
		p.ID = id
		updated = p

		next := slices.Clone(products)
		next[idx] = p
		return next, nil
	})
	if err != nil {
		log.Warn("failed to update product", zap.Error(err))
		return Product{}, err
	}
	if isNew {
		s.ensureCategory(ctx, log, category)
	}

	log.Info("product updated")
	return updated, nil
}

// Delete removes the product from the catalog. Orders keep their frozen copy.
func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteProduct"),
		zap.String("product_id", id),
	)

	err := s.repo.UpdateProducts(ctx, func(products []Product) ([]Product, error) {
		idx := slices.IndexFunc(products, func(p Product) bool { return p.ID == id })
		if idx < 0 {
			return nil, ErrProductNotFound
		}
		return slices.Delete(slices.Clone(products), idx, idx+1), nil
	})
	if err != nil {
		log.Warn("failed to delete product", zap.Error(err))
		return err
	}

	log.Info("product deleted")
	return nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *service) AddCategory(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}

	var out []string
	err := s.repo.UpdateCategories(ctx, func(categories []string) ([]string, error) {
		if slices.Contains(categories, name) {
			return nil, ErrCategoryExists
		}
		out = append(slices.Clone(categories), name)
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("category added",
		zap.String("layer", "service"),
		zap.String("category", name),
	)
	return out, nil
}

// resolveCategory returns the category the product should carry. A non-empty
// NewCategory wins; isNew reports it is missing from the category list. Nothing
// is written here so a rejected product leaves the categories untouched.
func (s *service) resolveCategory(ctx context.Context, input ProductInput) (string, bool, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return "", false, err
	}

	if name := strings.TrimSpace(input.NewCategory); name != "" {
		return name, !slices.Contains(categories, name), nil
	}

	if input.Category == "" {
		return "", false, nil
	}
	if !slices.Contains(categories, input.Category) {
		return "", false, ErrUnknownCategory
	}
	return input.Category, false, nil
}

// ensureCategory records an inline category once its product is saved. The
// product stays saved if this write fails.
func (s *service) ensureCategory(ctx context.Context, log *zap.Logger, name string) {
	if _, err := s.AddCategory(ctx, name); err != nil && !errors.Is(err, ErrCategoryExists) {
		log.Error("failed to add inline category", zap.String("category", name), zap.Error(err))
	}
}

// buildProduct turns the form into a product. For bundles with selected items the
// description is regenerated from the unit products' names.
func buildProduct(products []Product, input ProductInput, category string) (Product, error) {
	p := Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Weight:      input.Weight,
		Category:    category,
		Type:        input.Type,
	}

	if !p.IsBundle() || len(input.BundleItems) == 0 {
		return p, nil
	}

	names := make([]string, 0, len(input.BundleItems))
	for _, itemID := range input.BundleItems {
		idx := slices.IndexFunc(products, func(c Product) bool { return c.ID == itemID })
		if idx < 0 || products[idx].IsBundle() {
			return Product{}, fmt.Errorf("%w: %s", ErrInvalidBundleItem, itemID)
		}
		names = append(names, products[idx].Name)
	}

	p.BundleItems = slices.Clone(input.BundleItems)
	p.Description = BundleDescriptionPrefix + strings.Join(names, ", ")
	return p, nil
}
