package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"barback/internal/cache"
	"barback/internal/domain"
	"barback/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrInvalidPrice rejects negative sale or cost prices.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrInvalidStockLevel rejects negative initial quantity or minimum
	// stock values.
	ErrInvalidStockLevel = errors.New("stock level must not be negative")
)

const (
	productListCacheKey = "catalog:products"
	productListCacheTTL = 30 * time.Second
)

// ProductInput carries the catalog fields for create/update. InitialQuantity
// is only honored on create; updates never touch quantity.
type ProductInput struct {
	Name            string
	SalePrice       decimal.Decimal
	CostPrice       decimal.Decimal
	MinStock        int
	InitialQuantity int
}

// CatalogService manages the product catalog. It owns every product field
// except the live quantity, which belongs to the transaction coordinator.
type CatalogService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListLowStock(ctx context.Context) ([]*domain.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
	cache    cache.Cache
	logger   *zap.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(products repository.ProductRepository, c cache.Cache, logger *zap.Logger) CatalogService {
	return &catalogService{products: products, cache: c, logger: logger}
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if input.InitialQuantity < 0 {
		return nil, ErrInvalidStockLevel
	}

	now := time.Now()
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      input.Name,
		SalePrice: input.SalePrice,
		CostPrice: input.CostPrice,
		Quantity:  input.InitialQuantity,
		MinStock:  input.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateListCache(ctx)
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.SalePrice = input.SalePrice
	product.CostPrice = input.CostPrice
	product.MinStock = input.MinStock
	product.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListProducts serves the catalog list from a short-lived cache. Quantity
// shown here may lag a concurrent sale by up to the TTL; single-product
// reads always hit the store.
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if data, ok, err := s.cache.Get(ctx, productListCacheKey); err == nil && ok {
		products := []*domain.Product{}
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	} else if err != nil {
		s.logger.Warn("Product list cache read failed", zap.Error(err))
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, productListCacheKey, data, productListCacheTTL); err != nil {
			s.logger.Warn("Product list cache write failed", zap.Error(err))
		}
	}

	return products, nil
}

func (s *catalogService) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	return products, nil
}

func (s *catalogService) invalidateListCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, productListCacheKey); err != nil {
		s.logger.Warn("Product list cache invalidation failed", zap.Error(err))
	}
}

func validateProductInput(input ProductInput) error {
	if input.SalePrice.IsNegative() || input.CostPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if input.MinStock < 0 {
		return ErrInvalidStockLevel
	}
	return nil
}
