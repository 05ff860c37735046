package service

import (
	"context"

	"bazar-api/internal/models"
	"bazar-api/internal/store"
	"bazar-api/internal/util"

	"go.uber.org/zap"
)

// ProductService handles product operations
type ProductService struct {
	store    *store.Store
	boundary boundary
}

// NewProductService creates a new product service
func NewProductService(store *store.Store) *ProductService {
	return &ProductService{store: store, boundary: newBoundary()}
}

// List returns every product tagged with its resolved type
func (s *ProductService) List(ctx context.Context) []models.ProductListing {
	ctx, span := util.StartSpan(ctx, "ProductService.List")
	defer span.End()

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		s.boundary.readFailed("list_products", err)
		return []models.ProductListing{}
	}
	return products
}

// Get returns a product with its subtype details attached
func (s *ProductService) Get(ctx context.Context, id int64) (*models.ProductDetail, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Get")
	defer span.End()

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, s.boundary.get("get_product", err, zap.Int64("product_id", id))
	}
	return product, nil
}

// Create inserts a product and its optional subtype row
func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.ProductDetail, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Create")
	defer span.End()

	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	product, err := s.store.CreateProduct(ctx, in)
	if err != nil {
		return nil, s.boundary.write("create_product", err, zap.Int64("supplier_id", in.SupplierID))
	}
	s.boundary.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("type", string(product.Type)))
	return product, nil
}

// Update applies a partial update to the base product fields
func (s *ProductService) Update(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Update")
	defer span.End()

	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}

	product, err := s.store.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, s.boundary.write("update_product", err, zap.Int64("product_id", id))
	}
	return product, nil
}

// Delete removes a product and its subtype row
func (s *ProductService) Delete(ctx context.Context, id int64) store.DeleteOutcome {
	ctx, span := util.StartSpan(ctx, "ProductService.Delete")
	defer span.End()

	outcome, err := s.store.DeleteProduct(ctx, id)
	return s.boundary.deleted("product", outcome, err, zap.Int64("product_id", id))
}
