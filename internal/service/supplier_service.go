package service

import (
	"context"

	"bazar-api/internal/models"
	"bazar-api/internal/store"
	"bazar-api/internal/util"

	"go.uber.org/zap"
)

// SupplierService handles supplier operations
type SupplierService struct {
	store    *store.Store
	boundary boundary
}

// NewSupplierService creates a new supplier service
func NewSupplierService(store *store.Store) *SupplierService {
	return &SupplierService{store: store, boundary: newBoundary()}
}

// List returns every supplier ordered by name
func (s *SupplierService) List(ctx context.Context) []models.Supplier {
	ctx, span := util.StartSpan(ctx, "SupplierService.List")
	defer span.End()

	suppliers, err := s.store.ListSuppliers(ctx)
	if err != nil {
		s.boundary.readFailed("list_suppliers", err)
		return []models.Supplier{}
	}
	return suppliers
}

// Get returns one supplier
func (s *SupplierService) Get(ctx context.Context, id int64) (*models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.Get")
	defer span.End()

	supplier, err := s.store.GetSupplier(ctx, id)
	if err != nil {
		return nil, s.boundary.get("get_supplier", err, zap.Int64("supplier_id", id))
	}
	return supplier, nil
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, in models.SupplierInput) (*models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.Create")
	defer span.End()

	supplier, err := s.store.CreateSupplier(ctx, in)
	if err != nil {
		return nil, s.boundary.write("create_supplier", err)
	}
	s.boundary.logger.Info("Supplier created", zap.Int64("supplier_id", supplier.ID))
	return supplier, nil
}

// Update applies a partial update
func (s *SupplierService) Update(ctx context.Context, id int64, patch models.SupplierPatch) (*models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.Update")
	defer span.End()

	supplier, err := s.store.UpdateSupplier(ctx, id, patch)
	if err != nil {
		return nil, s.boundary.write("update_supplier", err, zap.Int64("supplier_id", id))
	}
	return supplier, nil
}

// Delete removes a supplier no product references
func (s *SupplierService) Delete(ctx context.Context, id int64) store.DeleteOutcome {
	ctx, span := util.StartSpan(ctx, "SupplierService.Delete")
	defer span.End()

	outcome, err := s.store.DeleteSupplier(ctx, id)
	return s.boundary.deleted("supplier", outcome, err, zap.Int64("supplier_id", id))
}
