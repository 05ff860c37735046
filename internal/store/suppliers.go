package store

import (
	"context"
	"fmt"

	"bazar-api/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const supplierColumns = "id_proveedor, nombre, telefono"

// ListSuppliers retrieves all suppliers ordered by name
func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	err := s.db.SelectContext(ctx, &suppliers,
		"SELECT "+supplierColumns+" FROM proveedor ORDER BY nombre")
	return suppliers, err
}

// GetSupplier retrieves a supplier by ID
func (s *Store) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	var supplier models.Supplier
	err := getOne(ctx, s.db, &supplier,
		s.db.Rebind("SELECT "+supplierColumns+" FROM proveedor WHERE id_proveedor = ?"), id)
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// CreateSupplier inserts a supplier and returns it with its generated ID
func (s *Store) CreateSupplier(ctx context.Context, in models.SupplierInput) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.GetContext(ctx, &supplier,
		s.db.Rebind("INSERT INTO proveedor (nombre, telefono) VALUES (?, ?) RETURNING "+supplierColumns),
		in.Name, in.Phone)
	if err != nil {
		return nil, fmt.Errorf("inserting proveedor: %w", err)
	}
	return &supplier, nil
}

// UpdateSupplier applies a partial update. An empty patch returns the current
// row without writing
func (s *Store) UpdateSupplier(ctx context.Context, id int64, patch models.SupplierPatch) (*models.Supplier, error) {
	set := patch.Assignments()
	if len(set) == 0 {
		return s.GetSupplier(ctx, id)
	}

	var supplier models.Supplier
	if err := s.updateReturning(ctx, s.db, &supplier, "proveedor", set, sq.Eq{"id_proveedor": id}, supplierColumns); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// DeleteSupplier deletes a supplier. Products still referencing it block the delete
func (s *Store) DeleteSupplier(ctx context.Context, id int64) (DeleteOutcome, error) {
	return s.deleteWhere(ctx, s.db, "proveedor", sq.Eq{"id_proveedor": id})
}
