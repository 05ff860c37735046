package store

import (
	"context"
	"fmt"

	"bazar-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateSale records a sale and its line items atomically. The total is the
// exact sum of quantity * unit price over the lines. Details are inserted and
// returned in input order. Any failure rolls back the whole sale
func (s *Store) CreateSale(ctx context.Context, in models.NewSale, day models.Date) (*models.Sale, error) {
	var sale models.Sale
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &sale,
			tx.Rebind(`
				INSERT INTO venta (id_cliente, fecha, monto_total)
				VALUES (?, ?, ?)
				RETURNING id_venta, id_cliente, fecha, monto_total`),
			in.ClientID, day, in.Total())
		if err != nil {
			return fmt.Errorf("inserting venta: %w", err)
		}

		detailQuery := tx.Rebind(`
			INSERT INTO detalle_venta (id_venta, id_producto, cantidad, precio_unitario)
			VALUES (?, ?, ?, ?)
			RETURNING id_venta, id_producto, cantidad, precio_unitario`)

		sale.Details = make([]models.SaleDetail, 0, len(in.Lines))
		for i, line := range in.Lines {
			if line.UnitPrice == nil {
				return fmt.Errorf("detalle_venta %d for venta %d: precio_unitario is required", i, sale.ID)
			}
			var detail models.SaleDetail
			err := tx.GetContext(ctx, &detail, detailQuery,
				sale.ID, line.ProductID, line.Quantity, *line.UnitPrice)
			if err != nil {
				return fmt.Errorf("inserting detalle_venta %d for venta %d: %w", i, sale.ID, err)
			}
			sale.Details = append(sale.Details, detail)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSale retrieves a sale with its line items in insertion order
func (s *Store) GetSale(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := getOne(ctx, s.db, &sale,
		s.db.Rebind("SELECT id_venta, id_cliente, fecha, monto_total FROM venta WHERE id_venta = ?"), id)
	if err != nil {
		return nil, err
	}

	sale.Details = []models.SaleDetail{}
	err = s.db.SelectContext(ctx, &sale.Details,
		s.db.Rebind(`
			SELECT id_venta, id_producto, cantidad, precio_unitario
			FROM detalle_venta
			WHERE id_venta = ?
			ORDER BY id_detalle`), id)
	if err != nil {
		return nil, fmt.Errorf("listing detalle_venta for venta %d: %w", id, err)
	}
	return &sale, nil
}
