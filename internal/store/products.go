package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bazar-api/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var productColumnList = []string{"id_producto", "nombre", "descripcion", "precio", "cantidad_stock", "id_proveedor"}

var productColumns = strings.Join(productColumnList, ", ")

// subtypeTable describes where a product variant lives
type subtypeTable struct {
	table   string
	alias   string
	columns string
	details func() models.SubtypeDetails
}

var subtypeTables = map[models.ProductType]subtypeTable{
	models.ProductTypeClothing: {
		table:   "ropa",
		alias:   "r",
		columns: "material, tipo_corte, talla",
		details: func() models.SubtypeDetails { return &models.Clothing{} },
	},
	models.ProductTypeFootwear: {
		table:   "calzado",
		alias:   "c",
		columns: "talla_numerica, material_suela",
		details: func() models.SubtypeDetails { return &models.Footwear{} },
	},
	models.ProductTypeAccessory: {
		table:   "accesorios",
		alias:   "a",
		columns: "material, dimensiones",
		details: func() models.SubtypeDetails { return &models.Accessory{} },
	},
}

// ListProducts retrieves all products ordered by name, each tagged with the
// subtype table that extends it. When more than one subtype table holds a
// row for a product, the first one in SubtypePriority wins
func (s *Store) ListProducts(ctx context.Context) ([]models.ProductListing, error) {
	columns := make([]string, 0, len(productColumnList)+1)
	for _, c := range productColumnList {
		columns = append(columns, "p."+c+" AS "+c)
	}

	tag := sq.Case()
	for _, t := range models.SubtypePriority {
		st := subtypeTables[t]
		tag = tag.When(st.alias+".id_producto IS NOT NULL", "'"+string(t)+"'")
	}
	tag = tag.Else("'" + string(models.ProductTypeUnknown) + "'")

	query := s.sb.
		Select(columns...).
		Column(sq.Alias(tag, "tipo_producto")).
		From("producto p")
	for _, t := range models.SubtypePriority {
		st := subtypeTables[t]
		query = query.LeftJoin(fmt.Sprintf("%s %s ON %s.id_producto = p.id_producto", st.table, st.alias, st.alias))
	}

	sqlStr, args, err := query.OrderBy("p.nombre").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building product list query: %w", err)
	}

	products := []models.ProductListing{}
	if err := s.db.SelectContext(ctx, &products, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("listing productos: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a product and resolves its subtype by probing the
// subtype tables in SubtypePriority order, stopping at the first match.
// A product without subtype row comes back with no type and no details
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	base, err := s.getProductBase(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.ProductDetail{Product: *base}
	for _, t := range models.SubtypePriority {
		st := subtypeTables[t]
		details := st.details()
		err := getOne(ctx, s.db, details,
			s.db.Rebind("SELECT "+st.columns+" FROM "+st.table+" WHERE id_producto = ?"), id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("probing %s for producto %d: %w", st.table, id, err)
		}
		detail.Type = t
		detail.Subtype = details
		break
	}
	return detail, nil
}

func (s *Store) getProductBase(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := getOne(ctx, s.db, &product,
		s.db.Rebind("SELECT "+productColumns+" FROM producto WHERE id_producto = ?"), id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts the base product row and, when given, its single
// subtype row in one transaction
func (s *Store) CreateProduct(ctx context.Context, in models.ProductInput) (*models.ProductDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	subtype, _ := in.Subtype()

	var created models.ProductDetail
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &created.Product,
			tx.Rebind(`
				INSERT INTO producto (nombre, descripcion, precio, cantidad_stock, id_proveedor)
				VALUES (?, ?, ?, ?, ?)
				RETURNING `+productColumns),
			in.Name, in.Description, *in.Price, in.Stock, in.SupplierID)
		if err != nil {
			return fmt.Errorf("inserting producto: %w", err)
		}

		if subtype == nil {
			return nil
		}
		if err := s.insertSubtype(ctx, tx, created.ID, subtype); err != nil {
			return err
		}
		created.Type = subtype.ProductType()
		created.Subtype = subtype
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) insertSubtype(ctx context.Context, tx *sqlx.Tx, productID int64, details models.SubtypeDetails) error {
	st := subtypeTables[details.ProductType()]

	var values []interface{}
	switch d := details.(type) {
	case *models.Clothing:
		values = []interface{}{productID, d.Material, d.Cut, d.Size}
	case *models.Footwear:
		values = []interface{}{productID, *d.Size, d.SoleMaterial}
	case *models.Accessory:
		values = []interface{}{productID, d.Material, d.Dimensions}
	default:
		return fmt.Errorf("unsupported product subtype %T", details)
	}

	columns := append([]string{"id_producto"}, strings.Split(st.columns, ", ")...)
	query, args, err := s.sb.Insert(st.table).Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("building %s insert query: %w", st.table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting %s for producto %d: %w", st.table, productID, err)
	}
	return nil
}

// UpdateProduct applies a partial update to the base product row only.
// Subtype rows are never touched
func (s *Store) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	set := patch.Assignments()
	if len(set) == 0 {
		return s.getProductBase(ctx, id)
	}

	var product models.Product
	if err := s.updateReturning(ctx, s.db, &product, "producto", set, sq.Eq{"id_producto": id}, productColumns); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the subtype rows of a product and then the product
// itself in one transaction. If the base row is missing or still referenced
// by a sale detail, nothing is removed
func (s *Store) DeleteProduct(ctx context.Context, id int64) (DeleteOutcome, error) {
	outcome := DeleteFailed
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range models.SubtypePriority {
			st := subtypeTables[t]
			// zero rows here is fine, at most one subtype table holds the product
			if _, err := s.deleteWhere(ctx, tx, st.table, sq.Eq{"id_producto": id}); err != nil {
				return err
			}
		}

		var err error
		outcome, err = s.deleteWhere(ctx, tx, "producto", sq.Eq{"id_producto": id})
		if err != nil {
			return err
		}
		if outcome != DeleteSucceeded {
			return errAbortTx
		}
		return nil
	})

	switch {
	case err == nil:
		return DeleteSucceeded, nil
	case errors.Is(err, errAbortTx):
		return outcome, nil
	default:
		return DeleteFailed, err
	}
}

// errAbortTx rolls back a transaction whose outcome is already recorded
var errAbortTx = errors.New("transaction aborted")
