package models

import "github.com/shopspring/decimal"

// ProductType tags which subtype table extends a product
type ProductType string

const (
	ProductTypeClothing  ProductType = "clothing"
	ProductTypeFootwear  ProductType = "footwear"
	ProductTypeAccessory ProductType = "accessory"
	ProductTypeUnknown   ProductType = "unknown"
)

// SubtypePriority is the order in which subtype tables are consulted when
// resolving a product. The first match wins, both in listings and lookups
var SubtypePriority = []ProductType{
	ProductTypeClothing,
	ProductTypeFootwear,
	ProductTypeAccessory,
}

// Product is the base product row
type Product struct {
	ID          int64           `db:"id_producto" json:"id_producto"`
	Name        string          `db:"nombre" json:"nombre"`
	Description *string         `db:"descripcion" json:"descripcion"`
	Price       decimal.Decimal `db:"precio" json:"precio"`
	Stock       int             `db:"cantidad_stock" json:"cantidad_stock"`
	SupplierID  int64           `db:"id_proveedor" json:"id_proveedor"`
}

// ProductListing is a product row annotated with its resolved type
type ProductListing struct {
	Product
	Type ProductType `db:"tipo_producto" json:"tipo_producto"`
}

// ProductDetail is a product with the fields of its subtype attached.
// Type and Subtype stay empty when no subtype row exists
type ProductDetail struct {
	Product
	Type    ProductType    `json:"tipo_producto,omitempty"`
	Subtype SubtypeDetails `json:"detalles_subtipo,omitempty"`
}

// SubtypeDetails is implemented by the three product variants
type SubtypeDetails interface {
	ProductType() ProductType
}

// Clothing holds the ropa subtype fields
type Clothing struct {
	Material string `db:"material" json:"material" binding:"required"`
	Cut      string `db:"tipo_corte" json:"tipo_corte" binding:"required"`
	Size     string `db:"talla" json:"talla" binding:"required"`
}

func (*Clothing) ProductType() ProductType { return ProductTypeClothing }

// Footwear holds the calzado subtype fields
type Footwear struct {
	Size         *decimal.Decimal `db:"talla_numerica" json:"talla_numerica" binding:"required"`
	SoleMaterial string           `db:"material_suela" json:"material_suela" binding:"required"`
}

func (*Footwear) ProductType() ProductType { return ProductTypeFootwear }

// Accessory holds the accesorios subtype fields
type Accessory struct {
	Material   string `db:"material" json:"material" binding:"required"`
	Dimensions string `db:"dimensiones" json:"dimensiones" binding:"required"`
}

func (*Accessory) ProductType() ProductType { return ProductTypeAccessory }

// ProductInput is the payload for creating a product. At most one of
// Clothing, Footwear and Accessory may be set
type ProductInput struct {
	Name        string           `json:"nombre" binding:"required"`
	Description *string          `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio" binding:"required"`
	Stock       int              `json:"cantidad_stock" binding:"gte=0"`
	SupplierID  int64            `json:"id_proveedor" binding:"required"`
	Clothing    *Clothing        `json:"ropa"`
	Footwear    *Footwear        `json:"calzado"`
	Accessory   *Accessory       `json:"accesorios"`
}

// Subtype returns the single subtype carried by the input, if any
func (in ProductInput) Subtype() (SubtypeDetails, error) {
	var found []SubtypeDetails
	if in.Clothing != nil {
		found = append(found, in.Clothing)
	}
	if in.Footwear != nil {
		found = append(found, in.Footwear)
	}
	if in.Accessory != nil {
		found = append(found, in.Accessory)
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, ErrMultipleSubtypes
	}
}

// Validate checks the rules the binding tags cannot express
func (in ProductInput) Validate() error {
	if in.Price == nil {
		return ErrPriceRequired
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if in.Footwear != nil && in.Footwear.Size == nil {
		return ErrSizeRequired
	}
	_, err := in.Subtype()
	return err
}

// ProductPatch is a partial update of the base product row.
// Subtype fields cannot be changed through it
type ProductPatch struct {
	Name        *string          `json:"nombre" binding:"omitempty,min=1"`
	Description NullableString   `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio"`
	Stock       *int             `json:"cantidad_stock" binding:"omitempty,gte=0"`
	SupplierID  *int64           `json:"id_proveedor" binding:"omitempty,gt=0"`
}

// Validate checks the rules the binding tags cannot express
func (p ProductPatch) Validate() error {
	if p.Price != nil && p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Assignments returns the column/value pairs present in the patch
func (p ProductPatch) Assignments() map[string]interface{} {
	set := make(map[string]interface{})
	putString(set, "nombre", p.Name)
	putNullable(set, "descripcion", p.Description)
	if p.Price != nil {
		set["precio"] = *p.Price
	}
	if p.Stock != nil {
		set["cantidad_stock"] = *p.Stock
	}
	if p.SupplierID != nil {
		set["id_proveedor"] = *p.SupplierID
	}
	return set
}
