package models

import "github.com/shopspring/decimal"

func init() {
	// Money travels as JSON numbers (20.5), not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Client represents a customer of the bazar
type Client struct {
	ID    int64   `db:"id_cliente" json:"id_cliente"`
	Name  string  `db:"nombre" json:"nombre"`
	Phone *string `db:"telefono" json:"telefono"`
}

// ClientInput carries the fields accepted when creating a client
type ClientInput struct {
	Name  string  `json:"nombre" binding:"required"`
	Phone *string `json:"telefono"`
}

// ClientPatch is a partial client update; absent fields are left untouched
// and an explicit null telefono clears it
type ClientPatch struct {
	Name  *string        `json:"nombre" binding:"omitempty,min=1"`
	Phone NullableString `json:"telefono"`
}

// Assignments returns the column/value pairs present in the patch
func (p ClientPatch) Assignments() map[string]interface{} {
	set := make(map[string]interface{})
	putString(set, "nombre", p.Name)
	putNullable(set, "telefono", p.Phone)
	return set
}

// Supplier represents a product supplier
type Supplier struct {
	ID    int64   `db:"id_proveedor" json:"id_proveedor"`
	Name  string  `db:"nombre" json:"nombre"`
	Phone *string `db:"telefono" json:"telefono"`
}

// SupplierInput carries the fields accepted when creating a supplier
type SupplierInput struct {
	Name  string  `json:"nombre" binding:"required"`
	Phone *string `json:"telefono"`
}

// SupplierPatch is a partial supplier update
type SupplierPatch struct {
	Name  *string        `json:"nombre" binding:"omitempty,min=1"`
	Phone NullableString `json:"telefono"`
}

// Assignments returns the column/value pairs present in the patch
func (p SupplierPatch) Assignments() map[string]interface{} {
	set := make(map[string]interface{})
	putString(set, "nombre", p.Name)
	putNullable(set, "telefono", p.Phone)
	return set
}

// Address is a delivery address owned by exactly one client
type Address struct {
	ID         int64  `db:"id_direccion" json:"id_direccion"`
	Street     string `db:"calle" json:"calle"`
	City       string `db:"ciudad" json:"ciudad"`
	PostalCode string `db:"codigo_postal" json:"codigo_postal"`
	ClientID   int64  `db:"id_cliente" json:"id_cliente"`
}

// AddressInput carries the fields accepted when creating an address.
// The owning client comes from the route, never from the body
type AddressInput struct {
	Street     string `json:"calle" binding:"required"`
	City       string `json:"ciudad" binding:"required"`
	PostalCode string `json:"codigo_postal" binding:"required"`
}

// AddressPatch is a partial address update
type AddressPatch struct {
	Street     *string `json:"calle" binding:"omitempty,min=1"`
	City       *string `json:"ciudad" binding:"omitempty,min=1"`
	PostalCode *string `json:"codigo_postal" binding:"omitempty,min=1"`
}

// Assignments returns the column/value pairs present in the patch
func (p AddressPatch) Assignments() map[string]interface{} {
	set := make(map[string]interface{})
	putString(set, "calle", p.Street)
	putString(set, "ciudad", p.City)
	putString(set, "codigo_postal", p.PostalCode)
	return set
}

func putString(set map[string]interface{}, column string, value *string) {
	if value != nil {
		set[column] = *value
	}
}
