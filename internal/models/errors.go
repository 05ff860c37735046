package models

import "errors"

// Validation errors reported back to callers as 400s
var (
	ErrPriceRequired    = errors.New("precio is required")
	ErrNegativePrice    = errors.New("precio must be greater than or equal to 0")
	ErrSizeRequired     = errors.New("calzado.talla_numerica is required")
	ErrMultipleSubtypes = errors.New("a product can have at most one of ropa, calzado, accesorios")
)
