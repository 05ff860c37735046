package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a committed sale together with its line items
type Sale struct {
	ID       int64           `db:"id_venta" json:"id_venta"`
	ClientID int64           `db:"id_cliente" json:"id_cliente"`
	Date     Date            `db:"fecha" json:"fecha"`
	Total    decimal.Decimal `db:"monto_total" json:"monto_total"`
	Details  []SaleDetail    `db:"-" json:"detalles"`
}

// SaleDetail is one line item of a sale
type SaleDetail struct {
	SaleID    int64           `db:"id_venta" json:"id_venta"`
	ProductID int64           `db:"id_producto" json:"id_producto"`
	Quantity  int             `db:"cantidad" json:"cantidad"`
	UnitPrice decimal.Decimal `db:"precio_unitario" json:"precio_unitario"`
}

// NewSale is the request to record a sale. The total is never client supplied
type NewSale struct {
	ClientID int64         `json:"id_cliente" binding:"required"`
	Lines    []NewSaleLine `json:"detalles" binding:"required,min=1,dive"`
}

// NewSaleLine is one requested line item
type NewSaleLine struct {
	ProductID int64            `json:"id_producto" binding:"required"`
	Quantity  int              `json:"cantidad" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"precio_unitario" binding:"required"`
}

// Validate checks the rules the binding tags cannot express
func (s NewSale) Validate() error {
	for i, line := range s.Lines {
		if line.UnitPrice == nil {
			return fmt.Errorf("detalles[%d]: precio_unitario is required", i)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("detalles[%d]: precio_unitario must be greater than or equal to 0", i)
		}
	}
	return nil
}

// Total is the sum of quantity * unit price over the lines, in input order
func (s NewSale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		if line.UnitPrice == nil {
			continue
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

const dateLayout = "2006-01-02"

// Date is a calendar day without time of day, stored as a SQL DATE
type Date struct {
	time.Time
}

// DateOf truncates t to its calendar day in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. Postgres drivers hand back time.Time while
// SQLite may return the stored text
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) parse(s string) error {
	if len(s) < len(dateLayout) {
		return fmt.Errorf("invalid date %q", s)
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

// MarshalJSON renders the day as "2006-01-02"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02"
func (d *Date) UnmarshalJSON(b []byte) error {
	return d.parse(strings.Trim(string(b), `"`))
}
