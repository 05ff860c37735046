package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewSaleTotal(t *testing.T) {
	sale := NewSale{
		ClientID: 1,
		Lines: []NewSaleLine{
			{ProductID: 5, Quantity: 2, UnitPrice: price("10.00")},
			{ProductID: 6, Quantity: 3, UnitPrice: price("0.10")},
		},
	}

	assert.True(t, decimal.RequireFromString("20.30").Equal(sale.Total()))
}

func TestNewSaleTotalEmpty(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(NewSale{ClientID: 1}.Total()))
}

func TestNewSaleValidateNegativePrice(t *testing.T) {
	sale := NewSale{
		ClientID: 1,
		Lines:    []NewSaleLine{{ProductID: 1, Quantity: 1, UnitPrice: price("-1")}},
	}
	assert.Error(t, sale.Validate())
}

func TestClientPatchAssignments(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"telefono": "555"}, ClientPatch{Phone: SetString("555")}.Assignments())
	assert.Equal(t, map[string]interface{}{"telefono": nil}, ClientPatch{Phone: ClearString()}.Assignments())
	assert.Empty(t, ClientPatch{}.Assignments())
}

func TestProductPatchAssignments(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	stock := 0
	set := ProductPatch{Price: &price, Stock: &stock}.Assignments()

	assert.Len(t, set, 2)
	assert.Equal(t, price, set["precio"])
	assert.Equal(t, 0, set["cantidad_stock"])
}

func TestProductInputSubtype(t *testing.T) {
	in := ProductInput{Name: "Camisa", Price: price("20"), Clothing: &Clothing{Material: "algodon", Cut: "slim", Size: "M"}}
	sub, err := in.Subtype()
	require.NoError(t, err)
	assert.Equal(t, ProductTypeClothing, sub.ProductType())

	in.Accessory = &Accessory{Material: "cuero"}
	assert.ErrorIs(t, in.Validate(), ErrMultipleSubtypes)

	assert.ErrorIs(t, ProductInput{Name: "Camisa"}.Validate(), ErrPriceRequired)
	assert.ErrorIs(t, ProductInput{Name: "Zapato", Price: price("1"), Footwear: &Footwear{SoleMaterial: "goma"}}.Validate(), ErrSizeRequired)
}

func TestNullableStringTracksPresence(t *testing.T) {
	var patch ClientPatch
	require.NoError(t, json.Unmarshal([]byte(`{"telefono": null}`), &patch))
	assert.True(t, patch.Phone.Set)
	assert.Nil(t, patch.Phone.Value)

	patch = ClientPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"nombre": "Ana"}`), &patch))
	assert.False(t, patch.Phone.Set)
	assert.Equal(t, map[string]interface{}{"nombre": "Ana"}, patch.Assignments())

	require.NoError(t, json.Unmarshal([]byte(`{"telefono": "777"}`), &patch))
	assert.Equal(t, "777", *patch.Phone.Value)
}

func TestDateScanAndJSON(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-03-09", d.String())

	require.NoError(t, d.Scan("2024-03-10T00:00:00Z"))
	assert.Equal(t, "2024-03-10", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-11")))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-11"`, string(out))

	assert.Error(t, d.Scan(42))
}

func TestDecimalMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(SaleDetail{SaleID: 1, ProductID: 5, Quantity: 2, UnitPrice: decimal.RequireFromString("10.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id_venta":1,"id_producto":5,"cantidad":2,"precio_unitario":10.5}`, string(out))
}
