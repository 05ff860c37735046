package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bazar-api/internal/models"
	"bazar-api/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "bazar.db") + "?_pragma=foreign_keys(1)"
	s, err := store.NewStore(store.DriverSQLite, dsn, store.DefaultOptions)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.ApplySchema(context.Background()))
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.SaleCreatedEvent
	err    error
}

func (p *fakePublisher) PublishSaleCreated(_ context.Context, event *models.SaleCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

// memoryIdempotency mirrors the Redis claim/complete/release protocol
type memoryIdempotency struct {
	mu          sync.Mutex
	entries     map[string][]byte
	err         error
	completeErr error
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{entries: map[string][]byte{}}
}

func (m *memoryIdempotency) BeginIdempotent(_ context.Context, key string, _ time.Duration) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	stored, ok := m.entries[key]
	if !ok {
		m.entries[key] = nil
		return nil, true, nil
	}
	return stored, false, nil
}

func (m *memoryIdempotency) CompleteIdempotent(_ context.Context, key string, response []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completeErr != nil {
		return m.completeErr
	}
	m.entries[key] = response
	return nil
}

func (m *memoryIdempotency) ReleaseIdempotent(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func seedCatalog(t *testing.T, st *store.Store) (clientID, productID int64) {
	t.Helper()
	ctx := context.Background()

	client, err := st.CreateClient(ctx, models.ClientInput{Name: "Ana", Phone: strPtr("111")})
	require.NoError(t, err)
	supplier, err := st.CreateSupplier(ctx, models.SupplierInput{Name: "Hilos SA"})
	require.NoError(t, err)
	product, err := st.CreateProduct(ctx, models.ProductInput{
		Name:       "Polo",
		Price:      decPtr("10"),
		Stock:      5,
		SupplierID: supplier.ID,
	})
	require.NoError(t, err)
	return client.ID, product.ID
}

func TestClientServiceReadsDegradeToNotFound(t *testing.T) {
	svc := NewClientService(newTestStore(t))
	ctx := context.Background()

	assert.Empty(t, svc.List(ctx))

	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, 1, models.ClientPatch{Phone: models.SetString("555")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientServiceUpdateOnlyTouchesPresentFields(t *testing.T) {
	svc := NewClientService(newTestStore(t))
	ctx := context.Background()

	client, err := svc.Create(ctx, models.ClientInput{Name: "Ana", Phone: strPtr("111")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, client.ID, models.ClientPatch{Phone: models.SetString("555")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.Name)
	assert.Equal(t, "555", *updated.Phone)

	same, err := svc.Update(ctx, client.ID, models.ClientPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)
}

func TestReadsDegradeWhenStoreIsClosed(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Close())
	ctx := context.Background()

	assert.Empty(t, NewClientService(st).List(ctx))
	assert.Empty(t, NewProductService(st).List(ctx))

	_, err := NewSupplierService(st).Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewClientService(st).Create(ctx, models.ClientInput{Name: "Ana"})
	assert.ErrorIs(t, err, ErrWriteFailed)

	assert.Equal(t, store.DeleteFailed, NewSupplierService(st).Delete(ctx, 1))
}

func TestAddressServiceRequiresClient(t *testing.T) {
	st := newTestStore(t)
	svc := NewAddressService(st)
	ctx := context.Background()

	_, err := svc.List(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, 42, models.AddressInput{Street: "Calle 1", City: "Lima", PostalCode: "15001"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, store.DeleteNotFound, svc.Delete(ctx, 42, 1))

	client, err := st.CreateClient(ctx, models.ClientInput{Name: "Ana"})
	require.NoError(t, err)

	addresses, err := svc.List(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, addresses)

	addr, err := svc.Create(ctx, client.ID, models.AddressInput{Street: "Calle 1", City: "Lima", PostalCode: "15001"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, client.ID, addr.ID)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = svc.Update(ctx, client.ID, addr.ID+1, models.AddressPatch{City: strPtr("Cusco")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, store.DeleteSucceeded, svc.Delete(ctx, client.ID, addr.ID))
}

func TestProductServiceValidates(t *testing.T) {
	svc := NewProductService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, models.ProductInput{Name: "Polo", Price: decPtr("-1"), SupplierID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, models.ProductInput{
		Name:       "Polo",
		Price:      decPtr("1"),
		SupplierID: 1,
		Clothing:   &models.Clothing{Material: "lino", Cut: "recto", Size: "S"},
		Accessory:  &models.Accessory{Material: "plata", Dimensions: "1cm"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	negative := dec("-5")
	_, err = svc.Update(ctx, 1, models.ProductPatch{Price: &negative})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, models.ProductInput{Name: "Polo", Price: decPtr("1"), SupplierID: 99})
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestSaleServiceCreate(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)

	publisher := &fakePublisher{}
	fixed := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)
	svc := NewSaleService(st, WithEventPublisher(publisher), WithClock(func() time.Time { return fixed }))

	result, err := svc.Create(context.Background(), models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 2, UnitPrice: decPtr("10.0")}},
	}, "")
	require.NoError(t, err)
	assert.False(t, result.Replayed)

	sale := result.Sale
	assert.Equal(t, "2026-10-18", sale.Date.String())
	assert.True(t, sale.Total.Equal(dec("20")))
	require.Len(t, sale.Details, 1)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, models.EventTypeSaleCreated, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, sale.ID, event.SaleID)
	assert.True(t, event.Total.Equal(sale.Total))
}

func TestSaleServicePublishFailureDoesNotFailSale(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)

	svc := NewSaleService(st, WithEventPublisher(&fakePublisher{err: errors.New("broker down")}))

	result, err := svc.Create(context.Background(), models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 1, UnitPrice: decPtr("10")}},
	}, "")
	require.NoError(t, err)
	assert.NotZero(t, result.Sale.ID)
}

func TestSaleServiceRejectsNegativePrice(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)
	svc := NewSaleService(st)

	_, err := svc.Create(context.Background(), models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 1, UnitPrice: decPtr("-1")}},
	}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaleServiceIdempotentReplay(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)

	idem := newMemoryIdempotency()
	publisher := &fakePublisher{}
	svc := NewSaleService(st, WithIdempotency(idem, time.Hour), WithEventPublisher(publisher))
	ctx := context.Background()

	in := models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 3, UnitPrice: decPtr("10")}},
	}

	first, err := svc.Create(ctx, in, "key-1")
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := svc.Create(ctx, in, "key-1")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Sale.ID, second.Sale.ID)
	assert.True(t, second.Sale.Total.Equal(dec("30")))

	stored, err := st.GetSale(ctx, first.Sale.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Details, 1)
	_, err = st.GetSale(ctx, first.Sale.ID+1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Len(t, publisher.events, 1)

	var record struct {
		Fingerprint string                 `json:"fingerprint"`
		Sale        map[string]interface{} `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(idem.entries["key-1"], &record))
	assert.NotEmpty(t, record.Fingerprint)
	assert.Equal(t, float64(first.Sale.ID), record.Sale["id_venta"])
}

func TestSaleServiceKeyReusedForDifferentSale(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)

	idem := newMemoryIdempotency()
	svc := NewSaleService(st, WithIdempotency(idem, time.Hour))
	ctx := context.Background()

	_, err := svc.Create(ctx, models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 1, UnitPrice: decPtr("10")}},
	}, "key-2")
	require.NoError(t, err)

	_, err = svc.Create(ctx, models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 5, UnitPrice: decPtr("10")}},
	}, "key-2")
	assert.ErrorIs(t, err, ErrIdempotencyKeyReused)
}

func TestSaleServiceKeepsKeyWhenResponseCannotBeStored(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)

	idem := newMemoryIdempotency()
	idem.completeErr = errors.New("redis write timeout")
	svc := NewSaleService(st, WithIdempotency(idem, time.Hour))
	ctx := context.Background()

	in := models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 1, UnitPrice: decPtr("10")}},
	}

	first, err := svc.Create(ctx, in, "key-3")
	require.NoError(t, err)
	assert.NotZero(t, first.Sale.ID)

	_, held := idem.entries["key-3"]
	assert.True(t, held)

	_, err = svc.Create(ctx, in, "key-3")
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	_, err = st.GetSale(ctx, first.Sale.ID+1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaleServiceRejectsLineWithoutPrice(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)
	svc := NewSaleService(st)

	_, err := svc.Create(context.Background(), models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 2}},
	}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaleServiceInFlightKeyIsDuplicate(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)

	idem := newMemoryIdempotency()
	idem.entries["busy"] = nil
	svc := NewSaleService(st, WithIdempotency(idem, time.Hour))

	_, err := svc.Create(context.Background(), models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 1, UnitPrice: decPtr("10")}},
	}, "busy")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestSaleServiceFailureReleasesKey(t *testing.T) {
	st := newTestStore(t)
	clientID, _ := seedCatalog(t, st)

	idem := newMemoryIdempotency()
	svc := NewSaleService(st, WithIdempotency(idem, time.Hour))

	_, err := svc.Create(context.Background(), models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: 999, Quantity: 1, UnitPrice: decPtr("10")}},
	}, "retry-me")
	assert.ErrorIs(t, err, ErrWriteFailed)

	_, held := idem.entries["retry-me"]
	assert.False(t, held)
}

func TestSaleServiceWithoutIdempotencyStoreAvailable(t *testing.T) {
	st := newTestStore(t)
	clientID, productID := seedCatalog(t, st)

	idem := newMemoryIdempotency()
	idem.err = errors.New("connection refused")
	svc := NewSaleService(st, WithIdempotency(idem, time.Hour))

	result, err := svc.Create(context.Background(), models.NewSale{
		ClientID: clientID,
		Lines:    []models.NewSaleLine{{ProductID: productID, Quantity: 1, UnitPrice: decPtr("10")}},
	}, "k")
	require.NoError(t, err)
	assert.NotZero(t, result.Sale.ID)
}

func TestSaleServiceGet(t *testing.T) {
	svc := NewSaleService(newTestStore(t))

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
