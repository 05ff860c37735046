package service

import (
	"context"

	"bazar-api/internal/models"
	"bazar-api/internal/store"
	"bazar-api/internal/util"

	"go.uber.org/zap"
)

// AddressService handles the addresses of a client. Every operation first
// checks that the owning client exists
type AddressService struct {
	store    *store.Store
	boundary boundary
}

// NewAddressService creates a new address service
func NewAddressService(store *store.Store) *AddressService {
	return &AddressService{store: store, boundary: newBoundary()}
}

func (s *AddressService) requireClient(ctx context.Context, clientID int64) error {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return s.boundary.get("get_client", err, zap.Int64("client_id", clientID))
	}
	return nil
}

// List returns the addresses of a client ordered by id
func (s *AddressService) List(ctx context.Context, clientID int64) ([]models.Address, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.List")
	defer span.End()

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	addresses, err := s.store.ListAddresses(ctx, clientID)
	if err != nil {
		s.boundary.readFailed("list_addresses", err, zap.Int64("client_id", clientID))
		return []models.Address{}, nil
	}
	return addresses, nil
}

// Get returns one address of a client
func (s *AddressService) Get(ctx context.Context, clientID, addressID int64) (*models.Address, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.Get")
	defer span.End()

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	address, err := s.store.GetAddress(ctx, clientID, addressID)
	if err != nil {
		return nil, s.boundary.get("get_address", err,
			zap.Int64("client_id", clientID), zap.Int64("address_id", addressID))
	}
	return address, nil
}

// Create adds an address to a client
func (s *AddressService) Create(ctx context.Context, clientID int64, in models.AddressInput) (*models.Address, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.Create")
	defer span.End()

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	address, err := s.store.CreateAddress(ctx, clientID, in)
	if err != nil {
		return nil, s.boundary.write("create_address", err, zap.Int64("client_id", clientID))
	}
	return address, nil
}

// Update applies a partial update to an address of a client
func (s *AddressService) Update(ctx context.Context, clientID, addressID int64, patch models.AddressPatch) (*models.Address, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.Update")
	defer span.End()

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	address, err := s.store.UpdateAddress(ctx, clientID, addressID, patch)
	if err != nil {
		return nil, s.boundary.write("update_address", err,
			zap.Int64("client_id", clientID), zap.Int64("address_id", addressID))
	}
	return address, nil
}

// Delete removes an address of a client
func (s *AddressService) Delete(ctx context.Context, clientID, addressID int64) store.DeleteOutcome {
	ctx, span := util.StartSpan(ctx, "AddressService.Delete")
	defer span.End()

	if err := s.requireClient(ctx, clientID); err != nil {
		return s.boundary.deleted("address", store.DeleteNotFound, nil, zap.Int64("client_id", clientID))
	}

	outcome, err := s.store.DeleteAddress(ctx, clientID, addressID)
	return s.boundary.deleted("address", outcome, err,
		zap.Int64("client_id", clientID), zap.Int64("address_id", addressID))
}
