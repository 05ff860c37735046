package store

import (
	"context"
	"fmt"

	"bazar-api/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const addressColumns = "id_direccion, calle, ciudad, codigo_postal, id_cliente"

// Every address statement below filters on the owning client as well as the
// address ID, so an address of another client behaves as a missing one.

// ListAddresses retrieves the addresses of a client ordered by ID
func (s *Store) ListAddresses(ctx context.Context, clientID int64) ([]models.Address, error) {
	addresses := []models.Address{}
	err := s.db.SelectContext(ctx, &addresses,
		s.db.Rebind("SELECT "+addressColumns+" FROM direccion WHERE id_cliente = ? ORDER BY id_direccion"),
		clientID)
	return addresses, err
}

// GetAddress retrieves one address of a client
func (s *Store) GetAddress(ctx context.Context, clientID, addressID int64) (*models.Address, error) {
	var address models.Address
	err := getOne(ctx, s.db, &address,
		s.db.Rebind("SELECT "+addressColumns+" FROM direccion WHERE id_direccion = ? AND id_cliente = ?"),
		addressID, clientID)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// CreateAddress adds an address to a client
func (s *Store) CreateAddress(ctx context.Context, clientID int64, in models.AddressInput) (*models.Address, error) {
	var address models.Address
	err := s.db.GetContext(ctx, &address,
		s.db.Rebind(`
			INSERT INTO direccion (calle, ciudad, codigo_postal, id_cliente)
			VALUES (?, ?, ?, ?)
			RETURNING `+addressColumns),
		in.Street, in.City, in.PostalCode, clientID)
	if err != nil {
		return nil, fmt.Errorf("inserting direccion for cliente %d: %w", clientID, err)
	}
	return &address, nil
}

// UpdateAddress applies a partial update to an address of a client
func (s *Store) UpdateAddress(ctx context.Context, clientID, addressID int64, patch models.AddressPatch) (*models.Address, error) {
	set := patch.Assignments()
	if len(set) == 0 {
		return s.GetAddress(ctx, clientID, addressID)
	}

	var address models.Address
	where := sq.Eq{"id_direccion": addressID, "id_cliente": clientID}
	if err := s.updateReturning(ctx, s.db, &address, "direccion", set, where, addressColumns); err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress deletes an address of a client
func (s *Store) DeleteAddress(ctx context.Context, clientID, addressID int64) (DeleteOutcome, error) {
	return s.deleteWhere(ctx, s.db, "direccion", sq.Eq{"id_direccion": addressID, "id_cliente": clientID})
}
