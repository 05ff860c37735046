package store

import (
	"context"
	"fmt"

	"bazar-api/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const clientColumns = "id_cliente, nombre, telefono"

// ListClients retrieves all clients ordered by name
func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	err := s.db.SelectContext(ctx, &clients,
		"SELECT "+clientColumns+" FROM cliente ORDER BY nombre")
	return clients, err
}

// GetClient retrieves a client by ID
func (s *Store) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := getOne(ctx, s.db, &client,
		s.db.Rebind("SELECT "+clientColumns+" FROM cliente WHERE id_cliente = ?"), id)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient inserts a client and returns it with its generated ID
func (s *Store) CreateClient(ctx context.Context, in models.ClientInput) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client,
		s.db.Rebind("INSERT INTO cliente (nombre, telefono) VALUES (?, ?) RETURNING "+clientColumns),
		in.Name, in.Phone)
	if err != nil {
		return nil, fmt.Errorf("inserting cliente: %w", err)
	}
	return &client, nil
}

// UpdateClient applies a partial update. An empty patch returns the current
// row without writing
func (s *Store) UpdateClient(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error) {
	set := patch.Assignments()
	if len(set) == 0 {
		return s.GetClient(ctx, id)
	}

	var client models.Client
	if err := s.updateReturning(ctx, s.db, &client, "cliente", set, sq.Eq{"id_cliente": id}, clientColumns); err != nil {
		return nil, err
	}
	return &client, nil
}

// DeleteClient deletes a client. Addresses go with it through the store's
// cascade; sales referencing the client block the delete
func (s *Store) DeleteClient(ctx context.Context, id int64) (DeleteOutcome, error) {
	return s.deleteWhere(ctx, s.db, "cliente", sq.Eq{"id_cliente": id})
}
