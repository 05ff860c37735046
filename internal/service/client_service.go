package service

import (
	"context"

	"bazar-api/internal/models"
	"bazar-api/internal/store"
	"bazar-api/internal/util"

	"go.uber.org/zap"
)

// ClientService handles client operations
type ClientService struct {
	store    *store.Store
	boundary boundary
}

// NewClientService creates a new client service
func NewClientService(store *store.Store) *ClientService {
	return &ClientService{store: store, boundary: newBoundary()}
}

// List returns every client ordered by name
func (s *ClientService) List(ctx context.Context) []models.Client {
	ctx, span := util.StartSpan(ctx, "ClientService.List")
	defer span.End()

	clients, err := s.store.ListClients(ctx)
	if err != nil {
		s.boundary.readFailed("list_clients", err)
		return []models.Client{}
	}
	return clients
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	ctx, span := util.StartSpan(ctx, "ClientService.Get")
	defer span.End()

	client, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, s.boundary.get("get_client", err, zap.Int64("client_id", id))
	}
	return client, nil
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, in models.ClientInput) (*models.Client, error) {
	ctx, span := util.StartSpan(ctx, "ClientService.Create")
	defer span.End()

	client, err := s.store.CreateClient(ctx, in)
	if err != nil {
		return nil, s.boundary.write("create_client", err)
	}
	s.boundary.logger.Info("Client created", zap.Int64("client_id", client.ID))
	return client, nil
}

// Update applies a partial update
func (s *ClientService) Update(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error) {
	ctx, span := util.StartSpan(ctx, "ClientService.Update")
	defer span.End()

	client, err := s.store.UpdateClient(ctx, id, patch)
	if err != nil {
		return nil, s.boundary.write("update_client", err, zap.Int64("client_id", id))
	}
	return client, nil
}

// Delete removes a client together with its addresses
func (s *ClientService) Delete(ctx context.Context, id int64) store.DeleteOutcome {
	ctx, span := util.StartSpan(ctx, "ClientService.Delete")
	defer span.End()

	outcome, err := s.store.DeleteClient(ctx, id)
	return s.boundary.deleted("client", outcome, err, zap.Int64("client_id", id))
}
