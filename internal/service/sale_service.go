package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"bazar-api/internal/models"
	"bazar-api/internal/store"
	"bazar-api/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// EventPublisher publishes committed sales
type EventPublisher interface {
	PublishSaleCreated(ctx context.Context, event *models.SaleCreatedEvent) error
}

// IdempotencyStore remembers the response of a sale request by its
// Idempotency-Key
type IdempotencyStore interface {
	BeginIdempotent(ctx context.Context, key string, ttl time.Duration) (stored []byte, started bool, err error)
	CompleteIdempotent(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseIdempotent(ctx context.Context, key string) error
}

// SaleService handles sale creation
type SaleService struct {
	store          *store.Store
	eventPublisher EventPublisher
	idempotency    IdempotencyStore
	idempotencyTTL time.Duration
	now            func() time.Time
	boundary       boundary
}

// SaleOption configures optional collaborators of a SaleService
type SaleOption func(*SaleService)

// WithEventPublisher publishes a SALE_CREATED event after every commit
func WithEventPublisher(p EventPublisher) SaleOption {
	return func(s *SaleService) { s.eventPublisher = p }
}

// WithIdempotency enables Idempotency-Key handling
func WithIdempotency(st IdempotencyStore, ttl time.Duration) SaleOption {
	return func(s *SaleService) {
		s.idempotency = st
		s.idempotencyTTL = ttl
	}
}

// WithClock overrides the source of the sale date
func WithClock(now func() time.Time) SaleOption {
	return func(s *SaleService) { s.now = now }
}

// NewSaleService creates a new sale service
func NewSaleService(store *store.Store, opts ...SaleOption) *SaleService {
	s := &SaleService{
		store:    store,
		now:      time.Now,
		boundary: newBoundary(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSaleResult is the outcome of a sale request
type CreateSaleResult struct {
	Sale *models.Sale
	// Replayed is set when the sale was recorded by an earlier request with
	// the same Idempotency-Key
	Replayed bool
}

// Create records a sale dated today. With a non-empty idempotencyKey a
// repeated request returns the sale of the first one instead of recording a
// second sale
func (s *SaleService) Create(ctx context.Context, in models.NewSale, idempotencyKey string) (*CreateSaleResult, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.Create",
		attribute.Int64("client_id", in.ClientID),
		attribute.Int("lines", len(in.Lines)),
		attribute.Bool("idempotent", idempotencyKey != ""))
	defer span.End()

	if err := in.Validate(); err != nil {
		util.SalesFailedTotal.WithLabelValues("invalid_input").Inc()
		util.FailSpan(span, err)
		return nil, invalid(err)
	}

	useKey := idempotencyKey != "" && s.idempotency != nil
	var fingerprint string
	if useKey {
		fingerprint = requestFingerprint(in)
		replay, claimed, err := s.beginIdempotent(ctx, idempotencyKey, fingerprint)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
		useKey = claimed
	}

	start := time.Now()
	sale, err := s.store.CreateSale(ctx, in, models.DateOf(s.now()))
	util.SaleTransactionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.SalesFailedTotal.WithLabelValues("transaction").Inc()
		util.FailSpan(span, err)
		if useKey {
			s.releaseIdempotent(ctx, idempotencyKey)
		}
		return nil, s.boundary.write("create_sale", err, zap.Int64("client_id", in.ClientID))
	}

	span.SetAttributes(attribute.Int64("sale_id", sale.ID))
	util.SalesCreatedTotal.Inc()
	util.SalesAmountTotal.Add(sale.Total.InexactFloat64())
	util.LoggerFromContext(ctx).Info("Sale created",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("client_id", sale.ClientID),
		zap.String("total", sale.Total.String()),
		zap.Int("lines", len(sale.Details)))

	if useKey {
		s.completeIdempotent(ctx, idempotencyKey, fingerprint, sale)
	}
	s.publish(ctx, sale)

	return &CreateSaleResult{Sale: sale}, nil
}

// idempotentRecord is what a finished Idempotency-Key holds
type idempotentRecord struct {
	Fingerprint string       `json:"fingerprint"`
	Sale        *models.Sale `json:"sale"`
}

func requestFingerprint(in models.NewSale) string {
	body, _ := json.Marshal(in)
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// beginIdempotent returns a replayed result when the key already holds a
// finished response for the same request. claimed reports whether this
// request owns the key. If Redis is unavailable the request proceeds without
// idempotency
func (s *SaleService) beginIdempotent(ctx context.Context, key, fingerprint string) (replay *CreateSaleResult, claimed bool, err error) {
	stored, started, err := s.idempotency.BeginIdempotent(ctx, key, s.idempotencyTTL)
	if err != nil {
		util.LoggerFromContext(ctx).Warn("Idempotency store unavailable, continuing without it",
			zap.String("idempotency_key", key), zap.Error(err))
		return nil, false, nil
	}
	if started {
		return nil, true, nil
	}
	if stored == nil {
		return nil, false, ErrDuplicateRequest
	}

	var record idempotentRecord
	if err := json.Unmarshal(stored, &record); err != nil || record.Sale == nil {
		util.LoggerFromContext(ctx).Error("Stored idempotent response is unreadable",
			zap.String("idempotency_key", key), zap.Error(err))
		return nil, false, fmt.Errorf("replaying idempotent response: %w", ErrWriteFailed)
	}
	if record.Fingerprint != fingerprint {
		util.LoggerFromContext(ctx).Warn("Idempotency key reused with a different sale",
			zap.String("idempotency_key", key),
			zap.Int64("sale_id", record.Sale.ID))
		return nil, false, ErrIdempotencyKeyReused
	}

	util.IdempotentReplaysTotal.Inc()
	util.LoggerFromContext(ctx).Info("Duplicate sale request detected",
		zap.String("idempotency_key", key),
		zap.Int64("sale_id", record.Sale.ID))
	return &CreateSaleResult{Sale: record.Sale, Replayed: true}, false, nil
}

// completeIdempotent stores the committed sale under key. When that fails the
// pending claim is kept until its TTL so a retry cannot record the sale twice
func (s *SaleService) completeIdempotent(ctx context.Context, key, fingerprint string, sale *models.Sale) {
	body, err := json.Marshal(idempotentRecord{Fingerprint: fingerprint, Sale: sale})
	if err == nil {
		err = s.idempotency.CompleteIdempotent(ctx, key, body, s.idempotencyTTL)
	}
	if err != nil {
		util.LoggerFromContext(ctx).Error("Failed to store idempotent response, key stays pending",
			zap.String("idempotency_key", key),
			zap.Int64("sale_id", sale.ID),
			zap.Error(err))
	}
}

func (s *SaleService) releaseIdempotent(ctx context.Context, key string) {
	if err := s.idempotency.ReleaseIdempotent(ctx, key); err != nil {
		util.LoggerFromContext(ctx).Error("Failed to release idempotency key",
			zap.String("idempotency_key", key), zap.Error(err))
	}
}

func (s *SaleService) publish(ctx context.Context, sale *models.Sale) {
	if s.eventPublisher == nil {
		return
	}

	event := &models.SaleCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCreated,
			Timestamp: s.now(),
		},
		SaleID:   sale.ID,
		ClientID: sale.ClientID,
		Date:     sale.Date,
		Total:    sale.Total,
		Details:  sale.Details,
	}

	if err := s.eventPublisher.PublishSaleCreated(ctx, event); err != nil {
		util.LoggerFromContext(ctx).Error("Failed to publish SaleCreated event",
			zap.Int64("sale_id", sale.ID), zap.Error(err))
	}
}

// Get returns a sale with its line items
func (s *SaleService) Get(ctx context.Context, id int64) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.Get")
	defer span.End()

	sale, err := s.store.GetSale(ctx, id)
	if err != nil {
		return nil, s.boundary.get("get_sale", err, zap.Int64("sale_id", id))
	}
	return sale, nil
}
