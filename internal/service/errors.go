package service

import (
	"errors"
	"fmt"

	"bazar-api/internal/store"
	"bazar-api/internal/util"

	"go.uber.org/zap"
)

var (
	// ErrNotFound reports an absent record, or a read that could not be served
	ErrNotFound = errors.New("not found")
	// ErrWriteFailed reports a write the store rejected or could not perform
	ErrWriteFailed = errors.New("write failed")
	// ErrInvalidInput reports a request that breaks a field rule
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateRequest reports an Idempotency-Key whose first request is still running
	ErrDuplicateRequest = errors.New("request with this idempotency key is in progress")
	// ErrIdempotencyKeyReused reports an Idempotency-Key first used for a different sale
	ErrIdempotencyKeyReused = errors.New("idempotency key was already used for a different request")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
}

// boundary converts store errors into service outcomes. Store errors are
// logged here and never returned to callers as-is
type boundary struct {
	logger *zap.Logger
}

func newBoundary() boundary {
	return boundary{logger: util.GetLogger()}
}

// readFailed logs a failed list read. Callers serve an empty list
func (b boundary) readFailed(op string, err error, fields ...zap.Field) {
	util.StoreErrorsTotal.WithLabelValues(op).Inc()
	b.logger.Error("Read failed, serving empty result", append(fields, zap.String("operation", op), zap.Error(err))...)
}

// get maps a single-record read error to ErrNotFound
func (b boundary) get(op string, err error, fields ...zap.Field) error {
	if !errors.Is(err, store.ErrNotFound) {
		util.StoreErrorsTotal.WithLabelValues(op).Inc()
		b.logger.Error("Read failed, reporting not found", append(fields, zap.String("operation", op), zap.Error(err))...)
	}
	return ErrNotFound
}

// write maps a write error to ErrNotFound or ErrWriteFailed
func (b boundary) write(op string, err error, fields ...zap.Field) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	util.StoreErrorsTotal.WithLabelValues(op).Inc()
	b.logger.Error("Write failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, ErrWriteFailed)
}

// deleted records a delete outcome and logs generic failures
func (b boundary) deleted(entity string, outcome store.DeleteOutcome, err error, fields ...zap.Field) store.DeleteOutcome {
	util.DeleteOutcomesTotal.WithLabelValues(entity, outcome.String()).Inc()
	switch outcome {
	case store.DeleteFailed:
		util.StoreErrorsTotal.WithLabelValues("delete_" + entity).Inc()
		b.logger.Error("Delete failed", append(fields, zap.String("entity", entity), zap.Error(err))...)
	case store.DeleteConflict:
		b.logger.Info("Delete blocked by reference", append(fields, zap.String("entity", entity))...)
	}
	return outcome
}
