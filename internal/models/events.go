package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleCreated = "SALE_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleCreatedEvent is published once a sale transaction has committed
type SaleCreatedEvent struct {
	BaseEvent
	SaleID   int64           `json:"id_venta"`
	ClientID int64           `json:"id_cliente"`
	Date     Date            `json:"fecha"`
	Total    decimal.Decimal `json:"monto_total"`
	Details  []SaleDetail    `json:"detalles"`
}
