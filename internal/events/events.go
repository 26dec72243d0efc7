package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TypeOrderConfirmed = "order_confirmed"

type OrderLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderConfirmed struct {
	Type       string          `json:"type"`
	EventID    string          `json:"event_id"`
	ChatID     int64           `json:"chat_id"`
	ClientID   int64           `json:"client_id"`
	ClientName string          `json:"client_name"`
	Location   string          `json:"location"`
	Lines      []OrderLine     `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewOrderConfirmed(chatID, clientID int64, name, location string, lines []OrderLine, total decimal.Decimal, now time.Time) OrderConfirmed {
	return OrderConfirmed{
		Type:       TypeOrderConfirmed,
		EventID:    uuid.NewString(),
		ChatID:     chatID,
		ClientID:   clientID,
		ClientName: name,
		Location:   location,
		Lines:      lines,
		Total:      total,
		OccurredAt: now.UTC(),
	}
}

type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, ev OrderConfirmed) error
	Close() error
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderConfirmed(context.Context, OrderConfirmed) error { return nil }

func (NopPublisher) Close() error { return nil }
