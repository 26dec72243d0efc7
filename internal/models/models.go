package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name      string          `gorm:"not null;index"                   json:"name"`
	SellPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"sell_price"`
	CostPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"cost_price"`
	CreatedAt time.Time       `gorm:"not null"                         json:"created_at"`
}

type Client struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                          json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_client_name_location"     json:"name"`
	Handle    *string   `gorm:"size:100"                                          json:"handle,omitempty"`
	Location  string    `gorm:"not null;uniqueIndex:idx_client_name_location"     json:"location"`
	CreatedAt time.Time `gorm:"not null"                                          json:"created_at"`
}

type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"       json:"id"`
	ClientID   int64           `gorm:"index;not null"                 json:"client_id"`
	ProductID  int64           `gorm:"index;not null"                 json:"product_id"`
	Quantity   int             `gorm:"not null;check:quantity>0"      json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"    json:"total_price"`
	CreatedAt  time.Time       `gorm:"not null"                       json:"created_at"`
}

func All() []any {
	return []any{&Product{}, &Client{}, &Order{}}
}
