package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/orderbot/internal/domain"
	"github.com/Skotchmaster/orderbot/internal/models"
)

// ClientDetails identifies a customer. Name and Location together are the
// client's identity; Handle is optional contact data.
type ClientDetails struct {
	Name     string
	Handle   string
	Location domain.Location
}

type LineItem struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type ProductStat struct {
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
	Profit      decimal.Decimal
}

type Store interface {
	UpsertClient(ctx context.Context, c ClientDetails) (int64, error)
	RecordOrderLines(ctx context.Context, clientID int64, lines []LineItem) error
	PlaceOrder(ctx context.Context, c ClientDetails, lines []LineItem) (int64, error)
	AggregateStatistics(ctx context.Context) ([]ProductStat, error)
}

type GormRepo struct {
	DB *gorm.DB
}

func validateClient(c ClientDetails) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name required: %w", domain.ErrValidation)
	}
	if c.Location == "" {
		return fmt.Errorf("client location required: %w", domain.ErrValidation)
	}
	return nil
}

func validateLines(lines []LineItem) error {
	if len(lines) == 0 {
		return fmt.Errorf("order lines required: %w", domain.ErrValidation)
	}
	for _, l := range lines {
		if l.ProductID <= 0 {
			return fmt.Errorf("product_id required: %w", domain.ErrValidation)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("quantity must be > 0: %w", domain.ErrValidation)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("price must be >= 0: %w", domain.ErrValidation)
		}
	}
	return nil
}

func (r *GormRepo) UpsertClient(ctx context.Context, c ClientDetails) (int64, error) {
	if err := validateClient(c); err != nil {
		return 0, err
	}
	id, err := upsertClient(r.DB.WithContext(ctx), c)
	if err != nil {
		return 0, fmt.Errorf("upsert client: %w: %w", domain.ErrPersistence, err)
	}
	return id, nil
}

// RecordOrderLines always inserts one row per line. Repeat purchases are
// combined when statistics are aggregated, never by rewriting earlier rows.
func (r *GormRepo) RecordOrderLines(ctx context.Context, clientID int64, lines []LineItem) error {
	if err := validateLines(lines); err != nil {
		return err
	}
	if err := insertLines(r.DB.WithContext(ctx), clientID, lines); err != nil {
		return fmt.Errorf("record order lines: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// PlaceOrder resolves the client and writes all lines in one transaction.
func (r *GormRepo) PlaceOrder(ctx context.Context, c ClientDetails, lines []LineItem) (int64, error) {
	if err := validateClient(c); err != nil {
		return 0, err
	}
	if err := validateLines(lines); err != nil {
		return 0, err
	}

	var clientID int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := upsertClient(tx, c)
		if err != nil {
			return err
		}
		if err := insertLines(tx, id, lines); err != nil {
			return err
		}
		clientID = id
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("place order: %w: %w", domain.ErrPersistence, err)
	}
	return clientID, nil
}

func upsertClient(tx *gorm.DB, c ClientDetails) (int64, error) {
	row := models.Client{
		Name:     strings.TrimSpace(c.Name),
		Location: string(c.Location),
	}
	if c.Handle != "" {
		h := c.Handle
		row.Handle = &h
	}

	res := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}, {Name: "location"}},
		DoUpdates: clause.Set{{
			Column: clause.Column{Name: "handle"},
			Value:  gorm.Expr("COALESCE(excluded.handle, clients.handle)"),
		}},
	}).Create(&row)
	if res.Error != nil {
		return 0, res.Error
	}

	var existing models.Client
	if err := tx.Where("name = ? AND location = ?", row.Name, row.Location).First(&existing).Error; err != nil {
		return 0, err
	}
	return existing.ID, nil
}

func insertLines(tx *gorm.DB, clientID int64, lines []LineItem) error {
	rows := make([]models.Order, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, models.Order{
			ClientID:   clientID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			TotalPrice: l.Total(),
		})
	}
	return tx.Create(&rows).Error
}

type statRow struct {
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
}

// AggregateStatistics groups every historical order line by product. Rows
// come back in product name order; ranking is left to the caller.
func (r *GormRepo) AggregateStatistics(ctx context.Context) ([]ProductStat, error) {
	var rows []statRow
	err := r.DB.WithContext(ctx).
		Table("orders AS o").
		Select(`p.name AS product_name,
			SUM(o.quantity) AS quantity,
			SUM(o.total_price) AS revenue,
			p.cost_price * SUM(o.quantity) AS cost`).
		Joins("JOIN products p ON p.id = o.product_id").
		Group("p.id, p.name, p.cost_price").
		Order("p.name ASC, p.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate statistics: %w: %w", domain.ErrPersistence, err)
	}

	stats := make([]ProductStat, 0, len(rows))
	for _, row := range rows {
		revenue := row.Revenue.Round(2)
		cost := row.Cost.Round(2)
		stats = append(stats, ProductStat{
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     revenue,
			Cost:        cost,
			Profit:      revenue.Sub(cost),
		})
	}
	return stats, nil
}
