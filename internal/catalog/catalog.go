package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/orderbot/internal/domain"
	"github.com/Skotchmaster/orderbot/internal/models"
)

type Store interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w: %w", domain.ErrPersistence, err)
	}

	products := make([]domain.Product, 0, len(items))
	for _, it := range items {
		p, err := domain.NewProduct(it.ID, it.Name, it.SellPrice, it.CostPrice)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", it.ID, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := models.Product{
		Name:      p.Name,
		SellPrice: p.SellPrice,
		CostPrice: p.CostPrice,
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w: %w", domain.ErrPersistence, err)
	}
	return domain.NewProduct(row.ID, row.Name, row.SellPrice, row.CostPrice)
}
