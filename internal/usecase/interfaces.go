package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
)

// Sink is a downstream consumer of change logs.
type Sink interface {
	Name() string
	Publish(ctx context.Context, changeLog models.ChangeLog) error
}

type NotifyUsecase interface {
	Notify(ctx context.Context, changeLog models.ChangeLog) error
}

type CatalogUsecase interface {
	ListProducts(ctx context.Context, page, limit int) (*models.ProductPage, error)
	Search(ctx context.Context, query, category string) ([]models.Product, error)
	ByCategory(ctx context.Context, category string) ([]models.Product, error)
	Available(ctx context.Context) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.CategoryInfo, error)
	Analysis(ctx context.Context) (*models.Analysis, error)
}
