package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/order_shop/internal/models"
	"github.com/Skotchmaster/order_shop/internal/search"
	"github.com/Skotchmaster/order_shop/internal/util"
	"github.com/Skotchmaster/order_shop/pkg/logging"
	"gorm.io/gorm"
)

type ProductFetcher interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpsertProducts(ctx context.Context, products []models.Product) error
}

type CatalogService struct {
	Repo     ProductRepository
	Remote   ProductFetcher
	Searcher search.Searcher
}

// Sync copies the remote catalog into the local table. The search index is
// refreshed afterwards; an indexing failure does not undo the table update.
func (s *CatalogService) Sync(ctx context.Context) (int, error) {
	ctx = logging.With(ctx, "op", "catalog.sync")
	l := logging.FromContext(ctx)

	products, err := s.Remote.FetchProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch remote catalog: %w", err)
	}
	if err := s.Repo.UpsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("store products: %w", err)
	}

	if s.Searcher != nil {
		if err := s.Searcher.Index(ctx, products); err != nil {
			l.Error("catalog_index_error", "count", len(products), "error", err)
		}
	}

	l.Info("catalog_sync_success", "count", len(products))
	return len(products), nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, size int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query parameter q is required", ErrMissingFields)
	}
	offset, limit := util.Calculate(page, size)
	return s.Searcher.Search(ctx, q, offset, limit)
}
