// Package search answers free text product queries, either through
// Elasticsearch or directly against the product table.
package search

import (
	"context"

	"github.com/Skotchmaster/order_shop/internal/models"
)

type Searcher interface {
	Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error)
	Index(ctx context.Context, products []models.Product) error
}

type productStore interface {
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// DBSearcher runs a LIKE query over name and description. Index is a no-op
// since the table is the source.
type DBSearcher struct {
	Repo productStore
}

func (s *DBSearcher) Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error) {
	return s.Repo.SearchProducts(ctx, q, from, size)
}

func (s *DBSearcher) Index(context.Context, []models.Product) error {
	return nil
}
