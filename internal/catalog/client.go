package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Skotchmaster/order_shop/internal/models"
	"github.com/shopspring/decimal"
)

// Client reads the product list published by the remote shop catalog.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(productsURL string) *Client {
	return &Client{
		url:        productsURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type remoteProduct struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Weight      int64           `json:"weight"`
	InStock     bool            `json:"in_stock"`
	Image       string          `json:"image"`
}

type productsResponse struct {
	Products []remoteProduct `json:"products"`
}

// FetchProducts downloads the full list. Fractional prices are truncated to
// whole units.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch products failed with status: %d", resp.StatusCode)
	}

	var result productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	products := make([]models.Product, 0, len(result.Products))
	for _, p := range result.Products {
		products = append(products, models.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.IntPart(),
			Weight:      p.Weight,
			InStock:     p.InStock,
			Image:       p.Image,
		})
	}
	return products, nil
}
