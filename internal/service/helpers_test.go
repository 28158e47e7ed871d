package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Skotchmaster/order_shop/internal/models"
	"github.com/Skotchmaster/order_shop/internal/repo"
	"github.com/Skotchmaster/order_shop/internal/transport"
	pkgdb "github.com/Skotchmaster/order_shop/pkg/db"
	"github.com/Skotchmaster/order_shop/pkg/events"
	"github.com/Skotchmaster/order_shop/pkg/payclient"
	"github.com/stretchr/testify/require"
)

type fakePayments struct {
	mu      sync.Mutex
	calls   []int64
	cards   []payclient.Card
	respond func(card payclient.Card, amount int64) (*payclient.ChargeResponse, error)
}

func (f *fakePayments) Charge(_ context.Context, card payclient.Card, amount int64) (*payclient.ChargeResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, amount)
	f.cards = append(f.cards, card)
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(card, amount)
	}
	return &payclient.ChargeResponse{
		CreditCard: payclient.CardSummary{
			Name:            card.Name,
			FirstDigits:     "4242",
			LastDigits:      "4242",
			ExpirationYear:  card.ExpirationYear,
			ExpirationMonth: card.ExpirationMonth,
		},
		Transaction: payclient.Transaction{
			ID:            "wgEQ4zAUdYqpr21rt8A10dDrKbfcLmqi",
			Success:       true,
			AmountCharged: amount,
		},
	}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _, _ string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	Repo     *repo.GormRepo
	Svc      *OrderService
	Payments *fakePayments
	Events   *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	require.NoError(t, repo.Migrate(db))

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.UpsertProducts(context.Background(), []models.Product{
		{ID: 1, Name: "Brown eggs", Description: "Raw organic brown eggs", Price: 100, Weight: 100, InStock: true, Image: "0.jpg"},
		{ID: 2, Name: "Strawberry", Description: "Sweet fresh strawberry", Price: 2999, Weight: 1500, InStock: true, Image: "1.jpg"},
		{ID: 3, Name: "Green smoothie", Description: "Out of stock", Price: 1700, Weight: 399, InStock: false, Image: "2.jpg"},
	}))

	env := &testEnv{Repo: r, Payments: &fakePayments{}, Events: &recordingPublisher{}}
	env.Svc = &OrderService{
		Repo:     r,
		Products: r,
		Payments: env.Payments,
		Events:   env.Events,
		Topic:    "order_events",
	}
	return env
}

func num(v string) *json.Number {
	n := json.Number(v)
	return &n
}

func productReq(id, qty string) transport.CreateOrderRequest {
	return transport.CreateOrderRequest{Product: &transport.ProductRef{ID: num(id), Quantity: num(qty)}}
}

func orderInfo(province string) *transport.OrderInfo {
	return &transport.OrderInfo{
		Email: "jgnault@uqac.ca",
		ShippingInformation: &transport.ShippingInformation{
			Country:    "Canada",
			Address:    "201, rue Président-Kennedy",
			PostalCode: "G7X 3Y7",
			City:       "Chicoutimi",
			Province:   province,
		},
	}
}

func testCard() *transport.CreditCard {
	return &transport.CreditCard{
		Name:            "John Doe",
		Number:          "4242 4242 4242 4242",
		ExpirationYear:  num("2030"),
		ExpirationMonth: num("9"),
		CVV:             "123",
	}
}
