package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Skotchmaster/order_shop/internal/models"
	"github.com/Skotchmaster/order_shop/internal/repo"
	"github.com/Skotchmaster/order_shop/internal/search"
	"github.com/Skotchmaster/order_shop/internal/service"
	pkgdb "github.com/Skotchmaster/order_shop/pkg/db"
	"github.com/Skotchmaster/order_shop/pkg/events"
	"github.com/Skotchmaster/order_shop/pkg/payclient"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubPayments struct {
	calls []int64
	err   error
}

func (s *stubPayments) Charge(_ context.Context, card payclient.Card, amount int64) (*payclient.ChargeResponse, error) {
	s.calls = append(s.calls, amount)
	if s.err != nil {
		return nil, s.err
	}
	return &payclient.ChargeResponse{
		CreditCard: payclient.CardSummary{
			Name:            card.Name,
			FirstDigits:     card.Number[:4],
			LastDigits:      card.Number[len(card.Number)-4:],
			ExpirationYear:  card.ExpirationYear,
			ExpirationMonth: card.ExpirationMonth,
		},
		Transaction: payclient.Transaction{ID: "txn-1", Success: true, AmountCharged: amount},
	}, nil
}

type testEnv struct {
	E        *echo.Echo
	Repo     *repo.GormRepo
	Payments *stubPayments
	P        *ProductHTTP
	O        *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	require.NoError(t, repo.Migrate(db))

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.UpsertProducts(context.Background(), []models.Product{
		{ID: 1, Name: "Brown eggs", Description: "Raw organic brown eggs", Price: 100, Weight: 100, InStock: true, Image: "0.jpg"},
		{ID: 2, Name: "Green smoothie", Description: "Kale and apple", Price: 1700, Weight: 399, InStock: false, Image: "1.jpg"},
	}))

	payments := &stubPayments{}
	env := &testEnv{
		E:        echo.New(),
		Repo:     r,
		Payments: payments,
		P: &ProductHTTP{Svc: &service.CatalogService{
			Repo:     r,
			Searcher: &search.DBSearcher{Repo: r},
		}},
		O: &OrderHTTP{Svc: &service.OrderService{
			Repo:     r,
			Products: r,
			Payments: payments,
			Events:   events.Nop{},
			Topic:    "order_events",
		}},
	}
	env.E.HTTPErrorHandler = HTTPErrorHandler
	Register(env.E, &Deps{ProductHandler: env.P, OrderHandler: env.O, DB: r})
	return env
}

// doJSONRequest builds an echo context for calling a handler directly.
func (env *testEnv) doJSONRequest(method, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// serve routes a request through the full echo stack.
func (env *testEnv) serve(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder, scope string) string {
	t.Helper()
	body := decodeMap(t, rec)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "body has no errors object: %s", rec.Body.String())
	entry, ok := errs[scope].(map[string]any)
	require.True(t, ok, "no %q scope in %s", scope, rec.Body.String())
	code, _ := entry["code"].(string)
	return code
}

const addressBody = `{"order":{"email":"jgnault@uqac.ca","shipping_information":{"country":"Canada","address":"201, rue Président-Kennedy","postal_code":"G7X 3Y7","city":"Chicoutimi","province":"QC"}}}`

const cardBody = `{"credit_card":{"name":"John Doe","number":"4242 4242 4242 4242","expiration_year":2030,"expiration_month":9,"cvv":"123"}}`
