package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/order_shop/internal/models"
	"github.com/Skotchmaster/order_shop/internal/pricing"
	"github.com/Skotchmaster/order_shop/internal/transport"
	"github.com/Skotchmaster/order_shop/pkg/events"
	"github.com/Skotchmaster/order_shop/pkg/logging"
	"github.com/Skotchmaster/order_shop/pkg/payclient"
	"gorm.io/gorm"
)

const (
	EventOrderCreated   = "order_created"
	EventOrderAddressed = "order_addressed"
	EventOrderPaid      = "order_paid"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order, columns ...string) (*models.Order, error)
}

type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, card payclient.Card, amount int64) (*payclient.ChargeResponse, error)
}

type OrderService struct {
	Repo     OrderRepository
	Products ProductReader
	Payments PaymentGateway
	Events   events.Publisher
	Topic    string
}

func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	line, err := validateCreateOrder(req)
	if err != nil {
		return nil, err
	}

	product, err := s.Products.GetProduct(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d does not exist", ErrOutOfInventory, line.ProductID)
		}
		return nil, err
	}
	if !product.InStock {
		return nil, fmt.Errorf("%w: product %d is not in stock", ErrOutOfInventory, product.ID)
	}

	subtotal, okPrice := pricing.CheckedTotal(product.Price, line.Quantity)
	weight, okWeight := pricing.CheckedTotal(product.Weight, line.Quantity)
	if !okPrice || !okWeight {
		return nil, fmt.Errorf("%w: quantity %d is too large", ErrMissingFields, line.Quantity)
	}

	order := &models.Order{
		TotalPrice:    subtotal,
		TotalPriceTax: 0,
		ShippingPrice: pricing.Shipping(weight),
		Lines: []models.OrderLine{{
			ProductID: product.ID,
			Quantity:  line.Quantity,
		}},
	}

	created, err := s.Repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventOrderCreated, created, map[string]any{
		"product_id":     product.ID,
		"quantity":       line.Quantity,
		"total_price":    created.TotalPrice,
		"shipping_price": created.ShippingPrice,
	})
	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

// UpdateOrder routes a PUT body to the address or the payment step. A body
// carrying both, or neither, is rejected.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, req transport.UpdateOrderRequest) (*models.Order, error) {
	ctx = logging.With(ctx, "order_id", id)
	switch {
	case req.Order != nil && req.CreditCard != nil:
		return nil, fmt.Errorf("%w: send either order or credit_card, not both", ErrMissingFields)
	case req.Order != nil:
		return s.SetShippingInformation(ctx, id, req.Order)
	case req.CreditCard != nil:
		return s.Pay(ctx, id, req.CreditCard)
	default:
		return nil, fmt.Errorf("%w: nothing to update", ErrMissingFields)
	}
}

func (s *OrderService) SetShippingInformation(ctx context.Context, id uint, info *transport.OrderInfo) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateOrderInfo(info); err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, fmt.Errorf("%w: order %d can no longer be modified", ErrAlreadyPaid, id)
	}

	ship := info.ShippingInformation
	order.Email = info.Email
	order.Country = ship.Country
	order.Address = ship.Address
	order.PostalCode = ship.PostalCode
	order.City = ship.City
	order.Province = ship.Province
	order.TotalPriceTax = pricing.TaxAmount(order.TotalPrice, ship.Province)

	updated, err := s.Repo.UpdateOrder(ctx, order,
		"email", "country", "address", "postal_code", "city", "province", "total_price_tax")
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventOrderAddressed, updated, map[string]any{
		"province":        updated.Province,
		"total_price_tax": updated.TotalPriceTax,
	})
	return updated, nil
}

// Pay charges subtotal + tax + shipping. A refused payment leaves the order
// untouched and returns the *payclient.Error.
func (s *OrderService) Pay(ctx context.Context, id uint, cc *transport.CreditCard) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, fmt.Errorf("%w: order %d", ErrAlreadyPaid, id)
	}
	if !order.HasShippingInformation() {
		return nil, fmt.Errorf("%w: customer information is required before payment", ErrMissingFields)
	}
	card, err := validateCreditCard(cc)
	if err != nil {
		return nil, err
	}

	amount := pricing.Charge(order.TotalPrice, order.TotalPriceTax, order.ShippingPrice)

	res, err := s.Payments.Charge(ctx, card, amount)
	if err != nil {
		return nil, fmt.Errorf("charge order %d: %w", id, err)
	}

	order.Paid = true
	order.CreditCardName = res.CreditCard.Name
	order.CreditCardFirst = res.CreditCard.FirstDigits
	order.CreditCardLast = res.CreditCard.LastDigits
	order.CreditCardExpMonth = res.CreditCard.ExpirationMonth
	order.CreditCardExpYear = res.CreditCard.ExpirationYear
	order.TransactionID = res.Transaction.ID
	order.TransactionSuccess = res.Transaction.Success
	order.TransactionAmount = res.Transaction.AmountCharged

	updated, err := s.Repo.UpdateOrder(ctx, order,
		"paid",
		"credit_card_name", "credit_card_first", "credit_card_last",
		"credit_card_exp_month", "credit_card_exp_year",
		"transaction_id", "transaction_success", "transaction_amount",
	)
	if err != nil {
		return nil, fmt.Errorf("record payment of order %d (transaction %s): %w", id, res.Transaction.ID, err)
	}

	s.publish(ctx, EventOrderPaid, updated, map[string]any{
		"transaction_id": updated.TransactionID,
		"amount_charged": updated.TransactionAmount,
	})
	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order, payload map[string]any) {
	if s.Events == nil {
		return
	}
	ev := events.NewEvent(eventType, order.ID, payload)
	if err := s.Events.Publish(ctx, s.Topic, fmt.Sprint(order.ID), ev); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "event", eventType, "order", order.ID, "error", err)
	}
}
