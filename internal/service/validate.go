package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Skotchmaster/order_shop/internal/transport"
	"github.com/Skotchmaster/order_shop/pkg/payclient"
)

type productLine struct {
	ProductID int64
	Quantity  int64
}

func parseInt(n *json.Number) (int64, bool) {
	if n == nil {
		return 0, false
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

func validateCreateOrder(req transport.CreateOrderRequest) (productLine, error) {
	if req.Product == nil {
		return productLine{}, fmt.Errorf("%w: an order must contain exactly one product", ErrMissingFields)
	}
	id, ok := parseInt(req.Product.ID)
	if !ok {
		return productLine{}, fmt.Errorf("%w: product requires an integer id", ErrMissingFields)
	}
	qty, ok := parseInt(req.Product.Quantity)
	if !ok || qty < 1 {
		return productLine{}, fmt.Errorf("%w: quantity must be an integer >= 1", ErrMissingFields)
	}
	return productLine{ProductID: id, Quantity: qty}, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateOrderInfo(info *transport.OrderInfo) error {
	if info == nil || blank(info.Email) || info.ShippingInformation == nil {
		return fmt.Errorf("%w: email and shipping_information are required", ErrMissingFields)
	}
	ship := info.ShippingInformation
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"country", ship.Country},
		{"address", ship.Address},
		{"postal_code", ship.PostalCode},
		{"city", ship.City},
		{"province", ship.Province},
	} {
		if blank(f.value) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: shipping_information is missing %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

func validateCreditCard(cc *transport.CreditCard) (payclient.Card, error) {
	if cc == nil || blank(cc.Name) || blank(cc.Number) || blank(cc.CVV) {
		return payclient.Card{}, fmt.Errorf("%w: credit_card requires name, number and cvv", ErrMissingFields)
	}
	year, okYear := parseInt(cc.ExpirationYear)
	month, okMonth := parseInt(cc.ExpirationMonth)
	if !okYear || !okMonth {
		return payclient.Card{}, fmt.Errorf("%w: credit_card requires an integer expiration_year and expiration_month", ErrMissingFields)
	}
	return payclient.Card{
		Name:            cc.Name,
		Number:          cc.Number,
		ExpirationYear:  int(year),
		ExpirationMonth: int(month),
		CVV:             cc.CVV,
	}, nil
}
