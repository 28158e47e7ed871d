package transport

import "github.com/Skotchmaster/order_shop/internal/models"

// The nested views use omitempty everywhere so an unset stage encodes as {}.

type ShippingInformationView struct {
	Country    string `json:"country,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
}

type CreditCardView struct {
	Name            string `json:"name,omitempty"`
	FirstDigits     string `json:"first_digits,omitempty"`
	LastDigits      string `json:"last_digits,omitempty"`
	ExpirationYear  int    `json:"expiration_year,omitempty"`
	ExpirationMonth int    `json:"expiration_month,omitempty"`
}

type TransactionView struct {
	ID            string `json:"id,omitempty"`
	Success       *bool  `json:"success,omitempty"`
	AmountCharged *int64 `json:"amount_charged,omitempty"`
}

type OrderProductView struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

type OrderView struct {
	ID                  uint                    `json:"id"`
	TotalPrice          int64                   `json:"total_price"`
	TotalPriceTax       int64                   `json:"total_price_tax"`
	Email               *string                 `json:"email"`
	ShippingInformation ShippingInformationView `json:"shipping_information"`
	CreditCard          CreditCardView          `json:"credit_card"`
	Paid                bool                    `json:"paid"`
	Transaction         TransactionView         `json:"transaction"`
	Product             OrderProductView        `json:"product"`
	ShippingPrice       int64                   `json:"shipping_price"`
}

type OrderResponse struct {
	Order OrderView `json:"order"`
}

type OrdersResponse struct {
	Orders []OrderView `json:"orders"`
}

func NewOrderView(o *models.Order) OrderView {
	v := OrderView{
		ID:            o.ID,
		TotalPrice:    o.TotalPrice,
		TotalPriceTax: o.TotalPriceTax,
		Paid:          o.Paid,
		ShippingPrice: o.ShippingPrice,
	}

	if o.Email != "" {
		email := o.Email
		v.Email = &email
	}

	if o.Country != "" {
		v.ShippingInformation = ShippingInformationView{
			Country:    o.Country,
			Address:    o.Address,
			PostalCode: o.PostalCode,
			City:       o.City,
			Province:   o.Province,
		}
	}

	if o.CreditCardFirst != "" {
		v.CreditCard = CreditCardView{
			Name:            o.CreditCardName,
			FirstDigits:     o.CreditCardFirst,
			LastDigits:      o.CreditCardLast,
			ExpirationYear:  o.CreditCardExpYear,
			ExpirationMonth: o.CreditCardExpMonth,
		}
	}

	if o.TransactionID != "" {
		success := o.TransactionSuccess
		amount := o.TransactionAmount
		v.Transaction = TransactionView{
			ID:            o.TransactionID,
			Success:       &success,
			AmountCharged: &amount,
		}
	}

	if line, ok := o.Line(); ok {
		v.Product = OrderProductView{ID: line.ProductID, Quantity: line.Quantity}
	}

	return v
}

func NewOrdersResponse(orders []models.Order) OrdersResponse {
	out := OrdersResponse{Orders: make([]OrderView, 0, len(orders))}
	for i := range orders {
		out.Orders = append(out.Orders, NewOrderView(&orders[i]))
	}
	return out
}
