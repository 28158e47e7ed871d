package transport

import (
	"encoding/json"

	"github.com/Skotchmaster/order_shop/internal/models"
)

type ProductRef struct {
	ID       *json.Number `json:"id"`
	Quantity *json.Number `json:"quantity"`
}

type CreateOrderRequest struct {
	Product *ProductRef `json:"product"`
}

type ShippingInformation struct {
	Country    string `json:"country"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"`
}

type OrderInfo struct {
	Email               string               `json:"email"`
	ShippingInformation *ShippingInformation `json:"shipping_information"`
}

type CreditCard struct {
	Name            string       `json:"name"`
	Number          string       `json:"number"`
	ExpirationYear  *json.Number `json:"expiration_year"`
	ExpirationMonth *json.Number `json:"expiration_month"`
	CVV             string       `json:"cvv"`
}

// UpdateOrderRequest carries exactly one of Order or CreditCard.
type UpdateOrderRequest struct {
	Order      *OrderInfo  `json:"order"`
	CreditCard *CreditCard `json:"credit_card"`
}

type ProductsResponse struct {
	Products []models.Product `json:"products"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	Products []models.Product `json:"products"`
}

type ErrorDetail struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ErrorResponse struct {
	Errors map[string]ErrorDetail `json:"errors"`
}

func NewErrorResponse(scope, code, name string) ErrorResponse {
	return ErrorResponse{Errors: map[string]ErrorDetail{scope: {Code: code, Name: name}}}
}
