package payclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(payURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url: payURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type Card struct {
	Name            string `json:"name"`
	Number          string `json:"number"`
	ExpirationYear  int    `json:"expiration_year"`
	ExpirationMonth int    `json:"expiration_month"`
	CVV             string `json:"cvv"`
}

type CardSummary struct {
	Name            string `json:"name"`
	FirstDigits     string `json:"first_digits"`
	LastDigits      string `json:"last_digits"`
	ExpirationYear  int    `json:"expiration_year"`
	ExpirationMonth int    `json:"expiration_month"`
}

type Transaction struct {
	ID            string `json:"id"`
	Success       bool   `json:"success"`
	AmountCharged int64  `json:"amount_charged"`
}

type ChargeResponse struct {
	CreditCard  CardSummary `json:"credit_card"`
	Transaction Transaction `json:"transaction"`
}

type chargeRequest struct {
	CreditCard    Card  `json:"credit_card"`
	AmountCharged int64 `json:"amount_charged"`
}

// Charge debits amount (smallest currency unit) from card. Every failure is
// returned as *Error.
func (c *Client) Charge(ctx context.Context, card Card, amount int64) (*ChargeResponse, error) {
	payload, err := json.Marshal(chargeRequest{CreditCard: card, AmountCharged: amount})
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp.StatusCode, body)
	}

	var result ChargeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, invalidResponse(resp.StatusCode, err)
	}
	return &result, nil
}

// Error carries the JSON body to hand back to the caller unchanged.
type Error struct {
	Status  int
	Body    json.RawMessage
	network bool
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("payment failed (status %d): %v", e.Status, e.cause)
	}
	return fmt.Sprintf("payment failed (status %d): %s", e.Status, e.Body)
}

func (e *Error) Unwrap() error { return e.cause }

// Network reports whether the payment service could not be reached.
func (e *Error) Network() bool { return e.network }

type errorBody struct {
	Errors map[string]errorEntry `json:"errors"`
}

type errorEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func syntheticBody(code, name string) json.RawMessage {
	b, _ := json.Marshal(errorBody{Errors: map[string]errorEntry{"payment": {Code: code, Name: name}}})
	return b
}

func networkError(err error) *Error {
	return &Error{
		Status:  0,
		Body:    syntheticBody("network-error", err.Error()),
		network: true,
		cause:   err,
	}
}

func invalidResponse(status int, err error) *Error {
	return &Error{
		Status: status,
		Body:   syntheticBody("invalid-response", "unexpected response from the payment service"),
		cause:  err,
	}
}

func remoteError(status int, body []byte) *Error {
	if !json.Valid(body) {
		return invalidResponse(status, errors.New("non JSON error body"))
	}
	return &Error{Status: status, Body: json.RawMessage(bytes.TrimSpace(body))}
}
