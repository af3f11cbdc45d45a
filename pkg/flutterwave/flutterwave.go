// Package flutterwave wraps the Flutterwave v3 card charge and transaction
// verification endpoints.
package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.flutterwave.com"

type Client struct {
	secretKey     string
	encryptionKey string
	baseURL       string
	httpClient    *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(secretKey, encryptionKey string, opts ...Option) *Client {
	c := &Client{
		secretKey:     secretKey,
		encryptionKey: encryptionKey,
		baseURL:       DefaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Authorization struct {
	Mode    string `json:"mode,omitempty"`
	PIN     string `json:"pin,omitempty"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Zipcode string `json:"zipcode,omitempty"`
}

type CardCharge struct {
	CardNumber    string         `json:"card_number"`
	CVV           string         `json:"cvv"`
	ExpiryMonth   string         `json:"expiry_month"`
	ExpiryYear    string         `json:"expiry_year"`
	Currency      string         `json:"currency"`
	Amount        string         `json:"amount"`
	Email         string         `json:"email"`
	Fullname      string         `json:"fullname,omitempty"`
	TxRef         string         `json:"tx_ref"`
	RedirectURL   string         `json:"redirect_url,omitempty"`
	Authorization *Authorization `json:"authorization,omitempty"`
}

// Response is the common Flutterwave envelope; Data is left raw because its
// shape depends on the charge flow (pin, otp, redirect, ...).
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

type Transaction struct {
	ID            int64   `json:"id"`
	TxRef         string  `json:"tx_ref"`
	FlwRef        string  `json:"flw_ref"`
	Amount        float64 `json:"amount"`
	ChargedAmount float64 `json:"charged_amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
}

var ErrNoEncryptionKey = errors.New("flutterwave: encryption key is not set")

// APIError is returned for any non-2xx answer from Flutterwave and for calls
// that never got a usable answer. Err keeps the transport cause for logs.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flutterwave: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("flutterwave: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// ChargeCard encrypts the card payload with the account encryption key and
// posts it to /v3/charges?type=card.
func (c *Client) ChargeCard(ctx context.Context, payload CardCharge) (*Response, error) {
	if c.encryptionKey == "" {
		return nil, ErrNoEncryptionKey
	}
	plain, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	client, err := Encrypt(c.encryptionKey, plain)
	if err != nil {
		return nil, err
	}

	var out Response
	if err := c.do(ctx, http.MethodPost, "/v3/charges?type=card", map[string]string{"client": client}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, id string) (*Response, *Transaction, error) {
	var out Response
	if err := c.do(ctx, http.MethodGet, "/v3/transactions/"+url.PathEscape(id)+"/verify", nil, &out); err != nil {
		return nil, nil, err
	}
	var tx Transaction
	if len(out.Data) > 0 {
		if err := json.Unmarshal(out.Data, &tx); err != nil {
			return &out, nil, &APIError{StatusCode: http.StatusOK, Message: "invalid response from payment gateway", Err: err}
		}
	}
	return &out, &tx, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: "payment gateway unreachable", Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &APIError{StatusCode: res.StatusCode, Message: "payment gateway unreachable", Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var e Response
		_ = json.Unmarshal(raw, &e)
		if e.Message == "" {
			e.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Message: e.Message}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{StatusCode: res.StatusCode, Message: "invalid response from payment gateway", Err: err}
	}
	return nil
}
