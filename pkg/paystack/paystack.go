// Package paystack is a thin client for the Paystack transaction API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		secretKey:  secretKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type InitializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

type VerifyData struct {
	ID        int64           `json:"id"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	PaidAt    string          `json:"paid_at"`
	Channel   string          `json:"channel"`
	Customer  json.RawMessage `json:"customer"`
	Metadata  json.RawMessage `json:"metadata"`
}

type VerifyResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
	Raw     []byte     `json:"-"`
}

// APIError is returned for any non-2xx answer from Paystack and for calls
// that never got a usable answer. Message is safe to show to clients; Err
// keeps the transport cause for logs.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("paystack: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("paystack: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

type InitializeOptions struct {
	Reference   string
	CallbackURL string
	Currency    string
	Metadata    map[string]any
}

// Initialize starts a transaction. amount is in naira; Paystack expects kobo,
// so it is sent multiplied by 100.
func (c *Client) Initialize(ctx context.Context, email string, amount int64, opts ...InitializeOptions) (*InitializeResponse, error) {
	body := map[string]any{
		"email":  email,
		"amount": amount * 100,
	}
	if len(opts) > 0 {
		o := opts[0]
		if o.Reference != "" {
			body["reference"] = o.Reference
		}
		if o.CallbackURL != "" {
			body["callback_url"] = o.CallbackURL
		}
		if o.Currency != "" {
			body["currency"] = o.Currency
		}
		if len(o.Metadata) > 0 {
			body["metadata"] = o.Metadata
		}
	}

	var out InitializeResponse
	if _, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	var out VerifyResponse
	raw, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out)
	if err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: "payment gateway unreachable", Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &APIError{StatusCode: res.StatusCode, Message: "payment gateway unreachable", Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &e)
		if e.Message == "" {
			e.Message = http.StatusText(res.StatusCode)
		}
		return raw, &APIError{StatusCode: res.StatusCode, Message: e.Message}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return raw, &APIError{StatusCode: res.StatusCode, Message: "invalid response from payment gateway", Err: err}
	}
	return raw, nil
}
