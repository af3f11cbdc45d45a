// Package verifyme calls the VerifyMe identity verification API.
package verifyme

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

const DefaultBaseURL = "https://vapi.verifyme.ng"

type Client struct {
	apiKey     string
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

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Person is the data the identity record is matched against.
type Person struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	DOB       string `json:"dob,omitempty"`
}

type Result struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Raw    []byte          `json:"-"`
}

type APIError struct {
	StatusCode int
	Message    string
	Raw        []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("verifyme: %d %s", e.StatusCode, e.Message)
}

// VerifyIdentity posts person to /v1/verifications/identities/{idType}/{idNumber}
// (idType is e.g. "nin", "bvn", "drivers_license").
func (c *Client) VerifyIdentity(ctx context.Context, idType, idNumber string, person Person) (*Result, error) {
	b, err := json.Marshal(person)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/v1/verifications/identities/%s/%s",
		c.baseURL, url.PathEscape(strings.ToLower(idType)), url.PathEscape(idNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verifyme: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &e)
		if e.Message == "" {
			e.Message = http.StatusText(res.StatusCode)
		}
		return nil, &APIError{StatusCode: res.StatusCode, Message: e.Message, Raw: raw}
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("verifyme: decode response: %w", err)
	}
	out.Raw = raw
	return &out, nil
}

func (r *Result) Verified() bool {
	return r != nil && strings.EqualFold(r.Status, "success")
}
