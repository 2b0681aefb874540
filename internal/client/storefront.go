// Package client calls the storefront API from other processes, guarded by a
// circuit breaker, a bulkhead and per-call timeouts.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/cart"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/patterns"
)

// CircuitName labels the breaker and bulkhead in metrics and errors
const CircuitName = "Storefront"

// Options configures a Storefront client
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	BulkheadSize int
	BulkheadWait time.Duration
	Breaker      patterns.BreakerSettings
	// Service is the calling service, used as the metrics label
	Service string
}

// StatusError is a response the storefront answered with a non-2xx status
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront returned status %d: %s", e.Code, e.Message)
}

// Storefront is a resty client for the storefront API
type Storefront struct {
	http     *resty.Client
	baseURL  string
	timeout  time.Duration
	circuit  *patterns.CircuitBreakerWrapper
	bulkhead *patterns.Bulkhead
}

func New(opts Options) *Storefront {
	if opts.Timeout <= 0 {
		opts.Timeout = patterns.DefaultTimeout
	}
	if opts.BulkheadSize <= 0 {
		opts.BulkheadSize = 10
	}
	if opts.Breaker == (patterns.BreakerSettings{}) {
		opts.Breaker = patterns.DefaultBreakerSettings
	}
	if opts.Service == "" {
		opts.Service = "wigctl"
	}

	return &Storefront{
		http: resty.New().
			SetTimeout(opts.Timeout).
			SetRetryCount(0),
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		timeout:  opts.Timeout,
		circuit:  patterns.NewCircuitBreaker(CircuitName, opts.Service, opts.Breaker),
		bulkhead: patterns.NewBulkhead(opts.BulkheadSize, opts.BulkheadWait, strings.ToLower(CircuitName), opts.Service),
	}
}

// CircuitState returns the breaker state name
func (s *Storefront) CircuitState() string {
	return s.circuit.GetState()
}

// CircuitStateValue returns 0 closed, 1 open, 2 half-open
func (s *Storefront) CircuitStateValue() int {
	return s.circuit.GetStateValue()
}

func (s *Storefront) Orders(ctx context.Context) (models.OrdersResponse, error) {
	var out models.OrdersResponse
	err := s.do(ctx, http.MethodGet, "/api/orders", nil, &out)
	return out, err
}

// Cart fetches the cart with prices displayed in code; empty means the storefront default
func (s *Storefront) Cart(ctx context.Context, code string) (models.CartResponse, error) {
	path := "/api/cart"
	if code != "" {
		path += "?currency=" + url.QueryEscape(code)
	}
	var out models.CartResponse
	err := s.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (s *Storefront) AddItem(ctx context.Context, req models.AddItemRequest) (cart.Item, error) {
	var out cart.Item
	err := s.do(ctx, http.MethodPost, "/api/cart/items", req, &out)
	return out, err
}

func (s *Storefront) RemoveItem(ctx context.Context, id string) (models.RemoveItemResponse, error) {
	var out models.RemoveItemResponse
	err := s.do(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s *Storefront) Quote(ctx context.Context, req models.QuoteRequest) (models.QuoteResponse, error) {
	var out models.QuoteResponse
	err := s.do(ctx, http.MethodPost, "/api/quote", req, &out)
	return out, err
}

func (s *Storefront) Checkout(ctx context.Context, code string) (models.CheckoutResponse, error) {
	var out models.CheckoutResponse
	err := s.do(ctx, http.MethodPost, "/api/checkout", models.CheckoutRequest{Currency: code}, &out)
	return out, err
}

// do runs one request inside the bulkhead and breaker. Only transport errors
// and 5xx responses count against the breaker; 4xx come back as StatusError.
func (s *Storefront) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := patterns.WithTimeout(ctx, s.timeout)
	defer cancel()

	var resp *resty.Response
	err := s.bulkhead.Execute(ctx, func() error {
		_, cbErr := s.circuit.Execute(func() (interface{}, error) {
			req := s.http.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json")
			if body != nil {
				req.SetBody(body)
			}

			r, httpErr := req.Execute(method, s.baseURL+path)
			if httpErr != nil {
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}
			if r.StatusCode() >= http.StatusInternalServerError {
				return nil, statusError(r)
			}
			resp = r
			return r, nil
		})
		return patterns.FormatError(CircuitName, cbErr)
	})
	if err != nil {
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		}).Warn("Storefront call failed")
		return err
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return statusError(resp)
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func statusError(r *resty.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := r.String()
	if json.Unmarshal(r.Body(), &body) == nil {
		switch {
		case body.Error != "":
			msg = body.Error
		case body.Message != "":
			msg = body.Message
		}
	}
	return &StatusError{Code: r.StatusCode(), Message: msg}
}
