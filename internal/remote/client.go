// Package remote talks to the backend REST API. Every call settles: reads
// that fail fall back to the static sample data and writes that fail are
// simulated after a short delay. The Result returned by each call records
// which of these happened and why.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mirror_shop/internal/models"
	"mirror_shop/internal/sampledata"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Source int

const (
	// SourceLive means the backend answered the call.
	SourceLive Source = iota
	// SourceFallback means a read failed and static sample data was returned.
	SourceFallback
	// SourceSimulated means a write failed and success was simulated.
	SourceSimulated
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceFallback:
		return "fallback"
	case SourceSimulated:
		return "simulated"
	default:
		return "unknown"
	}
}

// Result is the settled outcome of a call. Err is set whenever Source is not
// SourceLive and carries the absorbed failure.
type Result[T any] struct {
	Data   T
	Source Source
	Err    error
}

func (r Result[T]) Live() bool { return r.Source == SourceLive }

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// IsPermanent reports whether err is a rejection by the backend that a retry
// of the same request cannot fix.
func IsPermanent(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusRequestTimeout && se.Code != http.StatusTooManyRequests
	}
	return false
}

type Options struct {
	HTTPClient     *http.Client
	HealthTimeout  time.Duration
	RequestTimeout time.Duration
	SimulatedDelay time.Duration
	Logger         *zap.Logger
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	healthTimeout  time.Duration
	requestTimeout time.Duration
	simulatedDelay time.Duration
	logger         *zap.Logger
}

func NewClient(baseURL string, opts Options) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     opts.HTTPClient,
		healthTimeout:  opts.HealthTimeout,
		requestTimeout: opts.RequestTimeout,
		simulatedDelay: opts.SimulatedDelay,
		logger:         opts.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.healthTimeout <= 0 {
		c.healthTimeout = 2 * time.Second
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 10 * time.Second
	}
	if c.logger == nil {
		c.logger = zap.L()
	}
	return c
}

// CheckHealth reports whether the backend answers its liveness endpoint
// with a 2xx status within the health timeout. The body is ignored. It never
// retries.
func (c *Client) CheckHealth(ctx context.Context) bool {
	if err := c.do(ctx, c.healthTimeout, http.MethodGet, "/health", nil, nil); err != nil {
		c.logger.Debug("health check failed", zap.Error(err))
		return false
	}
	return true
}

// Products

func (c *Client) GetProducts(ctx context.Context) Result[[]models.Product] {
	var products []models.Product
	if err := c.do(ctx, c.requestTimeout, http.MethodGet, "/products", nil, &products); err != nil {
		c.logger.Warn("Backend unavailable, returning mock products.", zap.Error(err))
		return Result[[]models.Product]{Data: sampledata.Products(), Source: SourceFallback, Err: err}
	}
	return Result[[]models.Product]{Data: products}
}

func (c *Client) CreateProduct(ctx context.Context, product models.Product) Result[models.Product] {
	var created models.Product
	if err := c.do(ctx, c.requestTimeout, http.MethodPost, "/products", product, &created); err != nil {
		c.logger.Warn("Backend unavailable, simulating creation.", zap.String("product_id", product.ID), zap.Error(err))
		c.simulate(ctx)
		return Result[models.Product]{Data: product, Source: SourceSimulated, Err: err}
	}
	return Result[models.Product]{Data: created}
}

func (c *Client) DeleteProduct(ctx context.Context, id string) Result[string] {
	if err := c.do(ctx, c.requestTimeout, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil); err != nil {
		c.logger.Warn("Backend unavailable, simulating deletion.", zap.String("product_id", id), zap.Error(err))
		c.simulate(ctx)
		return Result[string]{Data: id, Source: SourceSimulated, Err: err}
	}
	return Result[string]{Data: id}
}

// Orders

func (c *Client) GetOrders(ctx context.Context) Result[[]models.Order] {
	var orders []models.Order
	if err := c.do(ctx, c.requestTimeout, http.MethodGet, "/orders", nil, &orders); err != nil {
		c.logger.Warn("Backend unavailable, returning mock orders.", zap.Error(err))
		return Result[[]models.Order]{Data: sampledata.Orders(), Source: SourceFallback, Err: err}
	}
	return Result[[]models.Order]{Data: orders}
}

func (c *Client) CreateOrder(ctx context.Context, order models.Order) Result[models.Order] {
	var created models.Order
	if err := c.do(ctx, c.requestTimeout, http.MethodPost, "/orders", order, &created); err != nil {
		c.logger.Warn("Backend unavailable, simulating order creation.", zap.String("order_id", order.ID), zap.Error(err))
		c.simulate(ctx)
		return Result[models.Order]{Data: order, Source: SourceSimulated, Err: err}
	}
	return Result[models.Order]{Data: created}
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) Result[models.Order] {
	var updated models.Order
	body := map[string]interface{}{"status": status}
	if err := c.do(ctx, c.requestTimeout, http.MethodPut, "/orders/"+url.PathEscape(id), body, &updated); err != nil {
		c.logger.Warn("Backend unavailable, simulating update.", zap.String("order_id", id), zap.Error(err))
		c.simulate(ctx)
		var mock models.Order
		for _, o := range sampledata.Orders() {
			if o.ID == id {
				mock = o
				mock.Status = status
				break
			}
		}
		return Result[models.Order]{Data: mock, Source: SourceSimulated, Err: err}
	}
	return Result[models.Order]{Data: updated}
}

// Customers

func (c *Client) GetCustomers(ctx context.Context) Result[[]models.Customer] {
	var customers []models.Customer
	if err := c.do(ctx, c.requestTimeout, http.MethodGet, "/customers", nil, &customers); err != nil {
		c.logger.Warn("Backend unavailable, returning mock customers.", zap.Error(err))
		return Result[[]models.Customer]{Data: sampledata.Customers(), Source: SourceFallback, Err: err}
	}
	return Result[[]models.Customer]{Data: customers}
}

func (c *Client) CreateOrUpdateCustomer(ctx context.Context, customer models.Customer) Result[models.Customer] {
	var saved models.Customer
	if err := c.do(ctx, c.requestTimeout, http.MethodPost, "/customers", customer, &saved); err != nil {
		c.logger.Warn("Backend unavailable, simulating customer save.", zap.String("phone", customer.Phone), zap.Error(err))
		c.simulate(ctx)
		return Result[models.Customer]{Data: customer, Source: SourceSimulated, Err: err}
	}
	return Result[models.Customer]{Data: saved}
}

// do performs one request. Transport errors, non-2xx statuses and undecodable
// bodies are all returned as errors.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.baseURL + path
	g := gout.New(c.httpClient)
	df := g.GET(target)
	switch method {
	case http.MethodPost:
		df = g.POST(target)
	case http.MethodPut:
		df = g.PUT(target)
	case http.MethodDelete:
		df = g.DELETE(target)
	}

	var (
		code int
		raw  []byte
	)
	df = df.WithContext(ctx).Code(&code).BindBody(&raw)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		df = df.SetHeader(gout.H{"Content-Type": "application/json"}).SetBody(payload)
	}

	if err := df.Do(); err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if code < 200 || code >= 300 {
		return &StatusError{Method: method, Path: path, Code: code}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

// simulate stands in for a network round trip when a write is masked.
func (c *Client) simulate(ctx context.Context) {
	if c.simulatedDelay <= 0 {
		return
	}
	t := time.NewTimer(c.simulatedDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
