// Package dashboard holds the in-memory state of the shop dashboard. Every
// mutation is applied locally first and then written to the backend in the
// background. A failed write never rolls local state back and is queued for
// replay instead.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mirror_shop/internal/analytics"
	"mirror_shop/internal/ids"
	"mirror_shop/internal/models"
	"mirror_shop/internal/outbox"
	"mirror_shop/internal/remote"
)

// Event topics published on the controller's bus. The change topics carry no
// arguments; TopicStateLoaded carries a LoadReport, TopicSyncFailed a
// SyncFailure and TopicSyncReplayed the replayed and pending counts.
const (
	TopicProductsChanged  = "products:changed"
	TopicOrdersChanged    = "orders:changed"
	TopicCustomersChanged = "customers:changed"
	TopicStateLoaded      = "state:loaded"
	TopicSyncFailed       = "sync:failed"
	TopicSyncReplayed     = "sync:replayed"
)

const closeTimeout = 10 * time.Second

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidThreshold  = errors.New("threshold must not be negative")
)

// RemoteStore is the backend as seen through the remote store client.
type RemoteStore interface {
	outbox.Writer
	GetProducts(ctx context.Context) remote.Result[[]models.Product]
	GetOrders(ctx context.Context) remote.Result[[]models.Order]
	GetCustomers(ctx context.Context) remote.Result[[]models.Customer]
}

// SettingsStore persists dashboard preferences.
type SettingsStore interface {
	GetLowStockThreshold(ctx context.Context) (int, bool, error)
	SetLowStockThreshold(ctx context.Context, threshold int) error
}

type Options struct {
	LowStockThreshold int
	KPIOptions        analytics.KPIOptions
	PoolSize          int
	IDs               *ids.Generator
	Outbox            outbox.Store  // nil disables the retry queue
	Settings          SettingsStore // nil keeps the threshold in memory only
	Logger            *zap.Logger
}

// LoadReport describes where the initial state came from.
type LoadReport struct {
	Connected bool
	Products  remote.Source
	Orders    remote.Source
	Customers remote.Source
}

// SyncFailure is published on TopicSyncFailed when a background write could
// not reach the backend.
type SyncFailure struct {
	Kind   outbox.Kind
	Err    error
	Queued bool
}

type Controller struct {
	remote     RemoteStore
	outbox     outbox.Store
	settings   SettingsStore
	ids        *ids.Generator
	kpiOptions analytics.KPIOptions
	logger     *zap.Logger
	bus        EventBus.Bus
	pool       *ants.Pool
	inflight   sync.WaitGroup
	now        func() time.Time

	mu        sync.RWMutex
	products  []models.Product
	orders    []models.Order
	customers []models.Customer
	selected  *models.Order
	threshold int
	connected bool
}

func NewController(store RemoteStore, opts Options) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 8
	}
	if opts.LowStockThreshold < 0 {
		opts.LowStockThreshold = analytics.DefaultLowStockThreshold
	}
	if opts.IDs == nil {
		gen, err := ids.NewGenerator(1)
		if err != nil {
			return nil, err
		}
		opts.IDs = gen
	}

	logger := opts.Logger
	pool, err := ants.NewPool(opts.PoolSize, ants.WithPanicHandler(func(p interface{}) {
		logger.Error("background write panicked", zap.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create write pool: %w", err)
	}

	return &Controller{
		remote:     store,
		outbox:     opts.Outbox,
		settings:   opts.Settings,
		ids:        opts.IDs,
		kpiOptions: opts.KPIOptions,
		logger:     logger,
		bus:        EventBus.New(),
		pool:       pool,
		now:        time.Now,
		threshold:  opts.LowStockThreshold,
		connected:  true,
	}, nil
}

// Subscribe registers fn for a topic. Handlers run synchronously on the
// goroutine that published the event.
func (c *Controller) Subscribe(topic string, fn interface{}) error {
	return c.bus.Subscribe(topic, fn)
}

// Load checks backend health and fetches all three collections concurrently.
// Collections that cannot be fetched are replaced by the sample data, so Load
// only fails when ctx is cancelled.
func (c *Controller) Load(ctx context.Context) (LoadReport, error) {
	connected := c.remote.CheckHealth(ctx)

	var (
		products  remote.Result[[]models.Product]
		orders    remote.Result[[]models.Order]
		customers remote.Result[[]models.Customer]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products = c.remote.GetProducts(gctx)
		return nil
	})
	g.Go(func() error {
		orders = c.remote.GetOrders(gctx)
		return nil
	})
	g.Go(func() error {
		customers = c.remote.GetCustomers(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return LoadReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return LoadReport{}, err
	}

	threshold, hasThreshold := c.storedThreshold(ctx)

	c.mu.Lock()
	c.connected = connected
	c.products = products.Data
	c.orders = orders.Data
	c.customers = customers.Data
	c.selected = nil
	if hasThreshold {
		c.threshold = threshold
	}
	c.mu.Unlock()

	report := LoadReport{
		Connected: connected,
		Products:  products.Source,
		Orders:    orders.Source,
		Customers: customers.Source,
	}
	c.logger.Info("dashboard state loaded",
		zap.Bool("connected", connected),
		zap.Stringer("products", products.Source),
		zap.Stringer("orders", orders.Source),
		zap.Stringer("customers", customers.Source))
	c.bus.Publish(TopicStateLoaded, report)
	return report, nil
}

func (c *Controller) storedThreshold(ctx context.Context) (int, bool) {
	if c.settings == nil {
		return 0, false
	}
	n, ok, err := c.settings.GetLowStockThreshold(ctx)
	if err != nil {
		c.logger.Warn("failed to read stored low stock threshold", zap.Error(err))
		return 0, false
	}
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// Connected reports the result of the last health check.
func (c *Controller) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Orders

// CreateOrder records a new order and folds its customer into the customer
// list by phone number. An order for a known phone is attributed to that
// customer. The customer is sent to the backend before the order, tagged with
// the order id so that a replayed upsert is not counted twice.
func (c *Controller) CreateOrder(order models.Order, customer models.Customer) {
	if customer.SourceOrderID == "" {
		customer.SourceOrderID = order.ID
	}

	c.mu.Lock()
	found := false
	for i := range c.customers {
		if c.customers[i].Phone == customer.Phone {
			order.CustomerID = c.customers[i].ID
			c.customers[i].TotalSpent += order.TotalPrice
			c.customers[i].OrderCount++
			found = true
			break
		}
	}
	if !found {
		c.customers = append(c.customers, customer)
	}
	c.orders = append([]models.Order{order}, c.orders...)
	c.mu.Unlock()

	c.bus.Publish(TopicOrdersChanged)
	c.bus.Publish(TopicCustomersChanged)

	c.dispatch(func(ctx context.Context) {
		settle(c, ctx, outbox.KindUpsertCustomer, c.remote.CreateOrUpdateCustomer(ctx, customer), func(cause error) (outbox.Entry, error) {
			return outbox.CustomerUpserted(customer, cause)
		})
		settle(c, ctx, outbox.KindCreateOrder, c.remote.CreateOrder(ctx, order), func(cause error) (outbox.Entry, error) {
			return outbox.OrderCreated(order, cause)
		})
	})
}

// UpdateOrderStatus moves an order to status. Unknown orders and transitions
// the status table does not allow leave local state untouched.
func (c *Controller) UpdateOrderStatus(id string, status models.OrderStatus) error {
	c.mu.Lock()
	idx := -1
	for i := range c.orders {
		if c.orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return ErrOrderNotFound
	}
	current := c.orders[idx].Status
	if !models.CanTransition(current, status) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, status)
	}
	c.orders[idx].Status = status
	if c.selected != nil && c.selected.ID == id {
		c.selected.Status = status
	}
	c.mu.Unlock()

	c.bus.Publish(TopicOrdersChanged)

	c.dispatch(func(ctx context.Context) {
		settle(c, ctx, outbox.KindUpdateOrderStatus, c.remote.UpdateOrderStatus(ctx, id, status), func(cause error) (outbox.Entry, error) {
			return outbox.OrderStatusChanged(id, status, cause)
		})
	})
	return nil
}

// SelectOrder keeps a copy of the order for the detail view.
func (c *Controller) SelectOrder(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.orders {
		if o.ID == id {
			sel := o
			c.selected = &sel
			return true
		}
	}
	c.selected = nil
	return false
}

func (c *Controller) SelectedOrder() (models.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == nil {
		return models.Order{}, false
	}
	return *c.selected, true
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// Products

func (c *Controller) CreateProduct(product models.Product) {
	c.mu.Lock()
	c.products = append([]models.Product{product}, c.products...)
	c.mu.Unlock()

	c.bus.Publish(TopicProductsChanged)

	c.dispatch(func(ctx context.Context) {
		settle(c, ctx, outbox.KindCreateProduct, c.remote.CreateProduct(ctx, product), func(cause error) (outbox.Entry, error) {
			return outbox.ProductCreated(product, cause)
		})
	})
}

// DeleteProduct removes every product with id once confirm agrees. A nil
// confirm deletes without asking. It reports whether the deletion went ahead.
func (c *Controller) DeleteProduct(id string, confirm func() bool) bool {
	if confirm != nil && !confirm() {
		return false
	}

	c.mu.Lock()
	kept := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.products = kept
	c.mu.Unlock()

	c.bus.Publish(TopicProductsChanged)

	c.dispatch(func(ctx context.Context) {
		settle(c, ctx, outbox.KindDeleteProduct, c.remote.DeleteProduct(ctx, id), func(cause error) (outbox.Entry, error) {
			return outbox.ProductDeleted(id, cause)
		})
	})
	return true
}

// Settings

func (c *Controller) LowStockThreshold() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.threshold
}

// SetLowStockThreshold changes the threshold used for stock status. The new
// value is kept locally even if it cannot be persisted.
func (c *Controller) SetLowStockThreshold(ctx context.Context, n int) error {
	if n < 0 {
		return ErrInvalidThreshold
	}
	c.mu.Lock()
	c.threshold = n
	c.mu.Unlock()

	c.bus.Publish(TopicProductsChanged)

	if c.settings != nil {
		if err := c.settings.SetLowStockThreshold(ctx, n); err != nil {
			return fmt.Errorf("failed to persist low stock threshold: %w", err)
		}
	}
	return nil
}

// Snapshots

func (c *Controller) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Product(nil), c.products...)
}

// DisplayProducts returns the products with their status derived from the
// current threshold.
func (c *Controller) DisplayProducts() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return analytics.ApplyStockStatus(c.products, c.threshold)
}

func (c *Controller) Orders() []models.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Order(nil), c.orders...)
}

func (c *Controller) Customers() []models.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Customer(nil), c.customers...)
}

func (c *Controller) KPIs(now time.Time) models.KPI {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return analytics.ComputeKPIs(c.orders, c.products, now, c.kpiOptions)
}

func (c *Controller) ProductStockStatus(p models.Product) models.StockStatus {
	return analytics.StockStatus(p.Stock, c.LowStockThreshold())
}

// NotifyReplayed publishes TopicSyncReplayed. It is meant to be hooked to the
// outbox reconciler.
func (c *Controller) NotifyReplayed(replayed, pending int) {
	c.bus.Publish(TopicSyncReplayed, replayed, pending)
}

// Wait blocks until every background write submitted so far has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Close waits for background writes and releases the worker pool.
func (c *Controller) Close() error {
	c.inflight.Wait()
	return c.pool.ReleaseTimeout(closeTimeout)
}

// dispatch runs write on the pool with a context that outlives the caller.
func (c *Controller) dispatch(write func(ctx context.Context)) {
	c.inflight.Add(1)
	task := func() {
		defer c.inflight.Done()
		write(context.Background())
	}
	if err := c.pool.Submit(task); err != nil {
		c.logger.Warn("write pool unavailable, writing inline", zap.Error(err))
		task()
	}
}

// settle inspects the outcome of a background write. Simulated writes are
// queued for replay unless the backend rejected them, and reported on the bus.
func settle[T any](c *Controller, ctx context.Context, kind outbox.Kind, res remote.Result[T], entry func(cause error) (outbox.Entry, error)) {
	if res.Source != remote.SourceSimulated {
		return
	}
	c.logger.Warn("backend write did not go through", zap.String("kind", string(kind)), zap.Error(res.Err))

	queued := false
	if c.outbox != nil && !remote.IsPermanent(res.Err) {
		e, err := entry(res.Err)
		if err == nil {
			err = c.outbox.Push(ctx, e)
		}
		if err != nil {
			c.logger.Error("failed to queue write for replay", zap.String("kind", string(kind)), zap.Error(err))
		} else {
			queued = true
		}
	}
	c.bus.Publish(TopicSyncFailed, SyncFailure{Kind: kind, Err: res.Err, Queued: queued})
}
