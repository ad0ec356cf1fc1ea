package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mirror_shop/internal/analytics"
	"mirror_shop/internal/handlers"
	"mirror_shop/internal/models"
	"mirror_shop/internal/repository"
	"mirror_shop/internal/sampledata"
	"mirror_shop/internal/services"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := handlers.NewAPIHandler(
		services.NewProductService(repository.NewMemoryProductRepository(sampledata.Products())),
		services.NewOrderService(repository.NewMemoryOrderRepository(sampledata.Orders())),
		services.NewCustomerService(repository.NewMemoryCustomerRepository(sampledata.Customers())),
		5,
		analytics.KPIOptions{},
	)
	srv := httptest.NewServer(handlers.NewRouter(h, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

// deadURL returns the address of a server that has already been shut down.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL + "/api"
}

func newClient(base string) *Client {
	return NewClient(base, Options{
		HealthTimeout:  200 * time.Millisecond,
		RequestTimeout: time.Second,
		Logger:         zap.NewNop(),
	})
}

func TestCheckHealth(t *testing.T) {
	ctx := context.Background()
	assert.True(t, newClient(newBackend(t).URL+"/api").CheckHealth(ctx))
	assert.False(t, newClient(deadURL(t)).CheckHealth(ctx))
}

func TestCheckHealthNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.False(t, newClient(srv.URL).CheckHealth(context.Background()))
}

func TestCheckHealthIgnoresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	assert.True(t, newClient(srv.URL).CheckHealth(context.Background()))
}

func TestCheckHealthTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	assert.False(t, newClient(srv.URL).CheckHealth(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestReadsAreLiveWhenBackendIsUp(t *testing.T) {
	ctx := context.Background()
	c := newClient(newBackend(t).URL + "/api")

	products := c.GetProducts(ctx)
	assert.True(t, products.Live())
	assert.NoError(t, products.Err)
	assert.Len(t, products.Data, 4)

	orders := c.GetOrders(ctx)
	assert.Equal(t, SourceLive, orders.Source)
	assert.Len(t, orders.Data, 3)

	customers := c.GetCustomers(ctx)
	assert.Equal(t, SourceLive, customers.Source)
	assert.Len(t, customers.Data, 3)
}

func TestReadsFallBackWhenBackendIsDown(t *testing.T) {
	ctx := context.Background()
	c := newClient(deadURL(t))

	products := c.GetProducts(ctx)
	assert.Equal(t, SourceFallback, products.Source)
	assert.Error(t, products.Err)
	assert.Equal(t, sampledata.Products(), products.Data)

	orders := c.GetOrders(ctx)
	assert.Equal(t, SourceFallback, orders.Source)
	assert.Equal(t, sampledata.Orders(), orders.Data)

	customers := c.GetCustomers(ctx)
	assert.Equal(t, SourceFallback, customers.Source)
	assert.Equal(t, sampledata.Customers(), customers.Data)
}

func TestReadsFallBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := newClient(srv.URL).GetOrders(context.Background())
	assert.Equal(t, SourceFallback, result.Source)
	assert.Contains(t, result.Err.Error(), "unexpected status 500")
}

func TestWritesAgainstLiveBackend(t *testing.T) {
	ctx := context.Background()
	c := newClient(newBackend(t).URL + "/api")

	created := c.CreateProduct(ctx, models.Product{ID: "p-1", Name: "Test Mirror", Stock: 1})
	require.True(t, created.Live(), created.Err)
	assert.Equal(t, "p-1", created.Data.ID)

	deleted := c.DeleteProduct(ctx, "p-1")
	assert.True(t, deleted.Live(), deleted.Err)

	order := c.CreateOrder(ctx, models.Order{ID: "ord-1", Status: models.OrderNew, TotalPrice: 10})
	require.True(t, order.Live(), order.Err)

	updated := c.UpdateOrderStatus(ctx, "ord-1", models.OrderInProduction)
	require.True(t, updated.Live(), updated.Err)
	assert.Equal(t, models.OrderInProduction, updated.Data.Status)
	assert.Equal(t, 10.0, updated.Data.TotalPrice)

	customer := c.CreateOrUpdateCustomer(ctx, models.Customer{ID: "c-1", Phone: "+212 663-987654", TotalSpent: 500, OrderCount: 1})
	require.True(t, customer.Live(), customer.Err)
	assert.Equal(t, "c2", customer.Data.ID)
	assert.Equal(t, 12500.0, customer.Data.TotalSpent)
}

func TestUpdateOrderStatusRejectedTransitionIsSimulated(t *testing.T) {
	c := newClient(newBackend(t).URL + "/api")

	result := c.UpdateOrderStatus(context.Background(), "ord-1001", models.OrderNew)
	assert.Equal(t, SourceSimulated, result.Source)
	assert.Contains(t, result.Err.Error(), "unexpected status 409")
}

func TestWritesAreSimulatedWhenBackendIsDown(t *testing.T) {
	ctx := context.Background()
	c := NewClient(deadURL(t), Options{SimulatedDelay: 30 * time.Millisecond, Logger: zap.NewNop()})

	product := models.Product{ID: "p-2", Name: "Offline Mirror"}
	start := time.Now()
	created := c.CreateProduct(ctx, product)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, SourceSimulated, created.Source)
	assert.Error(t, created.Err)
	assert.Equal(t, product, created.Data)

	assert.Equal(t, SourceSimulated, c.DeleteProduct(ctx, "p-2").Source)
	assert.Equal(t, SourceSimulated, c.CreateOrder(ctx, models.Order{ID: "ord-2"}).Source)
	assert.Equal(t, SourceSimulated, c.CreateOrUpdateCustomer(ctx, models.Customer{ID: "c-2"}).Source)

	known := c.UpdateOrderStatus(ctx, "ord-1002", models.OrderReady)
	assert.Equal(t, SourceSimulated, known.Source)
	assert.Equal(t, "ord-1002", known.Data.ID)
	assert.Equal(t, models.OrderReady, known.Data.Status)

	unknown := c.UpdateOrderStatus(ctx, "ord-unknown", models.OrderReady)
	assert.Equal(t, models.Order{}, unknown.Data)
}

func TestSimulatedDelayHonoursContext(t *testing.T) {
	c := NewClient(deadURL(t), Options{SimulatedDelay: time.Hour, Logger: zap.NewNop()})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := c.CreateOrder(ctx, models.Order{ID: "ord-3"})
	assert.Equal(t, SourceSimulated, result.Source)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(&StatusError{Code: http.StatusConflict}))
	assert.True(t, IsPermanent(&StatusError{Code: http.StatusNotFound}))
	assert.False(t, IsPermanent(&StatusError{Code: http.StatusTooManyRequests}))
	assert.False(t, IsPermanent(&StatusError{Code: http.StatusBadGateway}))
	assert.False(t, IsPermanent(context.DeadlineExceeded))
	assert.False(t, IsPermanent(nil))
}
