package outbox

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mirror_shop/internal/models"
	"mirror_shop/internal/remote"
)

type fakeWriter struct {
	mu      sync.Mutex
	healthy bool
	fail    error
	calls   []string
}

func (w *fakeWriter) record(call string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, call)
	return w.fail
}

func settle[T any](data T, err error) remote.Result[T] {
	if err != nil {
		return remote.Result[T]{Data: data, Source: remote.SourceSimulated, Err: err}
	}
	return remote.Result[T]{Data: data}
}

func (w *fakeWriter) CheckHealth(ctx context.Context) bool { return w.healthy }

func (w *fakeWriter) CreateProduct(ctx context.Context, p models.Product) remote.Result[models.Product] {
	return settle(p, w.record("create_product:"+p.ID))
}

func (w *fakeWriter) DeleteProduct(ctx context.Context, id string) remote.Result[string] {
	return settle(id, w.record("delete_product:"+id))
}

func (w *fakeWriter) CreateOrder(ctx context.Context, o models.Order) remote.Result[models.Order] {
	return settle(o, w.record("create_order:"+o.ID))
}

func (w *fakeWriter) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) remote.Result[models.Order] {
	return settle(models.Order{ID: id, Status: status}, w.record("update_order_status:"+id+":"+string(status)))
}

func (w *fakeWriter) CreateOrUpdateCustomer(ctx context.Context, c models.Customer) remote.Result[models.Customer] {
	return settle(c, w.record("upsert_customer:"+c.Phone))
}

func mustEntry(t *testing.T) func(Entry, error) Entry {
	return func(e Entry, err error) Entry {
		t.Helper()
		require.NoError(t, err)
		return e
	}
}

func TestRunOnceReplaysInOrder(t *testing.T) {
	ctx := context.Background()
	must := mustEntry(t)
	store := NewMemoryStore()
	require.NoError(t, store.Push(ctx,
		must(CustomerUpserted(models.Customer{Phone: "555-0199"}, nil)),
		must(OrderCreated(models.Order{ID: "ord-1"}, nil)),
		must(OrderStatusChanged("ord-1", models.OrderReady, nil)),
		must(ProductCreated(models.Product{ID: "p-9"}, nil)),
		must(ProductDeleted("p-9", nil)),
	))

	w := &fakeWriter{healthy: true}
	r := NewReconciler(store, w, 3, zap.NewNop())
	var notified int
	r.OnReplay(func(replayed, pending int) { notified = replayed })

	replayed, pending, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, replayed)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 5, notified)
	assert.Equal(t, []string{
		"upsert_customer:555-0199",
		"create_order:ord-1",
		"update_order_status:ord-1:Ready",
		"create_product:p-9",
		"delete_product:p-9",
	}, w.calls)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunOnceSkipsWhileOffline(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Push(ctx, mustEntry(t)(ProductDeleted("p1", nil))))

	w := &fakeWriter{healthy: false}
	replayed, pending, err := NewReconciler(store, w, 3, zap.NewNop()).RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, replayed)
	assert.Equal(t, 1, pending)
	assert.Empty(t, w.calls)
}

func TestRunOnceRequeuesUntilMaxAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Push(ctx, mustEntry(t)(ProductDeleted("p1", errors.New("dial tcp: refused")))))

	w := &fakeWriter{healthy: true, fail: errors.New("connection reset")}
	r := NewReconciler(store, w, 3, zap.NewNop())

	// Entry starts at one attempt, so two more replays are allowed.
	_, pending, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	entries, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Equal(t, "connection reset", entries[0].LastError)
	require.NoError(t, store.Push(ctx, entries...))

	_, pending, err = r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	_, pending, err = r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.Len(t, w.calls, 3)
}

func TestRunOnceDropsRejectedWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Push(ctx, mustEntry(t)(OrderStatusChanged("ord-1", models.OrderNew, nil))))

	w := &fakeWriter{healthy: true, fail: &remote.StatusError{Method: http.MethodPut, Path: "/orders/ord-1", Code: http.StatusConflict}}
	_, pending, err := NewReconciler(store, w, 10, zap.NewNop()).RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestRunOnceDropsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Push(ctx,
		Entry{ID: "bad-1", Kind: KindCreateOrder, Payload: []byte(`"not an order"`), Attempts: 1},
		Entry{ID: "bad-2", Kind: "rename_product", Payload: []byte(`{}`), Attempts: 1},
	))

	w := &fakeWriter{healthy: true}
	replayed, pending, err := NewReconciler(store, w, 10, zap.NewNop()).RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, replayed)
	assert.Zero(t, pending)
	assert.Empty(t, w.calls)
}

func TestNewEntryRecordsCause(t *testing.T) {
	e, err := CustomerUpserted(models.Customer{Phone: "555"}, errors.New("timeout"))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, KindUpsertCustomer, e.Kind)
	assert.Equal(t, 1, e.Attempts)
	assert.Equal(t, "timeout", e.LastError)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(e.Payload, &fields))
	assert.Equal(t, "555", fields["phone"])
}
