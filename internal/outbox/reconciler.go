package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mirror_shop/internal/models"
	"mirror_shop/internal/remote"
)

const DefaultMaxAttempts = 10

var errMalformed = errors.New("malformed outbox entry")

// Writer is the subset of the remote store client the reconciler replays
// entries through.
type Writer interface {
	CheckHealth(ctx context.Context) bool
	CreateProduct(ctx context.Context, product models.Product) remote.Result[models.Product]
	DeleteProduct(ctx context.Context, id string) remote.Result[string]
	CreateOrder(ctx context.Context, order models.Order) remote.Result[models.Order]
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) remote.Result[models.Order]
	CreateOrUpdateCustomer(ctx context.Context, customer models.Customer) remote.Result[models.Customer]
}

type Reconciler struct {
	store       Store
	writer      Writer
	maxAttempts int
	logger      *zap.Logger

	mu       sync.Mutex // one replay at a time
	cron     *cron.Cron
	onReplay func(replayed, pending int)
}

func NewReconciler(store Store, writer Writer, maxAttempts int, logger *zap.Logger) *Reconciler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Reconciler{
		store:       store,
		writer:      writer,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// OnReplay registers fn to be called after every run that delivered at least
// one entry.
func (r *Reconciler) OnReplay(fn func(replayed, pending int)) {
	r.onReplay = fn
}

// Start schedules RunOnce on a cron spec such as "@every 30s".
func (r *Reconciler) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		defer func() {
			if err := recover(); err != nil {
				r.logger.Error("outbox reconcile panic", zap.Any("error", err))
			}
		}()
		if _, _, err := r.RunOnce(context.Background()); err != nil {
			r.logger.Error("outbox reconcile failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule outbox reconciler: %w", err)
	}
	r.cron = c
	c.Start()
	return nil
}

func (r *Reconciler) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// RunOnce replays every queued entry. Entries that fail again are queued
// with one more attempt unless the backend rejected them outright or they
// ran out of attempts.
func (r *Reconciler) RunOnce(ctx context.Context) (replayed, pending int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.store.Len(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read outbox length: %w", err)
	}
	if n == 0 {
		return 0, 0, nil
	}
	if !r.writer.CheckHealth(ctx) {
		r.logger.Debug("backend offline, outbox replay skipped", zap.Int("pending", n))
		return 0, n, nil
	}

	entries, err := r.store.Drain(ctx)
	if err != nil && len(entries) == 0 {
		return 0, 0, fmt.Errorf("failed to drain outbox: %w", err)
	}

	var retry []Entry
	for _, e := range entries {
		rerr := r.replay(ctx, e)
		switch {
		case rerr == nil:
			replayed++
		case remote.IsPermanent(rerr), errors.Is(rerr, errMalformed):
			r.logger.Error("backend rejected queued write, dropping",
				zap.String("entry_id", e.ID), zap.String("kind", string(e.Kind)), zap.Error(rerr))
		case e.Attempts >= r.maxAttempts:
			r.logger.Error("queued write exhausted its attempts, dropping",
				zap.String("entry_id", e.ID), zap.String("kind", string(e.Kind)),
				zap.Int("attempts", e.Attempts), zap.Error(rerr))
		default:
			e.Attempts++
			e.LastError = rerr.Error()
			retry = append(retry, e)
		}
	}

	if len(retry) > 0 {
		if perr := r.store.Push(ctx, retry...); perr != nil {
			return replayed, 0, fmt.Errorf("failed to requeue outbox entries: %w", perr)
		}
	}
	if replayed > 0 {
		r.logger.Info("outbox replayed", zap.Int("replayed", replayed), zap.Int("pending", len(retry)))
		if r.onReplay != nil {
			r.onReplay(replayed, len(retry))
		}
	}
	return replayed, len(retry), nil
}

func (r *Reconciler) replay(ctx context.Context, e Entry) error {
	switch e.Kind {
	case KindCreateProduct:
		var p models.Product
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return fmt.Errorf("%w: %s payload: %v", errMalformed, e.Kind, err)
		}
		return r.writer.CreateProduct(ctx, p).Err
	case KindDeleteProduct:
		var d deletion
		if err := json.Unmarshal(e.Payload, &d); err != nil {
			return fmt.Errorf("%w: %s payload: %v", errMalformed, e.Kind, err)
		}
		return r.writer.DeleteProduct(ctx, d.ID).Err
	case KindCreateOrder:
		var o models.Order
		if err := json.Unmarshal(e.Payload, &o); err != nil {
			return fmt.Errorf("%w: %s payload: %v", errMalformed, e.Kind, err)
		}
		return r.writer.CreateOrder(ctx, o).Err
	case KindUpdateOrderStatus:
		var sc StatusChange
		if err := json.Unmarshal(e.Payload, &sc); err != nil {
			return fmt.Errorf("%w: %s payload: %v", errMalformed, e.Kind, err)
		}
		return r.writer.UpdateOrderStatus(ctx, sc.ID, sc.Status).Err
	case KindUpsertCustomer:
		var c models.Customer
		if err := json.Unmarshal(e.Payload, &c); err != nil {
			return fmt.Errorf("%w: %s payload: %v", errMalformed, e.Kind, err)
		}
		return r.writer.CreateOrUpdateCustomer(ctx, c).Err
	default:
		return fmt.Errorf("%w: unknown kind %q", errMalformed, e.Kind)
	}
}
