// Package outbox keeps remote writes that could not be delivered so they can
// be replayed once the backend is reachable again.
package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"mirror_shop/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Kind string

const (
	KindCreateProduct     Kind = "create_product"
	KindDeleteProduct     Kind = "delete_product"
	KindCreateOrder       Kind = "create_order"
	KindUpdateOrderStatus Kind = "update_order_status"
	KindUpsertCustomer    Kind = "upsert_customer"
)

type Entry struct {
	ID        string              `json:"id"`
	Kind      Kind                `json:"kind"`
	Payload   jsoniter.RawMessage `json:"payload"`
	Attempts  int                 `json:"attempts"`
	CreatedAt time.Time           `json:"created_at"`
	LastError string              `json:"last_error,omitempty"`
}

type StatusChange struct {
	ID     string             `json:"id"`
	Status models.OrderStatus `json:"status"`
}

type deletion struct {
	ID string `json:"id"`
}

func NewEntry(kind Kind, payload interface{}, cause error) (Entry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}
	e := Entry{
		ID:        uuid.New().String(),
		Kind:      kind,
		Payload:   data,
		Attempts:  1,
		CreatedAt: time.Now(),
	}
	if cause != nil {
		e.LastError = cause.Error()
	}
	return e, nil
}

func ProductCreated(p models.Product, cause error) (Entry, error) {
	return NewEntry(KindCreateProduct, p, cause)
}

func ProductDeleted(id string, cause error) (Entry, error) {
	return NewEntry(KindDeleteProduct, deletion{ID: id}, cause)
}

func OrderCreated(o models.Order, cause error) (Entry, error) {
	return NewEntry(KindCreateOrder, o, cause)
}

func OrderStatusChanged(id string, status models.OrderStatus, cause error) (Entry, error) {
	return NewEntry(KindUpdateOrderStatus, StatusChange{ID: id, Status: status}, cause)
}

func CustomerUpserted(c models.Customer, cause error) (Entry, error) {
	return NewEntry(KindUpsertCustomer, c, cause)
}

// Store is an ordered queue of entries.
type Store interface {
	Push(ctx context.Context, entries ...Entry) error
	// Drain removes and returns every queued entry, oldest first.
	Drain(ctx context.Context) ([]Entry, error)
	Len(ctx context.Context) (int, error)
}

type memoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Push(ctx context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *memoryStore) Drain(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.entries
	s.entries = nil
	return out, nil
}

func (s *memoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}
