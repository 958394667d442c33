package services

import (
	"context"
	"log/slog"
	"sync"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

// OrderLookup resolves an order id against the caller's current view.
type OrderLookup interface {
	Find(orderID string) (models.Order, bool)
}

// OrderBook holds the latest snapshot delivered by the store. It is the one
// piece of shared view state; handlers and commands read orders from it and
// the lifecycle engine resolves ids through it.
type OrderBook struct {
	mu        sync.RWMutex
	orders    []models.Order
	lastErr   error
	live      bool
	listeners map[int]func([]models.Order)
	nextID    int

	unsubscribe repository.Unsubscribe
	logger      *slog.Logger
}

var _ OrderLookup = (*OrderBook)(nil)

// NewOrderBook returns an empty book. live tells whether the store will
// push snapshots after the caller's own saves.
func NewOrderBook(live bool, logger *slog.Logger) *OrderBook {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderBook{
		orders:    []models.Order{},
		live:      live,
		listeners: make(map[int]func([]models.Order)),
		logger:    logger,
	}
}

// Attach subscribes the book to store. The first snapshot is in place by
// the time Attach returns.
func Attach(ctx context.Context, store repository.OrderStore, logger *slog.Logger) (*OrderBook, error) {
	book := NewOrderBook(repository.HasLiveUpdates(store), logger)
	unsubscribe, err := store.Subscribe(ctx, book.Update)
	if err != nil {
		return book, err
	}
	book.mu.Lock()
	book.unsubscribe = unsubscribe
	book.mu.Unlock()
	return book, nil
}

// Update is the store's SnapshotFunc.
func (b *OrderBook) Update(orders []models.Order, err error) {
	if err != nil {
		b.logger.Error("order snapshot failed", "error", err)
		b.mu.Lock()
		b.lastErr = err
		b.mu.Unlock()
		return
	}

	b.mu.Lock()
	b.orders = models.CloneOrders(orders)
	b.lastErr = nil
	b.mu.Unlock()
	b.notify()
}

// Acknowledge applies the caller's own successful write to the book right
// away, so the order can be resolved before any push arrives. On live
// stores the next pushed snapshot replaces it.
func (b *OrderBook) Acknowledge(order models.Order) {
	b.mu.Lock()
	replaced := false
	for i := range b.orders {
		if b.orders[i].ID == order.ID {
			b.orders[i] = order.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		b.orders = append([]models.Order{order.Clone()}, b.orders...)
	}
	b.mu.Unlock()
	b.notify()
}

func (b *OrderBook) Find(orderID string) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, o := range b.orders {
		if o.ID == orderID {
			return o.Clone(), true
		}
	}
	return models.Order{}, false
}

// Orders returns a copy of the current snapshot in store order.
func (b *OrderBook) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return models.CloneOrders(b.orders)
}

// Err returns the last push failure, cleared by the next good snapshot.
func (b *OrderBook) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

func (b *OrderBook) Live() bool {
	return b.live
}

// Listen registers fn for every future snapshot and returns its
// deregistration. fn runs on whichever goroutine delivered the change.
func (b *OrderBook) Listen(fn func([]models.Order)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Close detaches the book from its store.
func (b *OrderBook) Close() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (b *OrderBook) notify() {
	b.mu.RLock()
	snapshot := models.CloneOrders(b.orders)
	listeners := make([]func([]models.Order), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(models.CloneOrders(snapshot))
	}
}
