package service

import (
	"sync"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// CartSubscriber is called with a fresh snapshot after every cart mutation.
type CartSubscriber func(cart model.Cart)

type subscription struct {
	id uint64
	fn CartSubscriber
}

// CartOption configures a CartManager.
type CartOption func(*CartManager)

// WithMaxQuantity caps the quantity of a single line, merges included.
// Zero leaves lines unbounded.
func WithMaxQuantity(n int) CartOption {
	return func(m *CartManager) {
		if n > 0 {
			m.maxQuantity = n
		}
	}
}

// WithClock overrides the time source used for Cart.UpdatedAt.
func WithClock(now func() time.Time) CartOption {
	return func(m *CartManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithSubscriber registers fn before the manager is handed out.
func WithSubscriber(fn CartSubscriber) CartOption {
	return func(m *CartManager) {
		m.subscribeLocked(fn)
	}
}

// CartManager owns one cart. It keeps the total in step with the lines and
// fans every change out to its subscribers.
//
// Subscribers run on the calling goroutine after the cart lock is released,
// in registration order. Snapshots delivered from concurrent callers may
// arrive out of order; compare Cart.Version to discard stale ones.
type CartManager struct {
	mu        sync.Mutex
	items     []model.CartItem
	total     decimal.Decimal
	version   uint64
	updatedAt time.Time

	subMu  sync.Mutex
	subs   []subscription
	nextID uint64

	now         func() time.Time
	maxQuantity int
}

// NewCartManager creates an empty cart.
func NewCartManager(opts ...CartOption) *CartManager {
	m := &CartManager{
		total: decimal.Zero,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.updatedAt = m.now()
	return m
}

// AddItem adds quantity units of product with the given variant selection.
//
// A line with the same product id, type and size absorbs the quantity and
// keeps the price it was first added at. Otherwise a new line is appended,
// priced by UnitPrice. A line that would exceed the configured maximum is
// rejected with ErrQuantityTooLarge and the cart is left as it was.
func (m *CartManager) AddItem(product *model.Product, quantity int, productType model.ProductType, posterSize string) error {
	switch {
	case product == nil:
		return ErrNilProduct
	case product.ID == "":
		return ErrProductIDRequired
	case quantity <= 0:
		return ErrInvalidQuantity
	}

	key := model.LineKey{ProductID: product.ID, ProductType: productType, PosterSize: posterSize}

	m.mu.Lock()
	i := m.indexOfLine(key)
	lineQuantity := quantity
	if i >= 0 {
		lineQuantity += m.items[i].Quantity
	}
	if m.maxQuantity > 0 && lineQuantity > m.maxQuantity {
		m.mu.Unlock()
		return ErrQuantityTooLarge
	}
	if i >= 0 {
		m.items[i].Quantity = lineQuantity
	} else {
		m.items = append(m.items, model.CartItem{
			Product:             product,
			Quantity:            quantity,
			SelectedProductType: productType,
			SelectedPosterSize:  posterSize,
			SelectedPrice:       UnitPrice(product, productType, posterSize),
		})
	}
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.notify(snapshot)
	return nil
}

// UpdateQuantity sets the quantity of the first line holding productID.
// A quantity of zero or less removes that line. It reports whether a line
// matched; a miss changes nothing and notifies no one.
func (m *CartManager) UpdateQuantity(productID string, quantity int) bool {
	m.mu.Lock()
	i := m.indexOfProduct(productID)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	snapshot := m.setQuantityLocked(i, quantity)
	m.mu.Unlock()

	m.notify(snapshot)
	return true
}

// UpdateLine is UpdateQuantity for one exact line.
func (m *CartManager) UpdateLine(key model.LineKey, quantity int) bool {
	m.mu.Lock()
	i := m.indexOfLine(key)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	snapshot := m.setQuantityLocked(i, quantity)
	m.mu.Unlock()

	m.notify(snapshot)
	return true
}

// RemoveItem removes every line holding productID, whatever its variant, and
// returns how many lines went. Subscribers are notified even when nothing matched.
func (m *CartManager) RemoveItem(productID string) int {
	m.mu.Lock()
	kept := m.items[:0]
	removed := 0
	for _, item := range m.items {
		if item.Product.ID == productID {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	clearTail(m.items, len(kept))
	m.items = kept
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.notify(snapshot)
	return removed
}

// RemoveLine removes one exact line. A miss is a silent no-op.
func (m *CartManager) RemoveLine(key model.LineKey) bool {
	m.mu.Lock()
	i := m.indexOfLine(key)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.removeAtLocked(i)
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.notify(snapshot)
	return true
}

// Clear empties the cart.
func (m *CartManager) Clear() {
	m.mu.Lock()
	m.items = nil
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.notify(snapshot)
}

// ClearIfVersion empties the cart only if it is still at version.
func (m *CartManager) ClearIfVersion(version uint64) bool {
	m.mu.Lock()
	if m.version != version {
		m.mu.Unlock()
		return false
	}
	m.items = nil
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.notify(snapshot)
	return true
}

// Cart returns a snapshot. Its item slice is a copy; products are shared.
func (m *CartManager) Cart() model.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// ItemCount returns the number of units in the cart, not the number of lines.
func (m *CartManager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, item := range m.items {
		n += item.Quantity
	}
	return n
}

// Subscribe registers fn and returns a function that removes this
// registration only. Registering the same function twice yields two
// independent subscriptions. The returned function is safe to call more than once.
func (m *CartManager) Subscribe(fn CartSubscriber) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.subscribeLocked(fn)
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { m.unsubscribe(id) })
	}
}

// SubscriberCount returns the number of live subscriptions.
func (m *CartManager) SubscriberCount() int {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	return len(m.subs)
}

func (m *CartManager) subscribeLocked(fn CartSubscriber) uint64 {
	m.nextID++
	m.subs = append(m.subs, subscription{id: m.nextID, fn: fn})
	return m.nextID
}

func (m *CartManager) unsubscribe(id uint64) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for i, s := range m.subs {
		if s.id == id {
			m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
			return
		}
	}
}

func (m *CartManager) notify(snapshot model.Cart) {
	m.subMu.Lock()
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.subMu.Unlock()

	for _, s := range subs {
		s.fn(snapshot.Clone())
	}
}

func (m *CartManager) setQuantityLocked(i, quantity int) model.Cart {
	if quantity <= 0 {
		m.removeAtLocked(i)
	} else {
		m.items[i].Quantity = quantity
	}
	return m.commitLocked()
}

func (m *CartManager) removeAtLocked(i int) {
	copy(m.items[i:], m.items[i+1:])
	clearTail(m.items, len(m.items)-1)
	m.items = m.items[:len(m.items)-1]
}

// commitLocked recomputes the total, bumps the version and returns a snapshot.
func (m *CartManager) commitLocked() model.Cart {
	m.total = model.ComputeTotal(m.items)
	m.version++
	m.updatedAt = m.now()
	return m.snapshotLocked()
}

func (m *CartManager) snapshotLocked() model.Cart {
	items := make([]model.CartItem, len(m.items))
	copy(items, m.items)
	return model.Cart{
		Items:     items,
		Total:     m.total,
		Version:   m.version,
		UpdatedAt: m.updatedAt,
	}
}

func (m *CartManager) indexOfLine(key model.LineKey) int {
	for i, item := range m.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (m *CartManager) indexOfProduct(productID string) int {
	for i, item := range m.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// clearTail zeroes items[from:] so dropped lines release their products.
func clearTail(items []model.CartItem, from int) {
	for i := from; i < len(items); i++ {
		items[i] = model.CartItem{}
	}
}
