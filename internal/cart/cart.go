// Package cart aggregates priced configurations into the shopping cart.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/currency"
	"github.com/ashendes/wigshop/internal/events"
	"github.com/ashendes/wigshop/internal/metrics"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/orders"
	"github.com/ashendes/wigshop/internal/pricing"
	"github.com/ashendes/wigshop/internal/store"
)

const (
	itemsKey = "cart"
	countKey = "cartCount"
)

var (
	ErrItemNotFound = errors.New("cart item not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidPrice = errors.New("price must not be negative")
)

// Item is a finalized configuration. Price is frozen when the item is added
// or edited and is never recomputed from current option prices.
type Item struct {
	ID        string                     `json:"id"`
	State     options.ConfigurationState `json:"state"`
	Price     int                        `json:"price"`
	Quantity  int                        `json:"quantity"`
	Summary   string                     `json:"summary"`
	PresetID  string                     `json:"presetId,omitempty"`
	AddedAt   time.Time                  `json:"addedAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// Snapshot is the cart at one point in time
type Snapshot struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}

// Cart persists items as one JSON list plus a running count
type Cart struct {
	store  store.Store
	bus    *events.Bus
	orders *orders.Log
	mutex  sync.Mutex
	now    func() time.Time
}

func New(s store.Store, bus *events.Bus, orderLog *orders.Log) *Cart {
	return &Cart{store: s, bus: bus, orders: orderLog, now: time.Now}
}

// Add appends a new item with quantity 1
func (c *Cart) Add(ctx context.Context, state options.ConfigurationState, price int) (Item, error) {
	return c.add(ctx, state, price, "")
}

// AddPreset appends an item that started from a catalogue preset
func (c *Cart) AddPreset(ctx context.Context, presetID string, state options.ConfigurationState, price int) (Item, error) {
	return c.add(ctx, state, price, presetID)
}

func (c *Cart) add(ctx context.Context, state options.ConfigurationState, price int, presetID string) (Item, error) {
	state = state.Clone()
	state.Normalize()
	if err := state.Validate(); err != nil {
		return Item{}, err
	}
	if price < 0 {
		return Item{}, ErrInvalidPrice
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	items, err := c.read(ctx)
	if err != nil {
		return Item{}, err
	}

	now := c.now()
	item := Item{
		ID:        uuid.New().String(),
		State:     state.Clone(),
		Price:     price,
		Quantity:  1,
		Summary:   pricing.Summary(state),
		PresetID:  presetID,
		AddedAt:   now,
		UpdatedAt: now,
	}
	items = append(items, item)

	if err := c.persist(ctx, items); err != nil {
		return Item{}, err
	}

	metrics.CartItemsTotal.WithLabelValues("add").Inc()
	log.WithFields(log.Fields{
		"item_id": item.ID,
		"price":   item.Price,
		"preset":  presetID,
	}).Info("Item added to cart")
	return item, nil
}

// Remove drops an item. An unknown id changes nothing and broadcasts nothing.
func (c *Cart) Remove(ctx context.Context, id string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	items, err := c.read(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return false, nil
	}
	items = append(items[:i], items[i+1:]...)

	if err := c.persist(ctx, items); err != nil {
		return false, err
	}

	metrics.CartItemsTotal.WithLabelValues("remove").Inc()
	log.WithField("item_id", id).Info("Item removed from cart")
	return true, nil
}

// Update replaces an item's configuration and price in place, keeping its
// id, quantity, preset and add time.
func (c *Cart) Update(ctx context.Context, id string, state options.ConfigurationState, price int) (Item, error) {
	state = state.Clone()
	state.Normalize()
	if err := state.Validate(); err != nil {
		return Item{}, err
	}
	if price < 0 {
		return Item{}, ErrInvalidPrice
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	items, err := c.read(ctx)
	if err != nil {
		return Item{}, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return Item{}, ErrItemNotFound
	}

	items[i].State = state.Clone()
	items[i].Price = price
	items[i].Summary = pricing.Summary(state)
	items[i].UpdatedAt = c.now()

	if err := c.persist(ctx, items); err != nil {
		return Item{}, err
	}

	metrics.CartItemsTotal.WithLabelValues("update").Inc()
	log.WithFields(log.Fields{
		"item_id": id,
		"price":   price,
	}).Info("Cart item updated")
	return items[i], nil
}

// SetQuantity changes how many units of an item are ordered; zero or less removes it
func (c *Cart) SetQuantity(ctx context.Context, id string, quantity int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	items, err := c.read(ctx)
	if err != nil {
		return err
	}
	i := indexOf(items, id)
	if i < 0 {
		return ErrItemNotFound
	}

	op := "quantity"
	if quantity <= 0 {
		items = append(items[:i], items[i+1:]...)
		op = "remove"
	} else {
		items[i].Quantity = quantity
		items[i].UpdatedAt = c.now()
	}

	if err := c.persist(ctx, items); err != nil {
		return err
	}
	metrics.CartItemsTotal.WithLabelValues(op).Inc()
	return nil
}

// Items returns the cart in insertion order
func (c *Cart) Items(ctx context.Context) ([]Item, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.read(ctx)
}

// Get returns one item
func (c *Cart) Get(ctx context.Context, id string) (Item, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return Item{}, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return Item{}, ErrItemNotFound
}

// Snapshot returns items, count and total read together
func (c *Cart) Snapshot(ctx context.Context) (Snapshot, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(items), nil
}

// Count is the sum of item quantities
func (c *Cart) Count(ctx context.Context) (int, error) {
	s, err := c.Snapshot(ctx)
	return s.Count, err
}

// Total sums stored price times quantity
func (c *Cart) Total(ctx context.Context) (int, error) {
	s, err := c.Snapshot(ctx)
	return s.Total, err
}

// Contains reports whether a configuration equal to state is already in the cart
func (c *Cart) Contains(ctx context.Context, state options.ConfigurationState) (bool, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.State.Equal(state) {
			return true, nil
		}
	}
	return false, nil
}

// Clear empties the cart
func (c *Cart) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.persist(ctx, []Item{}); err != nil {
		return err
	}
	metrics.CartItemsTotal.WithLabelValues("clear").Inc()
	return nil
}

// Checkout records the cart as an order and empties it. The order keeps USD
// totals; code only picks the display currency.
func (c *Cart) Checkout(ctx context.Context, code string) (orders.Order, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	items, err := c.read(ctx)
	if err != nil {
		return orders.Order{}, err
	}
	if len(items) == 0 {
		metrics.OrdersTotal.WithLabelValues("rejected").Inc()
		return orders.Order{}, ErrEmptyCart
	}

	snap := snapshotOf(items)
	cur, _ := currency.Lookup(code)
	order := orders.Order{
		ID:           uuid.New().String(),
		Lines:        make([]orders.Line, 0, len(items)),
		ItemCount:    snap.Count,
		TotalUSD:     snap.Total,
		Currency:     cur.Code,
		DisplayTotal: currency.Format(snap.Total, cur.Code),
		PlacedAt:     c.now(),
	}
	for _, item := range items {
		order.Lines = append(order.Lines, orders.Line{
			ItemID:   item.ID,
			State:    item.State,
			Summary:  item.Summary,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	empty := []Item{}
	if c.orders != nil {
		err = c.orders.AppendWith(ctx, order, func(w store.Writer) error {
			return stage(w, empty)
		})
	} else if err = c.store.Batch(ctx, func(w store.Writer) error {
		return stage(w, empty)
	}); err != nil {
		err = fmt.Errorf("save cart: %w", err)
	}
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		metrics.StoreErrors.WithLabelValues("batch").Inc()
		return orders.Order{}, err
	}
	c.notify(empty)

	metrics.OrdersTotal.WithLabelValues("completed").Inc()
	log.WithFields(log.Fields{
		"order_id": order.ID,
		"items":    order.ItemCount,
		"total":    order.TotalUSD,
		"currency": order.Currency,
	}).Info("Checkout completed")
	return order, nil
}

// read parses the stored list; a value that does not parse is an empty cart
func (c *Cart) read(ctx context.Context) ([]Item, error) {
	raw, ok, err := c.store.Get(ctx, itemsKey)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok || raw == "" {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.WithError(err).Error("Saved cart is not valid JSON, treating as empty")
		return []Item{}, nil
	}
	for i := range items {
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
		}
	}
	return items, nil
}

// persist writes list and count together, then tells listeners
func (c *Cart) persist(ctx context.Context, items []Item) error {
	err := c.store.Batch(ctx, func(w store.Writer) error {
		return stage(w, items)
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("batch").Inc()
		return fmt.Errorf("save cart: %w", err)
	}
	c.notify(items)
	return nil
}

// stage adds the writes that store items to w
func stage(w store.Writer, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	w.Set(itemsKey, string(raw))
	w.Set(countKey, strconv.Itoa(snapshotOf(items).Count))
	return nil
}

func (c *Cart) notify(items []Item) {
	snap := snapshotOf(items)
	metrics.CartValue.Set(float64(snap.Total))
	if c.bus == nil {
		return
	}
	c.bus.Publish(events.Event{
		Topic: events.CartChanged,
		Data:  map[string]any{"count": snap.Count, "total": snap.Total},
	})
	c.bus.Publish(events.Event{
		Topic: events.CartCountChanged,
		Data:  map[string]any{"count": snap.Count},
	})
}

func snapshotOf(items []Item) Snapshot {
	s := Snapshot{Items: items}
	for _, item := range items {
		s.Count += item.Quantity
		s.Total += item.Price * item.Quantity
	}
	return s
}

func indexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
