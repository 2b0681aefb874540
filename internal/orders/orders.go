// Package orders keeps the log of checked-out carts and summarizes it for the back office.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/store"
)

const ordersKey = "orders"

// Line is one cart item as it was checked out
type Line struct {
	ItemID   string                     `json:"itemId"`
	State    options.ConfigurationState `json:"state"`
	Summary  string                     `json:"summary"`
	Price    int                        `json:"price"`
	Quantity int                        `json:"quantity"`
}

// Order is a checked-out cart. Totals are whole US dollars.
type Order struct {
	ID           string    `json:"id"`
	Lines        []Line    `json:"lines"`
	ItemCount    int       `json:"itemCount"`
	TotalUSD     int       `json:"totalUsd"`
	Currency     string    `json:"currency"`
	DisplayTotal string    `json:"displayTotal"`
	PlacedAt     time.Time `json:"placedAt"`
}

// Log appends orders to one JSON list in the store
type Log struct {
	store store.Store
	mutex sync.Mutex
}

func NewLog(s store.Store) *Log {
	return &Log{store: s}
}

func (l *Log) Append(ctx context.Context, o Order) error {
	return l.AppendWith(ctx, o, nil)
}

// AppendWith records o and applies the writes of fn in the same batch, so the
// order and whatever it settles land together or not at all.
func (l *Log) AppendWith(ctx context.Context, o Order, fn func(w store.Writer) error) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	list, err := l.read(ctx)
	if err != nil {
		return err
	}
	list = append(list, o)

	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	err = l.store.Batch(ctx, func(w store.Writer) error {
		w.Set(ordersKey, string(raw))
		if fn != nil {
			return fn(w)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	return nil
}

// List returns every order, oldest first
func (l *Log) List(ctx context.Context) ([]Order, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.read(ctx)
}

func (l *Log) read(ctx context.Context) ([]Order, error) {
	raw, ok, err := l.store.Get(ctx, ordersKey)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if !ok || raw == "" {
		return []Order{}, nil
	}

	var list []Order
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.WithError(err).Error("Saved order log is not valid JSON, treating as empty")
		return []Order{}, nil
	}
	return list, nil
}

// Count is one value and how many units used it
type Count struct {
	Value string `json:"value"`
	Units int    `json:"units"`
}

// Stats summarizes the order log for the dashboard
type Stats struct {
	Orders       int     `json:"orders"`
	RevenueUSD   int     `json:"revenueUsd"`
	AverageOrder float64 `json:"averageOrder"`
	Units        int     `json:"units"`
	TopColors    []Count `json:"topColors"`
	TopLengths   []Count `json:"topLengths"`
}

// Summarize computes dashboard figures; top lists hold at most top entries
func Summarize(list []Order, top int) Stats {
	stats := Stats{Orders: len(list)}
	colors := map[string]int{}
	lengths := map[string]int{}

	for _, o := range list {
		stats.RevenueUSD += o.TotalUSD
		for _, line := range o.Lines {
			stats.Units += line.Quantity
			colors[line.State.Color] += line.Quantity
			lengths[line.State.Length] += line.Quantity
		}
	}
	if stats.Orders > 0 {
		stats.AverageOrder = float64(stats.RevenueUSD) / float64(stats.Orders)
	}
	stats.TopColors = ranked(colors, top)
	stats.TopLengths = ranked(lengths, top)
	return stats
}

func ranked(counts map[string]int, top int) []Count {
	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, Units: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].Value < out[j].Value
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
