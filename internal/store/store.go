// Package store provides the flat string-keyed persistence used for selections,
// the cart and the order log.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/config"
)

// Store is a string-only key-value store. A missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Batch applies every write made through w, or none of them
	Batch(ctx context.Context, fn func(w Writer) error) error
	// Subscribe delivers changes to keys under prefix until cancel is called.
	// Delivery is best effort: a full subscriber misses changes.
	Subscribe(prefix string) (<-chan Change, func())
	Close() error
}

// Writer collects the writes of one batch
type Writer interface {
	Set(key, value string)
	Remove(key string)
}

// Change describes one applied write
type Change struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// Driver names accepted by configuration
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Open builds the store selected by configuration
func Open(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		return NewMemStore()
	case DriverMySQL, DriverPostgres:
		return OpenSQL(ctx, strings.ToLower(cfg.Driver), cfg.DSN, cfg.MaxOpenConns)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

type batch struct {
	changes []Change
}

func (b *batch) Set(key, value string) {
	b.changes = append(b.changes, Change{Key: key, Value: value})
}

func (b *batch) Remove(key string) {
	b.changes = append(b.changes, Change{Key: key, Removed: true})
}

type subscriber struct {
	prefix string
	ch     chan Change
}

// notifier fans applied changes out to prefix subscribers
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

const subscriberBuffer = 64

func (n *notifier) subscribe(prefix string) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[int]*subscriber)
	}
	id := n.nextID
	n.nextID++
	sub := &subscriber{prefix: prefix, ch: make(chan Change, subscriberBuffer)}
	n.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if _, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(sub.ch)
			}
		})
	}
}

func (n *notifier) notify(changes ...Change) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, c := range changes {
		for _, sub := range n.subs {
			if !strings.HasPrefix(c.Key, sub.prefix) {
				continue
			}
			select {
			case sub.ch <- c:
			default:
				log.WithField("key", c.Key).Debug("store subscriber full, change dropped")
			}
		}
	}
}

func (n *notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, sub := range n.subs {
		close(sub.ch)
		delete(n.subs, id)
	}
}
