// Package selection keeps one configuration session per mode in the store and
// drives the step flow between a mode's base page and its dimension steps.
package selection

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/events"
	"github.com/ashendes/wigshop/internal/metrics"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/pricing"
	"github.com/ashendes/wigshop/internal/routing"
	"github.com/ashendes/wigshop/internal/store"
)

type Mode = routing.Mode

const (
	Build     = routing.Build
	Edit      = routing.Edit
	Customize = routing.Customize
)

var ErrUnknownMode = routing.ErrUnknownMode

// Session is the active configuration of one mode together with its prices
type Session struct {
	Mode      Mode                       `json:"mode"`
	Ref       string                     `json:"ref,omitempty"`
	State     options.ConfigurationState `json:"state"`
	Breakdown pricing.Breakdown          `json:"breakdown"`
	Total     int                        `json:"total"`
	// Saved is false when no values existed and defaults were just written
	Saved bool `json:"saved"`
}

// ParentPath is the base page of the session's mode
func (s Session) ParentPath() string {
	return routing.ParentPath(s.Mode, s.Ref)
}

// priceDependents lists dimensions whose price also changes when the key dimension does
var priceDependents = map[options.Dimension][]options.Dimension{
	options.Length: {options.Color},
}

// Repository reads and writes sessions through a Store
type Repository struct {
	store      store.Store
	calculator *pricing.Calculator
	bus        *events.Bus
	mutex      sync.Mutex
}

func NewRepository(s store.Store, calc *pricing.Calculator, bus *events.Bus) *Repository {
	if calc == nil {
		calc = pricing.NewCalculator(nil)
	}
	return &Repository{store: s, calculator: calc, bus: bus}
}

// Load reads the session of mode m. With nothing saved yet it writes defaults
// with zero prices and returns them unsaved.
func (r *Repository) Load(ctx context.Context, m Mode) (Session, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.load(ctx, m)
}

func (r *Repository) load(ctx context.Context, m Mode) (Session, error) {
	if _, err := routing.ParseMode(string(m)); err != nil {
		return Session{}, err
	}
	sc := primaryScope(m)

	keys, err := r.store.Keys(ctx, sc.prefix())
	if err != nil {
		metrics.StoreErrors.WithLabelValues("keys").Inc()
		return Session{}, fmt.Errorf("load %s session: %w", m, err)
	}

	if len(keys) == 0 {
		session := Session{Mode: m, State: options.Default()}
		session.Total = pricing.Totals(session.Breakdown).Total

		if err := r.store.Batch(ctx, func(w store.Writer) error {
			writeSession(w, sc, session)
			return nil
		}); err != nil {
			metrics.StoreErrors.WithLabelValues("batch").Inc()
			return Session{}, fmt.Errorf("write %s defaults: %w", m, err)
		}

		metrics.SessionsLoaded.WithLabelValues(string(m), "true").Inc()
		log.WithField("mode", m).Info("No saved selections, defaults written")
		return session, nil
	}

	session := Session{Mode: m, Saved: true, State: options.Default()}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	for _, d := range options.Dimensions {
		if !present[sc.field(d)] {
			continue
		}
		value, _, err := r.store.Get(ctx, sc.field(d))
		if err != nil {
			metrics.StoreErrors.WithLabelValues("get").Inc()
			return Session{}, fmt.Errorf("load %s: %w", sc.field(d), err)
		}
		session.State.Assign(d, value)
	}

	repaired := make(map[options.Dimension]bool)
	for _, d := range session.State.Sanitize() {
		repaired[d] = true
		for _, dep := range priceDependents[d] {
			repaired[dep] = true
		}
		log.WithFields(log.Fields{
			"mode":      m,
			"dimension": d,
		}).Warn("Malformed saved selection, using default")
	}

	for _, d := range options.Dimensions {
		price, ok, err := r.storedPrice(ctx, sc, d, present)
		if err != nil {
			return Session{}, err
		}
		if !ok || repaired[d] {
			price = r.calculator.DimensionPrice(d, session.State)
		}
		session.Breakdown.Put(d, price)
	}

	if m.NeedsRef() {
		ref, _, err := r.store.Get(ctx, sc.ref())
		if err != nil {
			metrics.StoreErrors.WithLabelValues("get").Inc()
			return Session{}, fmt.Errorf("load %s: %w", sc.ref(), err)
		}
		session.Ref = ref
	}

	session.Total = pricing.Totals(session.Breakdown).Total
	metrics.SessionsLoaded.WithLabelValues(string(m), "false").Inc()
	return session, nil
}

// storedPrice reads the price a step saved. Cap size is never read back,
// its surcharge always follows the stored cap size.
func (r *Repository) storedPrice(ctx context.Context, sc scope, d options.Dimension, present map[string]bool) (int, bool, error) {
	if d == options.CapSize || !present[sc.price(d)] {
		return 0, false, nil
	}
	raw, _, err := r.store.Get(ctx, sc.price(d))
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return 0, false, fmt.Errorf("load %s: %w", sc.price(d), err)
	}
	price, err := strconv.Atoi(raw)
	if err != nil {
		log.WithFields(log.Fields{
			"key":   sc.price(d),
			"value": raw,
		}).Warn("Malformed saved price, recomputing")
		return 0, false, nil
	}
	return price, true, nil
}

// SetField applies one user selection in mode m and writes the field and its
// recomputed price to every namespace the mode mirrors into.
func (r *Repository) SetField(ctx context.Context, m Mode, d options.Dimension, value string) (Session, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session, err := r.load(ctx, m)
	if err != nil {
		return Session{}, err
	}
	if err := session.State.Apply(d, value); err != nil {
		return Session{}, err
	}

	changed := append([]options.Dimension{d}, priceDependents[d]...)
	for _, dim := range changed {
		session.Breakdown.Put(dim, r.calculator.DimensionPrice(dim, session.State))
	}
	session.Total = pricing.Totals(session.Breakdown).Total

	err = r.store.Batch(ctx, func(w store.Writer) error {
		for _, sc := range writeScopes(m) {
			w.Set(sc.field(d), session.State.Get(d))
			for _, dim := range changed {
				w.Set(sc.price(dim), strconv.Itoa(session.Breakdown.Get(dim)))
			}
		}
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("batch").Inc()
		return Session{}, fmt.Errorf("save %s %s: %w", m, d, err)
	}

	session.Saved = true
	r.publish(session, d)
	return session, nil
}

// Save flushes the whole session to every namespace its mode mirrors into
func (r *Repository) Save(ctx context.Context, session Session) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.save(ctx, session)
}

func (r *Repository) save(ctx context.Context, session Session) error {
	if _, err := routing.ParseMode(string(session.Mode)); err != nil {
		return err
	}
	err := r.store.Batch(ctx, func(w store.Writer) error {
		for _, sc := range writeScopes(session.Mode) {
			writeSession(w, sc, session)
		}
		if session.Mode.NeedsRef() {
			w.Set(primaryScope(session.Mode).ref(), session.Ref)
		}
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("batch").Inc()
		return fmt.Errorf("save %s session: %w", session.Mode, err)
	}
	return nil
}

// EnterStep flushes the session before handing out the step path, so the
// step reads what the base page showed.
func (r *Repository) EnterStep(ctx context.Context, session Session, d options.Dimension) (string, error) {
	if err := r.Save(ctx, session); err != nil {
		return "", err
	}
	return routing.StepPath(session.Mode, session.Ref, d), nil
}

// Return reloads the session when a step hands control back to its base page
func (r *Repository) Return(ctx context.Context, m Mode) (Session, error) {
	return r.Load(ctx, m)
}

// Begin seeds mode m from an existing configuration, replacing whatever that
// mode had in progress. A build in progress is stashed and comes back when the
// session is reset.
func (r *Repository) Begin(ctx context.Context, m Mode, ref string, state options.ConfigurationState) (Session, error) {
	if err := state.Validate(); err != nil {
		return Session{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.reset(ctx, m); err != nil {
		return Session{}, err
	}

	quote := r.calculator.Compute(state)
	session := Session{
		Mode:      m,
		Ref:       ref,
		State:     state.Clone(),
		Breakdown: quote.Breakdown,
		Total:     quote.Total,
		Saved:     true,
	}

	stash, err := r.stashBuild(ctx, m)
	if err != nil {
		return Session{}, err
	}
	sc := primaryScope(m)
	err = r.store.Batch(ctx, func(w store.Writer) error {
		for k, v := range stash {
			w.Set(k, v)
		}
		writeSession(w, sc, session)
		if m.NeedsRef() {
			w.Set(sc.ref(), ref)
		}
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("batch").Inc()
		return Session{}, fmt.Errorf("begin %s session: %w", m, err)
	}

	log.WithFields(log.Fields{
		"mode": m,
		"ref":  ref,
	}).Info("Configuration session started")
	r.publish(session, "")
	return session, nil
}

// BeginEdit reopens a cart item's configuration
func (r *Repository) BeginEdit(ctx context.Context, itemID string, state options.ConfigurationState) (Session, error) {
	return r.Begin(ctx, Edit, itemID, state)
}

// BeginCustomize starts from a preset's configuration
func (r *Repository) BeginCustomize(ctx context.Context, presetID string, state options.ConfigurationState) (Session, error) {
	return r.Begin(ctx, Customize, presetID, state)
}

// Reset clears the namespace mode m loads from; the next Load starts over with
// defaults. Resetting an edit or customize session also restores a stashed build.
func (r *Repository) Reset(ctx context.Context, m Mode) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.reset(ctx, m); err != nil {
		return err
	}
	r.publish(Session{Mode: m}, "")
	return nil
}

func (r *Repository) reset(ctx context.Context, m Mode) error {
	if _, err := routing.ParseMode(string(m)); err != nil {
		return err
	}
	sc := primaryScope(m)
	keys, err := r.store.Keys(ctx, sc.prefix())
	if err != nil {
		metrics.StoreErrors.WithLabelValues("keys").Inc()
		return fmt.Errorf("reset %s session: %w", m, err)
	}

	var stashed, mirrored []string
	if sc != scopeSelected {
		if stashed, err = r.store.Keys(ctx, scopeStash.prefix()); err != nil {
			metrics.StoreErrors.WithLabelValues("keys").Inc()
			return fmt.Errorf("reset %s session: %w", m, err)
		}
	}
	if len(stashed) > 0 {
		if mirrored, err = r.store.Keys(ctx, scopeSelected.prefix()); err != nil {
			metrics.StoreErrors.WithLabelValues("keys").Inc()
			return fmt.Errorf("reset %s session: %w", m, err)
		}
	}
	restore := make(map[string]string, len(stashed))
	for _, k := range stashed {
		if k == stashMarker {
			continue
		}
		v, _, err := r.store.Get(ctx, k)
		if err != nil {
			metrics.StoreErrors.WithLabelValues("get").Inc()
			return fmt.Errorf("reset %s session: %w", m, err)
		}
		restore[scopeStash.rename(k, scopeSelected)] = v
	}

	if len(keys) == 0 && len(stashed) == 0 {
		return nil
	}
	err = r.store.Batch(ctx, func(w store.Writer) error {
		for _, k := range keys {
			w.Remove(k)
		}
		for _, k := range stashed {
			w.Remove(k)
		}
		for _, k := range mirrored {
			if _, ok := restore[k]; !ok {
				w.Remove(k)
			}
		}
		for k, v := range restore {
			w.Set(k, v)
		}
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("batch").Inc()
		return fmt.Errorf("reset %s session: %w", m, err)
	}
	return nil
}

// stashBuild returns the writes that set the build namespace aside before mode m
// starts mirroring into it. A stash already held is kept as is.
func (r *Repository) stashBuild(ctx context.Context, m Mode) (map[string]string, error) {
	if primaryScope(m) == scopeSelected {
		return nil, nil
	}
	_, held, err := r.store.Get(ctx, stashMarker)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("stash build session: %w", err)
	}
	if held {
		return nil, nil
	}

	keys, err := r.store.Keys(ctx, scopeSelected.prefix())
	if err != nil {
		metrics.StoreErrors.WithLabelValues("keys").Inc()
		return nil, fmt.Errorf("stash build session: %w", err)
	}
	out := map[string]string{stashMarker: "1"}
	for _, k := range keys {
		v, _, err := r.store.Get(ctx, k)
		if err != nil {
			metrics.StoreErrors.WithLabelValues("get").Inc()
			return nil, fmt.Errorf("stash build session: %w", err)
		}
		out[scopeSelected.rename(k, scopeStash)] = v
	}
	return out, nil
}

func (r *Repository) publish(session Session, d options.Dimension) {
	if r.bus == nil {
		return
	}
	data := map[string]any{
		"mode":  session.Mode,
		"total": session.Total,
	}
	if session.Ref != "" {
		data["ref"] = session.Ref
	}
	if d != "" {
		data["dimension"] = d
	}
	r.bus.Publish(events.Event{Topic: events.SessionChanged, Data: data})
}

func writeSession(w store.Writer, sc scope, session Session) {
	for _, d := range options.Dimensions {
		w.Set(sc.field(d), session.State.Get(d))
		w.Set(sc.price(d), strconv.Itoa(session.Breakdown.Get(d)))
	}
}
