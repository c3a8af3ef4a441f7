package inventory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/xelth-com/eckslots/internal/clock"
	"github.com/xelth-com/eckslots/internal/layout"
	"github.com/xelth-com/eckslots/internal/models"
)

// EventType names what changed in an Event.
type EventType string

const (
	EventLaneUpdated     EventType = "LANE_UPDATED"
	EventSettingsUpdated EventType = "SETTINGS_UPDATED"
)

// Event is published to listeners after a change has been saved.
type Event struct {
	Type      EventType `json:"type"`
	Lane      string    `json:"lane,omitempty"`
	Operation string    `json:"operation"`
	Count     int       `json:"count"`
	Instance  string    `json:"instance,omitempty"`
}

// Service owns the in-memory inventory table and its Store.
//
// Each mutation runs against a copy of the table. The copy replaces the
// current table only once the store has saved it; on a save error the
// in-memory state stays as it was before the call and the error wraps
// ErrNotSaved. Calls are serialised within the process.
type Service struct {
	mu        sync.Mutex
	store     Store
	table     *Table
	clock     clock.Clock
	alertDays int
	defaults  models.WarehouseSettings
	instance  string
	listeners []func(Event)
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithExpiryAlertDays sets the FEFO alert window.
func WithExpiryAlertDays(days int) Option {
	return func(s *Service) {
		if days >= 0 {
			s.alertDays = days
		}
	}
}

// WithInstanceID names this process in the events it publishes.
func WithInstanceID(id string) Option {
	return func(s *Service) { s.instance = id }
}

// WithDefaultSettings supplies settings used when the store has none.
func WithDefaultSettings(settings models.WarehouseSettings) Option {
	return func(s *Service) { s.defaults = settings }
}

// NewService loads the table from store and returns a ready service.
func NewService(ctx context.Context, store Store, opts ...Option) (*Service, error) {
	s := &Service{
		store:     store,
		clock:     clock.RealClock{},
		alertDays: DefaultExpiryAlertDays,
	}
	for _, opt := range opts {
		opt(s)
	}

	t, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if t == nil {
		t = &Table{}
	}
	if t.Settings.WarehouseCapacity <= 0 {
		t.Settings.WarehouseCapacity = s.defaults.WarehouseCapacity
	}
	if t.Settings.DefaultCapacity <= 0 {
		t.Settings.DefaultCapacity = s.defaults.DefaultCapacity
	}
	t.Normalize()
	s.table = t

	log.Printf("📦 Inventory loaded: %d lanes, %d cells", len(t.Lanes), len(t.Cells))
	return s, nil
}

// OnChange registers fn to be called after every saved change.
func (s *Service) OnChange(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Now is the service's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// AlertDays is the FEFO window in use.
func (s *Service) AlertDays() int {
	return s.alertDays
}

// Snapshot returns a copy of the current table.
func (s *Service) Snapshot() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Clone()
}

// LaneMap is a lane's configuration with its annotated cells.
type LaneMap struct {
	Lane   string            `json:"lane"`
	Config models.LaneConfig `json:"config"`
	Cells  []CellView        `json:"cells"`
}

// LaneMap returns the annotated cells of a lane, building the lane on first use.
func (s *Service) LaneMap(ctx context.Context, lane string) (LaneMap, error) {
	var m LaneMap
	err := s.read(ctx, lane, func(t *Table, name string) {
		cfg, _ := t.LaneConfig(name)
		m = LaneMap{
			Lane:   name,
			Config: cfg,
			Cells:  t.Annotate(name, s.clock.Now(), s.alertDays),
		}
	})
	return m, err
}

// Report returns the FEFO compliance rows of a lane.
func (s *Service) Report(ctx context.Context, lane string) ([]ReportRow, error) {
	var rows []ReportRow
	err := s.read(ctx, lane, func(t *Table, name string) {
		rows = t.Report(name, s.clock.Now(), s.alertDays)
	})
	return rows, err
}

// Dashboard returns building-wide occupancy.
func (s *Service) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Dashboard()
}

// Settings returns the current warehouse settings.
func (s *Service) Settings() models.WarehouseSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Settings
}

// LaneListing describes one street and, once built, its configuration.
type LaneListing struct {
	Lane   string             `json:"lane"`
	Built  bool               `json:"built"`
	Config *models.LaneConfig `json:"config,omitempty"`
}

// Lanes lists all 52 streets.
func (s *Service) Lanes() []LaneListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := LaneNames()
	out := make([]LaneListing, 0, len(names))
	for _, name := range names {
		l := LaneListing{Lane: name}
		if cfg, ok := s.table.LaneConfig(name); ok {
			l.Built = s.table.HasLane(name)
			l.Config = &cfg
		}
		out = append(out, l)
	}
	return out
}

// RebuildLane regenerates a lane with new geometry. A lane still holding
// pallets is refused with ErrLaneOccupied unless force is set, in which case
// its contents are discarded.
func (s *Service) RebuildLane(ctx context.Context, lane string, capacity, maxHeight int, force bool) error {
	if err := layout.Validate(capacity, maxHeight); err != nil {
		return err
	}
	_, err := s.mutate(ctx, lane, "rebuild", func(t *Table, name string) (int, error) {
		if n := t.LaneOccupied(name); n > 0 && !force {
			return 0, fmt.Errorf("%w: %s has %d pallets", ErrLaneOccupied, name, n)
		}
		if err := t.RebuildLane(name, capacity, maxHeight); err != nil {
			return 0, err
		}
		cfg, _ := t.LaneConfig(name)
		return cfg.Capacity, nil
	})
	return err
}

// Intake stores quantity pallets of a lot in the lane and returns how many fit.
func (s *Service) Intake(ctx context.Context, lane, lot string, expiry *time.Time, quantity int) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return s.mutate(ctx, lane, "intake", func(t *Table, name string) (int, error) {
		return t.Intake(name, lot, expiry, quantity, s.clock.Now())
	})
}

// Reserve marks available pallets for a client and returns how many were reserved.
func (s *Service) Reserve(ctx context.Context, lane, client string, quantity int) (int, error) {
	if strings.TrimSpace(client) == "" {
		return 0, ErrEmptyClient
	}
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return s.mutate(ctx, lane, "reserve", func(t *Table, name string) (int, error) {
		return t.Reserve(name, client, quantity)
	})
}

// Dispatch removes exactly quantity pallets or nothing.
func (s *Service) Dispatch(ctx context.Context, lane string, quantity int, mode DispatchMode) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return s.mutate(ctx, lane, "dispatch", func(t *Table, name string) (int, error) {
		return t.Dispatch(name, quantity, mode)
	})
}

// UpdateSettings changes the building capacity and the capacity given to
// lanes created on first use. Zero leaves a value unchanged.
func (s *Service) UpdateSettings(ctx context.Context, warehouseCapacity, defaultCapacity int) error {
	if warehouseCapacity < 0 {
		return fmt.Errorf("%w: warehouse capacity %d", ErrInvalidSettings, warehouseCapacity)
	}
	if defaultCapacity != 0 && (defaultCapacity < layout.MinCapacity || defaultCapacity > layout.MaxCapacity) {
		return fmt.Errorf("%w: default capacity %d", ErrInvalidSettings, defaultCapacity)
	}

	s.mu.Lock()
	next := s.table.Clone()
	if warehouseCapacity > 0 {
		next.Settings.WarehouseCapacity = warehouseCapacity
	}
	if defaultCapacity > 0 {
		next.Settings.DefaultCapacity = defaultCapacity
	}
	ev := Event{Type: EventSettingsUpdated, Operation: "settings"}
	return s.commit(ctx, next, ev)
}

// Sync saves the current table again, e.g. after the backend was restored.
func (s *Service) Sync(ctx context.Context) error {
	s.mu.Lock()
	next := s.table.Clone()
	return s.commit(ctx, next, Event{Type: EventSettingsUpdated, Operation: "sync"})
}

// read runs fn against the current table, building the lane first if needed.
func (s *Service) read(ctx context.Context, lane string, fn func(t *Table, name string)) error {
	name, err := ResolveLane(lane)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.table.HasLane(name) {
		defer s.mu.Unlock()
		fn(s.table, name)
		return nil
	}

	next := s.table.Clone()
	if _, err := next.EnsureLane(name); err != nil {
		s.mu.Unlock()
		return err
	}
	fn(next, name)
	return s.commit(ctx, next, Event{Type: EventLaneUpdated, Lane: name, Operation: "create"})
}

// mutate applies op to a copy of the table and commits it.
func (s *Service) mutate(ctx context.Context, lane, operation string, op func(t *Table, name string) (int, error)) (int, error) {
	name, err := ResolveLane(lane)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	next := s.table.Clone()
	if _, err := next.EnsureLane(name); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	n, err := op(next, name)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}

	ev := Event{Type: EventLaneUpdated, Lane: name, Operation: operation, Count: n}
	if err := s.commit(ctx, next, ev); err != nil {
		return 0, err
	}
	return n, nil
}

// commit saves next and swaps it in. It must be called with s.mu held and
// releases it before notifying listeners.
func (s *Service) commit(ctx context.Context, next *Table, ev Event) error {
	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		log.Printf("❌ Save failed after %s on %q: %v", ev.Operation, ev.Lane, err)
		return fmt.Errorf("%w: %v", ErrNotSaved, err)
	}
	s.table = next
	ev.Instance = s.instance
	listeners := append([]func(Event){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
	return nil
}
