package repair

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fleetcore/internal/refresh"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CarDirectory resolves car selections.
// The car registry satisfies this interface.
type CarDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Broadcaster publishes change notifications after successful mutations.
type Broadcaster interface {
	Publish(ctx context.Context, topic refresh.Topic)
}

// noopBroadcaster drops notifications; used until a real one is set.
type noopBroadcaster struct{}

func (noopBroadcaster) Publish(context.Context, refresh.Topic) {}

// Registry provides repair record management with caching and thread
// safety. Cached rows carry the joined car label, so the registry
// subscribes to car changes and reloads when one arrives.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cars    CarDirectory
	cache   map[int64]*Repair
	cacheMu sync.RWMutex
	logger  Logger
	bcast   Broadcaster
}

// NewRegistry creates a new repair registry.
func NewRegistry(repo Repository, cars CarDirectory) *Registry {
	return &Registry{
		repo:   repo,
		cars:   cars,
		cache:  make(map[int64]*Repair),
		logger: noopLogger{},
		bcast:  noopBroadcaster{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetBroadcaster sets the broadcaster notified after mutations.
func (r *Registry) SetBroadcaster(b Broadcaster) {
	r.bcast = b
}

// RefreshCache reloads all repairs from the repository.
func (r *Registry) RefreshCache(ctx context.Context) error {
	repairs, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading repairs: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[int64]*Repair, len(repairs))
	for i := range repairs {
		rec := repairs[i]
		r.cache[rec.ID] = &rec
	}

	r.logger.Info("repair cache refreshed", "count", len(repairs))
	return nil
}

// Refresh implements refresh.Subscriber. Cached rows embed car labels,
// so a car change forces a full reload.
func (r *Registry) Refresh(ctx context.Context) error {
	return r.RefreshCache(ctx)
}

// Create validates the payload, persists a new repair, patches the
// cache and broadcasts the change.
func (r *Registry) Create(ctx context.Context, p Params) (*Repair, error) {
	cents, date, err := r.validateForWrite(ctx, p)
	if err != nil {
		return nil, err
	}

	rec := &Repair{
		CarID:       p.CarID,
		Description: strings.TrimSpace(p.Description),
		CostCents:   cents,
		Date:        date,
	}

	if err := r.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	// Re-read the canonical row: timestamps and car label come from the store.
	canonical, err := r.repo.GetByID(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	r.patchInsert(canonical)
	r.bcast.Publish(ctx, refresh.TopicRepairs)

	r.logger.Info("repair created", "id", canonical.ID, "car_id", canonical.CarID)
	return canonical, nil
}

// Update validates the payload and persists changes to the selected repair.
func (r *Registry) Update(ctx context.Context, id int64, p Params) (*Repair, error) {
	if id <= 0 {
		return nil, ErrNoSelection
	}

	if _, err := r.GetRepair(ctx, id); err != nil {
		return nil, err
	}

	cents, date, err := r.validateForWrite(ctx, p)
	if err != nil {
		return nil, err
	}

	rec := &Repair{
		ID:          id,
		CarID:       p.CarID,
		Description: strings.TrimSpace(p.Description),
		CostCents:   cents,
		Date:        date,
	}

	if err := r.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	canonical, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.patchInsert(canonical)
	r.bcast.Publish(ctx, refresh.TopicRepairs)

	r.logger.Info("repair updated", "id", id)
	return canonical, nil
}

// Delete removes the selected repair.
func (r *Registry) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNoSelection
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()
	r.bcast.Publish(ctx, refresh.TopicRepairs)

	r.logger.Info("repair deleted", "id", id)
	return nil
}

// List returns the current repair table snapshot, newest first.
func (r *Registry) List(ctx context.Context) ([]Repair, error) {
	return r.repo.List(ctx)
}

// ListByCar returns the repair history of one car, newest first.
func (r *Registry) ListByCar(ctx context.Context, carID int64) ([]Repair, error) {
	if carID <= 0 {
		return nil, fmt.Errorf("%w: a car must be chosen", ErrInvalidCar)
	}
	return r.repo.ListByCar(ctx, carID)
}

// GetRepair retrieves a repair by ID, cache first.
func (r *Registry) GetRepair(ctx context.Context, id int64) (*Repair, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		cp := *cached
		return &cp, nil
	}

	rec, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.patchInsert(rec)
	return rec, nil
}

// Search validates the report filters and runs the report query.
func (r *Registry) Search(ctx context.Context, c SearchCriteria) ([]ReportRow, error) {
	if err := ValidateCriteria(c); err != nil {
		return nil, err
	}
	return r.repo.Search(ctx, c)
}

// Count returns the number of cached repairs.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}

// validateForWrite runs the form-order rules plus the car-existence check.
func (r *Registry) validateForWrite(ctx context.Context, p Params) (int64, time.Time, error) {
	cents, date, err := ValidateParams(p)
	if err != nil {
		return 0, time.Time{}, err
	}

	ok, err := r.cars.Exists(ctx, p.CarID)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("checking car %d: %w", p.CarID, err)
	}
	if !ok {
		return 0, time.Time{}, fmt.Errorf("%w: car %d does not exist", ErrInvalidCar, p.CarID)
	}

	return cents, date, nil
}

// patchInsert adds or replaces a repair in the cache.
func (r *Registry) patchInsert(rec *Repair) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	cp := *rec
	r.cache[rec.ID] = &cp
}
