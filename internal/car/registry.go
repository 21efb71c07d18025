package car

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

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

// OwnerDirectory resolves owner selections.
// The owner registry satisfies this interface.
type OwnerDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Broadcaster publishes change notifications after successful mutations.
type Broadcaster interface {
	Publish(ctx context.Context, topic refresh.Topic)
}

// noopBroadcaster drops notifications; used until a real one is set.
type noopBroadcaster struct{}

func (noopBroadcaster) Publish(context.Context, refresh.Topic) {}

// Registry provides car management with caching and thread safety.
// It wraps a Repository and adds the in-memory lookup caches: cars by
// id, a lowercased registration-number index for duplicate detection,
// and a label index mapping "Brand Model (RegNo)" back to ids.
//
// The cache is populated on startup via RefreshCache() and patched
// incrementally by every successful CRUD operation. Because car rows
// denormalize the owner name, the registry also subscribes to owner
// changes and reloads wholesale when one arrives.
//
// All public methods are thread-safe.
type Registry struct {
	repo     Repository
	owners   OwnerDirectory
	cache    map[int64]*Car   // Cached cars by ID
	regIdx   map[string]int64 // Lowercased registration number -> car ID
	labelIdx map[string]int64 // "Brand Model (RegNo)" -> car ID
	cacheMu  sync.RWMutex     // Protects all three maps
	logger   Logger
	bcast    Broadcaster
}

// NewRegistry creates a new car registry.
// The repository is used for persistence; owners resolves selections.
func NewRegistry(repo Repository, owners OwnerDirectory) *Registry {
	return &Registry{
		repo:     repo,
		owners:   owners,
		cache:    make(map[int64]*Car),
		regIdx:   make(map[string]int64),
		labelIdx: make(map[string]int64),
		logger:   noopLogger{},
		bcast:    noopBroadcaster{},
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

// RefreshCache reloads all cars from the repository and rebuilds every
// index from scratch.
func (r *Registry) RefreshCache(ctx context.Context) error {
	cars, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading cars: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[int64]*Car, len(cars))
	r.regIdx = make(map[string]int64, len(cars))
	r.labelIdx = make(map[string]int64, len(cars))
	for i := range cars {
		c := cars[i]
		r.cache[c.ID] = &c
		r.regIdx[strings.ToLower(c.RegistrationNumber)] = c.ID
		r.labelIdx[c.Label()] = c.ID
	}

	r.logger.Info("car cache refreshed", "count", len(cars))
	return nil
}

// Refresh implements refresh.Subscriber. The car cache depends on owner
// names, so an owner change forces a full reload.
func (r *Registry) Refresh(ctx context.Context) error {
	return r.RefreshCache(ctx)
}

// Create validates the payload, persists a new car, patches the caches
// and broadcasts the change. Returns the car with its assigned id and
// joined owner name.
func (r *Registry) Create(ctx context.Context, p Params) (*Car, error) {
	year, err := r.validateForWrite(ctx, p, 0)
	if err != nil {
		return nil, err
	}

	c := &Car{
		RegistrationNumber: strings.TrimSpace(p.RegistrationNumber),
		Brand:              strings.TrimSpace(p.Brand),
		Model:              strings.TrimSpace(p.Model),
		Year:               year,
		OwnerID:            p.OwnerID,
	}

	if err := r.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	// Re-read the canonical row: timestamps and owner name come from the store.
	canonical, err := r.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	r.patchInsert(canonical)
	r.bcast.Publish(ctx, refresh.TopicCars)

	r.logger.Info("car created", "id", canonical.ID, "registration", canonical.RegistrationNumber)
	return canonical, nil
}

// Update validates the payload and persists changes to the selected car.
// The uniqueness check excludes the car's own registration number.
func (r *Registry) Update(ctx context.Context, id int64, p Params) (*Car, error) {
	if id <= 0 {
		return nil, ErrNoSelection
	}

	existing, err := r.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}

	year, err := r.validateForWrite(ctx, p, id)
	if err != nil {
		return nil, err
	}

	c := &Car{
		ID:                 id,
		RegistrationNumber: strings.TrimSpace(p.RegistrationNumber),
		Brand:              strings.TrimSpace(p.Brand),
		Model:              strings.TrimSpace(p.Model),
		Year:               year,
		OwnerID:            p.OwnerID,
	}

	if err := r.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	canonical, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.patchUpdate(existing, canonical)
	r.bcast.Publish(ctx, refresh.TopicCars)

	r.logger.Info("car updated", "id", id, "registration", canonical.RegistrationNumber)
	return canonical, nil
}

// Delete removes the selected car.
// Fails with ErrCarHasRepairs while repair records still reference it.
func (r *Registry) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNoSelection
	}

	existing, err := r.GetCar(ctx, id)
	if err != nil {
		return err
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.patchRemove(existing)
	r.bcast.Publish(ctx, refresh.TopicCars)

	r.logger.Info("car deleted", "id", id)
	return nil
}

// List returns the current car table snapshot in insertion order.
func (r *Registry) List(ctx context.Context) ([]Car, error) {
	return r.repo.List(ctx)
}

// GetCar retrieves a car by ID, cache first.
func (r *Registry) GetCar(ctx context.Context, id int64) (*Car, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		cp := *cached
		return &cp, nil
	}

	c, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	cp := *c
	r.cache[c.ID] = &cp
	r.regIdx[strings.ToLower(c.RegistrationNumber)] = c.ID
	r.labelIdx[c.Label()] = c.ID
	r.cacheMu.Unlock()

	return c, nil
}

// Exists reports whether a car id references a real car.
func (r *Registry) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}

	r.cacheMu.RLock()
	_, ok := r.cache[id]
	r.cacheMu.RUnlock()
	if ok {
		return true, nil
	}

	_, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Contains reports whether a registration number is already taken,
// comparing case-insensitively.
func (r *Registry) Contains(registration string) bool {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	_, ok := r.regIdx[strings.ToLower(strings.TrimSpace(registration))]
	return ok
}

// Options returns picker entries for all cached cars, sorted by brand
// then model, matching the table the pickers were built from.
func (r *Registry) Options() []Option {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	cars := make([]*Car, 0, len(r.cache))
	for _, c := range r.cache {
		cars = append(cars, c)
	}
	sort.Slice(cars, func(i, j int) bool {
		if cars[i].Brand != cars[j].Brand {
			return cars[i].Brand < cars[j].Brand
		}
		if cars[i].Model != cars[j].Model {
			return cars[i].Model < cars[j].Model
		}
		return cars[i].ID < cars[j].ID
	})

	opts := make([]Option, 0, len(cars))
	for _, c := range cars {
		opts = append(opts, Option{ID: c.ID, Label: c.Label()})
	}
	return opts
}

// Resolve maps a "Brand Model (RegNo)" label back to a car id.
// A miss means the cache drifted from the store and is reported as
// ErrStaleLabel rather than a user input error.
func (r *Registry) Resolve(label string) (int64, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	id, ok := r.labelIdx[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrStaleLabel, label)
	}
	return id, nil
}

// Count returns the number of cached cars.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}

// validateForWrite runs the form-order rules plus the cache-backed
// uniqueness and owner-existence checks. excludeID is the id whose
// current registration is allowed (0 when creating). Returns the parsed
// year on success.
func (r *Registry) validateForWrite(ctx context.Context, p Params, excludeID int64) (int, error) {
	if err := ValidateRegistration(p.RegistrationNumber); err != nil {
		return 0, err
	}

	reg := strings.TrimSpace(p.RegistrationNumber)
	r.cacheMu.RLock()
	holder, taken := r.regIdx[strings.ToLower(reg)]
	r.cacheMu.RUnlock()
	if taken && holder != excludeID {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateRegistration, reg)
	}

	if err := ValidateBrand(p.Brand); err != nil {
		return 0, err
	}
	if err := ValidateModel(p.Model); err != nil {
		return 0, err
	}
	year, err := ValidateYear(p.Year)
	if err != nil {
		return 0, err
	}

	if p.OwnerID <= 0 {
		return 0, fmt.Errorf("%w: an owner must be chosen", ErrInvalidOwner)
	}
	ok, err := r.owners.Exists(ctx, p.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("checking owner %d: %w", p.OwnerID, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: owner %d does not exist", ErrInvalidOwner, p.OwnerID)
	}

	return year, nil
}

// patchInsert adds a newly persisted car to the caches.
func (r *Registry) patchInsert(c *Car) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	cp := *c
	r.cache[c.ID] = &cp
	r.regIdx[strings.ToLower(c.RegistrationNumber)] = c.ID
	r.labelIdx[c.Label()] = c.ID
}

// patchUpdate replaces a cached car, dropping its old index entries.
func (r *Registry) patchUpdate(old, c *Car) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	oldReg := strings.ToLower(old.RegistrationNumber)
	if id, ok := r.regIdx[oldReg]; ok && id == old.ID {
		delete(r.regIdx, oldReg)
	}
	if id, ok := r.labelIdx[old.Label()]; ok && id == old.ID {
		delete(r.labelIdx, old.Label())
	}

	cp := *c
	r.cache[c.ID] = &cp
	r.regIdx[strings.ToLower(c.RegistrationNumber)] = c.ID
	r.labelIdx[c.Label()] = c.ID
}

// patchRemove drops a deleted car from the caches.
func (r *Registry) patchRemove(c *Car) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	delete(r.cache, c.ID)
	reg := strings.ToLower(c.RegistrationNumber)
	if id, ok := r.regIdx[reg]; ok && id == c.ID {
		delete(r.regIdx, reg)
	}
	if id, ok := r.labelIdx[c.Label()]; ok && id == c.ID {
		delete(r.labelIdx, c.Label())
	}
}
