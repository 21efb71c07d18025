package owner

import (
	"context"
	"fmt"
	"sort"
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

// Broadcaster publishes change notifications after successful mutations.
type Broadcaster interface {
	Publish(ctx context.Context, topic refresh.Topic)
}

// noopBroadcaster drops notifications; used until a real one is set.
type noopBroadcaster struct{}

func (noopBroadcaster) Publish(context.Context, refresh.Topic) {}

// Registry provides owner management with caching and thread safety.
// It wraps a Repository and adds an in-memory lookup cache: owners by id
// plus a name-to-id index used to resolve picker selections.
//
// The cache is populated on startup via RefreshCache() and patched
// incrementally by every successful CRUD operation. It is derived state:
// the store remains the source of truth and table snapshots always come
// from the repository.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[int64]*Owner // Cached owners by ID
	nameIdx map[string]int64 // Display name -> owner ID
	cacheMu sync.RWMutex     // Protects cache and nameIdx
	logger  Logger
	bcast   Broadcaster
}

// NewRegistry creates a new owner registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:    repo,
		cache:   make(map[int64]*Owner),
		nameIdx: make(map[string]int64),
		logger:  noopLogger{},
		bcast:   noopBroadcaster{},
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

// RefreshCache reloads all owners from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	owners, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading owners: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[int64]*Owner, len(owners))
	r.nameIdx = make(map[string]int64, len(owners))
	for i := range owners {
		o := owners[i]
		r.cache[o.ID] = &o
		r.nameIdx[o.Name] = o.ID
	}

	r.logger.Info("owner cache refreshed", "count", len(owners))
	return nil
}

// Create validates the payload, persists a new owner, patches the cache
// and broadcasts the change. Returns the owner with its assigned id.
func (r *Registry) Create(ctx context.Context, p Params) (*Owner, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Owner{
		Name:      strings.TrimSpace(p.Name),
		Phone:     strings.TrimSpace(p.Phone),
		Email:     strings.TrimSpace(p.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	r.patchInsert(o)
	r.bcast.Publish(ctx, refresh.TopicOwners)

	r.logger.Info("owner created", "id", o.ID, "name", o.Name)
	return r.copyOf(o), nil
}

// Update validates the payload and persists changes to the selected owner.
// Fails with ErrNoSelection when id is not a valid selection.
func (r *Registry) Update(ctx context.Context, id int64, p Params) (*Owner, error) {
	if id <= 0 {
		return nil, ErrNoSelection
	}
	if err := ValidateParams(p); err != nil {
		return nil, err
	}

	existing, err := r.GetOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	o := &Owner{
		ID:        id,
		Name:      strings.TrimSpace(p.Name),
		Phone:     strings.TrimSpace(p.Phone),
		Email:     strings.TrimSpace(p.Email),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	if err := r.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	r.patchUpdate(existing.Name, o)
	r.bcast.Publish(ctx, refresh.TopicOwners)

	r.logger.Info("owner updated", "id", o.ID, "name", o.Name)
	return r.copyOf(o), nil
}

// Delete removes the selected owner.
// Fails with ErrOwnerHasCars while cars still reference the owner.
func (r *Registry) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNoSelection
	}

	existing, err := r.GetOwner(ctx, id)
	if err != nil {
		return err
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.patchRemove(existing)
	r.bcast.Publish(ctx, refresh.TopicOwners)

	r.logger.Info("owner deleted", "id", id)
	return nil
}

// List returns the current owner table snapshot in insertion order.
func (r *Registry) List(ctx context.Context) ([]Owner, error) {
	return r.repo.List(ctx)
}

// GetOwner retrieves an owner by ID, cache first.
func (r *Registry) GetOwner(ctx context.Context, id int64) (*Owner, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		cp := *cached
		return &cp, nil
	}

	o, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	cp := *o
	r.cache[o.ID] = &cp
	r.nameIdx[o.Name] = o.ID
	r.cacheMu.Unlock()

	return o, nil
}

// Exists reports whether an owner id references a real owner.
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
		if err == ErrOwnerNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Options returns picker entries for all cached owners, sorted by name.
func (r *Registry) Options() []Option {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	opts := make([]Option, 0, len(r.cache))
	for _, o := range r.cache {
		opts = append(opts, Option{ID: o.ID, Label: o.Name})
	}
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Label != opts[j].Label {
			return opts[i].Label < opts[j].Label
		}
		return opts[i].ID < opts[j].ID
	})
	return opts
}

// Resolve maps a display name back to an owner id.
// A miss means the cache drifted from the store and is reported as
// ErrStaleLabel rather than a user input error.
func (r *Registry) Resolve(label string) (int64, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	id, ok := r.nameIdx[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrStaleLabel, label)
	}
	return id, nil
}

// Count returns the number of cached owners.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}

// patchInsert adds a newly persisted owner to the cache.
func (r *Registry) patchInsert(o *Owner) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	cp := *o
	r.cache[o.ID] = &cp
	r.nameIdx[o.Name] = o.ID
}

// patchUpdate replaces a cached owner, dropping its old name index entry.
func (r *Registry) patchUpdate(oldName string, o *Owner) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if oldName != o.Name {
		if id, ok := r.nameIdx[oldName]; ok && id == o.ID {
			delete(r.nameIdx, oldName)
		}
	}
	cp := *o
	r.cache[o.ID] = &cp
	r.nameIdx[o.Name] = o.ID
}

// patchRemove drops a deleted owner from the cache.
func (r *Registry) patchRemove(o *Owner) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	delete(r.cache, o.ID)
	if id, ok := r.nameIdx[o.Name]; ok && id == o.ID {
		delete(r.nameIdx, o.Name)
	}
}

// copyOf returns a defensive copy so callers cannot mutate cached state.
func (r *Registry) copyOf(o *Owner) *Owner {
	cp := *o
	return &cp
}
