package car

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fleetcore/internal/refresh"
)

// MockRepository is a test implementation of Repository. Owner names
// are kept in a side table so reads can join them in like the real
// queries do.
type MockRepository struct {
	mu         sync.Mutex
	cars       map[int64]*Car
	repairs    map[int64]int    // car id -> repair count
	ownerNames map[int64]string // owner id -> name
	nextID     int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		cars:       make(map[int64]*Car),
		repairs:    make(map[int64]int),
		ownerNames: make(map[int64]string),
	}
}

func (m *MockRepository) withOwnerName(c Car) Car {
	c.OwnerName = m.ownerNames[c.OwnerID]
	return c
}

func (m *MockRepository) Create(_ context.Context, c *Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.cars {
		if strings.EqualFold(existing.RegistrationNumber, c.RegistrationNumber) {
			return ErrDuplicateRegistration
		}
	}
	m.nextID++
	c.ID = m.nextID
	copy := *c
	m.cars[c.ID] = &copy
	return nil
}

func (m *MockRepository) List(_ context.Context) ([]Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cars := make([]Car, 0, len(m.cars))
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.cars[id]; ok {
			cars = append(cars, m.withOwnerName(*c))
		}
	}
	return cars, nil
}

func (m *MockRepository) GetByID(_ context.Context, id int64) (*Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cars[id]; ok {
		joined := m.withOwnerName(*c)
		return &joined, nil
	}
	return nil, ErrCarNotFound
}

func (m *MockRepository) Update(_ context.Context, c *Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.cars {
		if id != c.ID && strings.EqualFold(existing.RegistrationNumber, c.RegistrationNumber) {
			return ErrDuplicateRegistration
		}
	}
	if _, ok := m.cars[c.ID]; !ok {
		return ErrCarNotFound
	}
	copy := *c
	m.cars[c.ID] = &copy
	return nil
}

func (m *MockRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.repairs[id] > 0 {
		return ErrCarHasRepairs
	}
	if _, ok := m.cars[id]; !ok {
		return ErrCarNotFound
	}
	delete(m.cars, id)
	return nil
}

func (m *MockRepository) CountRepairs(_ context.Context, id int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.repairs[id], nil
}

// stubOwners is a fixed OwnerDirectory for tests.
type stubOwners struct {
	ids map[int64]bool
}

func (s stubOwners) Exists(_ context.Context, id int64) (bool, error) {
	return s.ids[id], nil
}

func newTestRegistry() (*Registry, *MockRepository) {
	repo := NewMockRepository()
	repo.ownerNames[1] = "Ana"
	repo.ownerNames[2] = "Mira"
	reg := NewRegistry(repo, stubOwners{ids: map[int64]bool{1: true, 2: true}})
	return reg, repo
}

func validParams() Params {
	return Params{RegistrationNumber: "AB1234", Brand: "Dacia", Model: "Logan", Year: "2019", OwnerID: 1}
}

func TestRegistry_Create(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	c, err := reg.Create(ctx, validParams())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}
	if c.OwnerName != "Ana" {
		t.Errorf("Create() OwnerName = %q, want joined owner name", c.OwnerName)
	}

	if !reg.Contains("AB1234") {
		t.Error("Contains() = false after create")
	}
	if !reg.Contains("ab1234") {
		t.Error("Contains() is not case-insensitive")
	}

	id, err := reg.Resolve("Dacia Logan (AB1234)")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id != c.ID {
		t.Errorf("Resolve() = %d, want %d", id, c.ID)
	}
}

func TestRegistry_Create_DuplicateRegistration(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	if _, err := reg.Create(ctx, validParams()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	p := validParams()
	p.RegistrationNumber = "ab1234" // different case, same plate
	p.Brand = ""                    // brand is also invalid, but uniqueness fires first
	_, err := reg.Create(ctx, p)
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("Create(duplicate) error = %v, want ErrDuplicateRegistration", err)
	}
}

func TestRegistry_Create_UnknownOwner(t *testing.T) {
	reg, _ := newTestRegistry()

	p := validParams()
	p.OwnerID = 42
	_, err := reg.Create(context.Background(), p)
	if !errors.Is(err, ErrInvalidOwner) {
		t.Errorf("Create(unknown owner) error = %v, want ErrInvalidOwner", err)
	}
}

func TestRegistry_Update_KeepsOwnRegistration(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	c, err := reg.Create(ctx, validParams())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Same registration, new brand. Must not trip the uniqueness check.
	p := validParams()
	p.Brand = "Renault"
	updated, err := reg.Update(ctx, c.ID, p)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Brand != "Renault" {
		t.Errorf("Update() Brand = %q", updated.Brand)
	}

	// Old label dropped, new one resolvable.
	if _, err := reg.Resolve("Dacia Logan (AB1234)"); !errors.Is(err, ErrStaleLabel) {
		t.Errorf("Resolve(old label) error = %v, want ErrStaleLabel", err)
	}
	if _, err := reg.Resolve("Renault Logan (AB1234)"); err != nil {
		t.Errorf("Resolve(new label) error: %v", err)
	}
}

func TestRegistry_Update_DuplicateOfOtherCar(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	if _, err := reg.Create(ctx, validParams()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	p2 := validParams()
	p2.RegistrationNumber = "CD5678"
	second, err := reg.Create(ctx, p2)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	p2.RegistrationNumber = "AB1234"
	if _, err := reg.Update(ctx, second.ID, p2); !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("Update() error = %v, want ErrDuplicateRegistration", err)
	}
}

func TestRegistry_Delete_BlockedByRepairs(t *testing.T) {
	reg, repo := newTestRegistry()
	ctx := context.Background()

	c, err := reg.Create(ctx, validParams())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	repo.repairs[c.ID] = 1

	if err := reg.Delete(ctx, c.ID); !errors.Is(err, ErrCarHasRepairs) {
		t.Errorf("Delete() error = %v, want ErrCarHasRepairs", err)
	}
	if !reg.Contains("AB1234") {
		t.Error("car dropped from cache after blocked delete")
	}
}

func TestRegistry_Options_SortedByBrandThenModel(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	plates := []struct{ reg, brand, model string }{
		{"AA1111", "Skoda", "Octavia"},
		{"BB2222", "Dacia", "Sandero"},
		{"CC3333", "Dacia", "Logan"},
	}
	for _, p := range plates {
		if _, err := reg.Create(ctx, Params{
			RegistrationNumber: p.reg, Brand: p.brand, Model: p.model, Year: "2019", OwnerID: 1,
		}); err != nil {
			t.Fatalf("Create(%s) error: %v", p.reg, err)
		}
	}

	opts := reg.Options()
	want := []string{
		"Dacia Logan (CC3333)",
		"Dacia Sandero (BB2222)",
		"Skoda Octavia (AA1111)",
	}
	if len(opts) != len(want) {
		t.Fatalf("Options() returned %d entries, want %d", len(opts), len(want))
	}
	for i, label := range want {
		if opts[i].Label != label {
			t.Errorf("Options()[%d].Label = %q, want %q", i, opts[i].Label, label)
		}
	}
}

func TestRegistry_Refresh_PicksUpOwnerRename(t *testing.T) {
	reg, repo := newTestRegistry()
	ctx := context.Background()

	c, err := reg.Create(ctx, validParams())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// The owner is renamed elsewhere; an owners refresh arrives.
	repo.ownerNames[1] = "Ana Petrova"
	if err := reg.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	got, err := reg.GetCar(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCar() error: %v", err)
	}
	if got.OwnerName != "Ana Petrova" {
		t.Errorf("OwnerName after refresh = %q, want %q", got.OwnerName, "Ana Petrova")
	}
}

func TestRegistry_PublishesTopicCars(t *testing.T) {
	reg, _ := newTestRegistry()
	bcast := &recordingBroadcaster{}
	reg.SetBroadcaster(bcast)
	ctx := context.Background()

	c, err := reg.Create(ctx, validParams())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := reg.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	topics := bcast.published()
	if len(topics) != 2 {
		t.Fatalf("published %d topics, want 2", len(topics))
	}
	for _, topic := range topics {
		if topic != refresh.TopicCars {
			t.Errorf("published topic %q, want %q", topic, refresh.TopicCars)
		}
	}
}

// recordingBroadcaster captures published topics.
type recordingBroadcaster struct {
	mu     sync.Mutex
	topics []refresh.Topic
}

func (b *recordingBroadcaster) Publish(_ context.Context, topic refresh.Topic) {
	b.mu.Lock()
	b.topics = append(b.topics, topic)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) published() []refresh.Topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]refresh.Topic(nil), b.topics...)
}
