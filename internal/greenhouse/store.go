package greenhouse

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/verdant/internal/engine/lod"
)

// ErrUnknownCategory is returned by setters targeting a category that does
// not exist in the store.
var ErrUnknownCategory = errors.New("greenhouse: unknown category")

// Store holds every category's configuration and notifies subscribers of
// changes through typed events. Events fire after the state change and after
// the store lock is released, so listeners may read the store freely.
// Subscribers must all be registered before the first mutation.
type Store struct {
	mu         sync.RWMutex
	categories map[string]*CategoryConfig
	subs       []func(Event)
	log        *zap.SugaredLogger
}

// NewStore returns an empty store. A nil logger is replaced with a no-op one.
func NewStore(log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		categories: map[string]*CategoryConfig{},
		log:        log,
	}
}

// Subscribe registers a listener for configuration change events.
// Subscriptions cannot be removed; the store and its listeners share the
// editor's lifetime.
func (s *Store) Subscribe(fn func(Event)) {
	s.subs = append(s.subs, fn)
}

func (s *Store) emit(ev Event) {
	s.log.Debugw("greenhouse event", "kind", ev.Kind.String(), "category", ev.Category)
	for _, fn := range s.subs {
		fn(ev)
	}
}

// AddCategory inserts a new category configuration.
func (s *Store) AddCategory(cfg CategoryConfig) error {
	s.mu.Lock()
	if _, ok := s.categories[cfg.Name]; ok {
		s.mu.Unlock()
		return errors.Errorf("greenhouse: category %q already exists", cfg.Name)
	}
	c := cfg
	s.categories[cfg.Name] = &c
	s.mu.Unlock()

	s.emit(Event{Kind: CategoryAdded, Category: cfg.Name})
	return nil
}

// RemoveCategory deletes a category configuration.
func (s *Store) RemoveCategory(name string) error {
	s.mu.Lock()
	if _, ok := s.categories[name]; !ok {
		s.mu.Unlock()
		return errors.Wrap(ErrUnknownCategory, name)
	}
	delete(s.categories, name)
	s.mu.Unlock()

	s.emit(Event{Kind: CategoryRemoved, Category: name})
	return nil
}

// Category returns a copy of the named category's configuration.
func (s *Store) Category(name string) (CategoryConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[name]
	if !ok {
		return CategoryConfig{}, false
	}
	return *c, true
}

// Categories returns the category names in sorted order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddVariant inserts a LOD variant at index (append when index is out of
// range or negative).
func (s *Store) AddVariant(category string, index int, v lod.Variant) error {
	s.mu.Lock()
	c, ok := s.categories[category]
	if !ok {
		s.mu.Unlock()
		return errors.Wrap(ErrUnknownCategory, category)
	}

	variants := c.LOD.Variants
	if index < 0 || index > len(variants) {
		index = len(variants)
	}
	variants = append(variants, lod.Variant{})
	copy(variants[index+1:], variants[index:])
	variants[index] = v
	c.LOD.Variants = variants
	c.Version++
	s.mu.Unlock()

	s.emit(Event{Kind: VariantAdded, Category: category, VariantIndex: index})
	return nil
}

// RemoveVariant deletes the LOD variant at index.
func (s *Store) RemoveVariant(category string, index int) error {
	s.mu.Lock()
	c, ok := s.categories[category]
	if !ok {
		s.mu.Unlock()
		return errors.Wrap(ErrUnknownCategory, category)
	}
	if index < 0 || index >= len(c.LOD.Variants) {
		s.mu.Unlock()
		return errors.Errorf("greenhouse: variant index %d out of range for %q", index, category)
	}
	c.LOD.Variants = append(c.LOD.Variants[:index], c.LOD.Variants[index+1:]...)
	c.Version++
	s.mu.Unlock()

	s.emit(Event{Kind: VariantRemoved, Category: category, VariantIndex: index})
	return nil
}

// ReplaceVariant swaps the LOD variant at index.
func (s *Store) ReplaceVariant(category string, index int, v lod.Variant) error {
	s.mu.Lock()
	c, ok := s.categories[category]
	if !ok {
		s.mu.Unlock()
		return errors.Wrap(ErrUnknownCategory, category)
	}
	if index < 0 || index >= len(c.LOD.Variants) {
		s.mu.Unlock()
		return errors.Errorf("greenhouse: variant index %d out of range for %q", index, category)
	}
	c.LOD.Variants[index] = v
	c.Version++
	s.mu.Unlock()

	s.emit(Event{Kind: VariantReplaced, Category: category, VariantIndex: index})
	return nil
}

// SetDistances updates the LOD max and kill distances.
func (s *Store) SetDistances(category string, maxDistance, killDistance float32) error {
	s.mu.Lock()
	c, ok := s.categories[category]
	if !ok {
		s.mu.Unlock()
		return errors.Wrap(ErrUnknownCategory, category)
	}
	c.LOD.MaxDistance = maxDistance
	c.LOD.KillDistance = killDistance
	c.Version++
	s.mu.Unlock()

	s.emit(Event{Kind: ThresholdsChanged, Category: category})
	return nil
}

// SetDensity updates the nominal paint density.
func (s *Store) SetDensity(category string, plantsPer100Units float32) error {
	s.mu.Lock()
	c, ok := s.categories[category]
	if !ok {
		s.mu.Unlock()
		return errors.Wrap(ErrUnknownCategory, category)
	}
	c.Placement.PlantsPer100Units = plantsPer100Units
	c.Version++
	s.mu.Unlock()

	s.emit(Event{Kind: DensityChanged, Category: category})
	return nil
}

// SetPlacement replaces the whole placement block (scale/rotation ranges,
// up vectors, collision mask, density).
func (s *Store) SetPlacement(category string, p Placement) error {
	s.mu.Lock()
	c, ok := s.categories[category]
	if !ok {
		s.mu.Unlock()
		return errors.Wrap(ErrUnknownCategory, category)
	}
	c.Placement = p
	c.Version++
	s.mu.Unlock()

	s.emit(Event{Kind: PlacementChanged, Category: category})
	return nil
}
