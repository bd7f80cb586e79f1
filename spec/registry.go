package spec

import "fmt"

// Entry is the constraint for registry members: anything carrying a unique
// name and a unique numeric id.
type Entry interface {
	EntryName() string
	EntryID() int
}

// Registry is an ordered collection uniquely keyed by both name and id, with
// O(1) position lookup. Insertion order is preserved and is the canonical
// iteration order.
type Registry[T Entry] struct {
	items  []T
	byName map[string]T
	byID   map[int]T
	pos    map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry[T Entry]() *Registry[T] {
	return &Registry[T]{
		byName: make(map[string]T),
		byID:   make(map[int]T),
		pos:    make(map[string]int),
	}
}

// Add appends an item, failing with ErrDuplicate if its name or id is
// already present.
func (r *Registry[T]) Add(item T) error {
	if _, ok := r.byName[item.EntryName()]; ok {
		return fmt.Errorf("%w: name %q", ErrDuplicate, item.EntryName())
	}
	if _, ok := r.byID[item.EntryID()]; ok {
		return fmt.Errorf("%w: id %d (%s)", ErrDuplicate, item.EntryID(), item.EntryName())
	}
	r.pos[item.EntryName()] = len(r.items)
	r.items = append(r.items, item)
	r.byName[item.EntryName()] = item
	r.byID[item.EntryID()] = item
	return nil
}

// ByName returns the item with the given name, failing with ErrNotFound.
func (r *Registry[T]) ByName(name string) (T, error) {
	item, ok := r.byName[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: name %q", ErrNotFound, name)
	}
	return item, nil
}

// ByID returns the item with the given id, failing with ErrNotFound.
func (r *Registry[T]) ByID(id int) (T, error) {
	item, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return item, nil
}

// Has reports whether an item with the given name exists.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Index returns the insertion position of the item, failing with ErrNotFound
// if it was never added.
func (r *Registry[T]) Index(item T) (int, error) {
	i, ok := r.pos[item.EntryName()]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, item.EntryName())
	}
	return i, nil
}

// Len returns the number of items.
func (r *Registry[T]) Len() int {
	return len(r.items)
}

// Items returns the items in insertion order. The returned slice is a copy;
// the registry itself stays read-only after loading.
func (r *Registry[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}
