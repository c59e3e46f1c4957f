package util

import "fmt"

// OrderedMap is an insertion-ordered mapping from comparable keys to values.
// It backs the per-kind declaration tables of an ir.Namespace and the
// project's namespace table, and the evaluator uses it for duplicate-name
// checks; Group/Union fields, interface ports and streamlet instances are
// plain slices in declaration order.
//
// The zero value is not ready for use; construct with NewOrderedMap.
type OrderedMap[K comparable, V any] struct {
	order []K
	items map[K]V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		items: make(map[K]V),
	}
}

// Set assigns the value for key, appending it to the iteration order if it is
// new, or leaving its position unchanged if it already exists.
func (m *OrderedMap[K, V]) Set(key K, val V) {
	if _, exists := m.items[key]; !exists {
		m.order = append(m.order, key)
	}
	m.items[key] = val
}

// TryInsert sets the value for key only if it is not already present. It
// returns an error if key already exists, matching the evaluator's
// duplicate-declaration detection (spec §4.3).
func (m *OrderedMap[K, V]) TryInsert(key K, val V) error {
	if _, exists := m.items[key]; exists {
		return fmt.Errorf("key %v already present", key)
	}
	m.Set(key, val)
	return nil
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

// MustGet returns the value for key, panicking if it is not present. Callers
// must only use this once presence has already been established (e.g. right
// after iterating Keys()).
func (m *OrderedMap[K, V]) MustGet(key K) V {
	v, ok := m.items[key]
	if !ok {
		panic(fmt.Sprintf("key %v not present in OrderedMap", key))
	}
	return v
}

// Has reports whether key is present.
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.items[key]
	return ok
}

// Delete removes key, if present, and drops it from the iteration order.
func (m *OrderedMap[K, V]) Delete(key K) {
	if _, ok := m.items[key]; !ok {
		return
	}
	delete(m.items, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.order)
}

// Keys returns the keys in insertion order. The returned slice must not be
// mutated.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.order
}

// Values returns the values in the same order as Keys.
func (m *OrderedMap[K, V]) Values() []V {
	vals := make([]V, len(m.order))
	for i, k := range m.order {
		vals[i] = m.items[k]
	}
	return vals
}

// Range calls f for each entry in insertion order, stopping early if f
// returns false.
func (m *OrderedMap[K, V]) Range(f func(key K, val V) bool) {
	for _, k := range m.order {
		if !f(k, m.items[k]) {
			return
		}
	}
}

// Copy returns a shallow copy of m with the same iteration order.
func (m *OrderedMap[K, V]) Copy() *OrderedMap[K, V] {
	cp := NewOrderedMap[K, V]()
	cp.order = append(cp.order, m.order...)
	for k, v := range m.items {
		cp.items[k] = v
	}
	return cp
}
