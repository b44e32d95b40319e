package engine

import (
	"sort"
	"sync"
)

// OperationEntry records one native operation on one representation.
type OperationEntry struct {
	Rep  Representation
	Name string
	Fn   OperationFunc

	// Signature is a human-readable argument shape, used in capability
	// listings and diagnostics (e.g. "width int, height int"). It is
	// documentation only; the operation validates its own arguments.
	Signature string
}

// ConverterEntry records one directed, costed edge of the capability graph.
// Multiple entries may share the same (source, target) pair; all are kept
// as parallel edges and the router considers every one of them.
type ConverterEntry struct {
	Source Representation
	Target Representation
	Cost   int
	Fn     ConverterFunc

	// seq is the global registration sequence number. It makes edge
	// iteration and shortest-path tie-breaking deterministic.
	seq int
}

type opKey struct {
	rep  Representation
	name string
}

// Registry holds the operation and converter registrations that together
// form the capability graph. It has a two-phase lifecycle: mutable during
// startup registration, then frozen read-only for the rest of the process.
// All methods are safe for concurrent use; once frozen, reads take no
// contended locks beyond an RWMutex read lock.
type Registry struct {
	mu         sync.RWMutex
	frozen     bool
	generation uint64
	seq        int

	ops        map[opKey]*OperationEntry
	converters map[Representation][]*ConverterEntry

	// Path memoization, keyed by (start, operation). Purely an
	// optimization: entries are only trusted while cacheGen matches the
	// registration generation they were computed under.
	cacheMu  sync.Mutex
	cacheGen uint64
	cache    map[opKey]Path
}

// NewRegistry returns an empty registry in its registration phase.
func NewRegistry() *Registry {
	return &Registry{
		ops:        make(map[opKey]*OperationEntry),
		converters: make(map[Representation][]*ConverterEntry),
		cache:      make(map[opKey]Path),
	}
}

// Default is the process-wide registry used by Open. Backend packages
// register into it at startup.
var Default = NewRegistry()

// RegisterOperation records a native operation for a representation. It
// fails with *DuplicateOperationError if the (representation, name) pair is
// already registered; use ReplaceOperation for a deliberate override.
func (r *Registry) RegisterOperation(rep Representation, name, signature string, fn OperationFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	key := opKey{rep, name}
	if _, exists := r.ops[key]; exists {
		return &DuplicateOperationError{Rep: rep, Name: name}
	}
	r.ops[key] = &OperationEntry{Rep: rep, Name: name, Fn: fn, Signature: signature}
	r.generation++
	return nil
}

// ReplaceOperation registers an operation, overriding any existing entry
// for the same (representation, name) pair.
func (r *Registry) ReplaceOperation(rep Representation, name, signature string, fn OperationFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	r.ops[opKey{rep, name}] = &OperationEntry{Rep: rep, Name: name, Fn: fn, Signature: signature}
	r.generation++
	return nil
}

// RegisterConverter records a directed edge from source to target. Cost
// must be non-negative and source must differ from target.
func (r *Registry) RegisterConverter(source, target Representation, cost int, fn ConverterFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if cost < 0 {
		return &InvalidCostError{Source: source, Target: target, Cost: cost}
	}
	if source == target {
		return &InvalidConverterError{Source: source, Target: target, Reason: "self-loop"}
	}
	r.seq++
	entry := &ConverterEntry{Source: source, Target: target, Cost: cost, Fn: fn, seq: r.seq}
	r.converters[source] = append(r.converters[source], entry)
	r.generation++
	return nil
}

// LookupOperation returns the entry for (rep, name), if registered.
func (r *Registry) LookupOperation(rep Representation, name string) (*OperationEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.ops[opKey{rep, name}]
	return entry, ok
}

// Supports reports whether rep natively supports the named operation.
func (r *Registry) Supports(rep Representation, name string) bool {
	_, ok := r.LookupOperation(rep, name)
	return ok
}

// EdgesFrom returns the converter edges leaving rep, in registration order.
// The returned slice is a copy; callers may not mutate the entries.
func (r *Registry) EdgesFrom(rep Representation) []*ConverterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	edges := r.converters[rep]
	out := make([]*ConverterEntry, len(edges))
	copy(out, edges)
	return out
}

// Freeze ends the registration phase. It is idempotent and one-way.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether the registry has left its registration phase.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Representations returns every representation that appears in either
// registry (the node set of the capability graph), sorted for stable
// listings.
func (r *Registry) Representations() []Representation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Representation]struct{})
	for key := range r.ops {
		seen[key.rep] = struct{}{}
	}
	for source, edges := range r.converters {
		seen[source] = struct{}{}
		for _, e := range edges {
			seen[e.Target] = struct{}{}
		}
	}

	out := make([]Representation, 0, len(seen))
	for rep := range seen {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OperationEntries returns all registered operations sorted by
// representation, then name.
func (r *Registry) OperationEntries() []*OperationEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*OperationEntry, 0, len(r.ops))
	for _, entry := range r.ops {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rep != out[j].Rep {
			return out[i].Rep < out[j].Rep
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ConverterEntries returns all registered converter edges in registration
// order.
func (r *Registry) ConverterEntries() []*ConverterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ConverterEntry
	for _, edges := range r.converters {
		out = append(out, edges...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
