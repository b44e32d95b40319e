package engine

import "container/heap"

// Path is an ordered chain of converter edges. An empty Steps slice means
// the start representation already supports the operation; Cost is always
// the sum of the step costs.
type Path struct {
	Steps []*ConverterEntry
	Cost  int
}

// Resolve finds the minimum-total-cost converter chain from start to some
// representation that natively supports the named operation.
//
// If start itself supports the operation, the empty path is returned
// without running a search. Otherwise a Dijkstra search runs over the
// capability graph: edge costs are non-negative, the node set is small, and
// ties between equal-cost routes are broken by registration order, so the
// result is deterministic. If no reachable representation supports the
// operation, Resolve fails with *UnsupportedOperationError.
func (r *Registry) Resolve(start Representation, operation string) (Path, error) {
	// Zero-conversion hot path.
	if r.Supports(start, operation) {
		return Path{}, nil
	}

	key := opKey{start, operation}
	if path, ok := r.cachedPath(key); ok {
		return path, nil
	}

	path, err := r.search(start, operation)
	if err != nil {
		return Path{}, err
	}
	r.storePath(key, path)
	return path, nil
}

// pqNode is one priority-queue entry. order is the insertion sequence,
// which breaks cost ties so that the node discovered first settles first.
type pqNode struct {
	rep   Representation
	dist  int
	order int
}

type pathQueue []*pqNode

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].order < q[j].order
}
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)        { *q = append(*q, x.(*pqNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}

func (r *Registry) search(start Representation, operation string) (Path, error) {
	dist := map[Representation]int{start: 0}
	prev := make(map[Representation]*ConverterEntry)
	settled := make(map[Representation]bool)

	order := 0
	queue := &pathQueue{{rep: start, dist: 0, order: order}}
	heap.Init(queue)

	for queue.Len() > 0 {
		node := heap.Pop(queue).(*pqNode)
		if settled[node.rep] {
			continue
		}
		settled[node.rep] = true

		if r.Supports(node.rep, operation) {
			return reconstruct(start, node.rep, node.dist, prev), nil
		}

		for _, edge := range r.EdgesFrom(node.rep) {
			next := node.dist + edge.Cost
			if d, seen := dist[edge.Target]; seen && d <= next {
				continue
			}
			dist[edge.Target] = next
			prev[edge.Target] = edge
			order++
			heap.Push(queue, &pqNode{rep: edge.Target, dist: next, order: order})
		}
	}

	return Path{}, &UnsupportedOperationError{Start: start, Name: operation}
}

func reconstruct(start, end Representation, cost int, prev map[Representation]*ConverterEntry) Path {
	var steps []*ConverterEntry
	for rep := end; rep != start; {
		edge := prev[rep]
		steps = append(steps, edge)
		rep = edge.Source
	}
	// Reverse into traversal order.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return Path{Steps: steps, Cost: cost}
}

// cachedPath returns a memoized resolution if one was computed under the
// current registration generation. Any registration since then invalidates
// the whole cache; a stale path could silently miss newer, cheaper edges.
func (r *Registry) cachedPath(key opKey) (Path, bool) {
	r.mu.RLock()
	gen := r.generation
	r.mu.RUnlock()

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if r.cacheGen != gen {
		r.cache = make(map[opKey]Path)
		r.cacheGen = gen
		return Path{}, false
	}
	path, ok := r.cache[key]
	return path, ok
}

func (r *Registry) storePath(key opKey, path Path) {
	r.mu.RLock()
	gen := r.generation
	r.mu.RUnlock()

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if r.cacheGen != gen {
		r.cache = make(map[opKey]Path)
		r.cacheGen = gen
	}
	r.cache[key] = path
}
