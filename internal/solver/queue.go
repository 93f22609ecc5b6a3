package solver

// priorityQueue implements container/heap.Interface over *SearchState,
// ordered by each state's precomputed strategy key. Adapted directly
// from the generic priority-queue-over-nodes idiom used elsewhere in
// this module's search helpers (see pathfind.openSet).
type priorityQueue []*SearchState

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	return q[i].key < q[j].key
}

func (q priorityQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}

func (q *priorityQueue) Push(x interface{}) {
	state := x.(*SearchState)
	state.index = len(*q)
	*q = append(*q, state)
}

func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
