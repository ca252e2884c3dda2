package pathfinding

import "github.com/caolo-go/sim/internal/hexgeom"

// node is one open-set entry. fCost is stored negated so a container/heap
// max-heap primitive behaves like a min-heap (spec's stated trick);
// inserted records the insertion order used to break ties when two nodes
// share the same f-cost, since heap.Interface gives no stability guarantee.
type node struct {
	pos       hexgeom.Axial
	gCost     uint32
	negFCost  int64
	inserted  int
	index     int // maintained by heap.Interface
	cameFrom  hexgeom.Axial
	hasParent bool
}

// openSet is a container/heap.Interface over node, ordered by the highest
// negFCost (i.e. lowest fCost) first, grounded on the nodeHeap idiom from
// the tycoon server's A* implementation.
type openSet []*node

func (h openSet) Len() int { return len(h) }

func (h openSet) Less(i, j int) bool {
	if h[i].negFCost != h[j].negFCost {
		return h[i].negFCost > h[j].negFCost
	}
	return h[i].inserted < h[j].inserted
}

func (h openSet) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *openSet) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *openSet) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}
