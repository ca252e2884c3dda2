package spatial

import (
	"sort"

	"github.com/caolo-go/sim/internal/hexgeom"
)

// MortonKey is a z-order curve key produced by bit-interleaving two
// unsigned 16-bit coordinates. Keys are only meaningful for coordinates in
// [0, 2^16).
type MortonKey uint32

// NewMortonKey interleaves x and y into a single sortable key.
func NewMortonKey(x, y uint16) MortonKey {
	return MortonKey(partition(uint32(x)) | (partition(uint32(y)) << 1))
}

// partition spreads the low 16 bits of n so each bit is followed by a zero,
// e.g. ----------------fedcba9876543210 -> -f-e-d-c-b-a-9-8-7-6-5-4-3-2-1-0.
func partition(n uint32) uint32 {
	n = (n ^ (n << 8)) & 0x00ff00ff
	n = (n ^ (n << 4)) & 0x0f0f0f0f
	n = (n ^ (n << 2)) & 0x33333333
	n = (n ^ (n << 1)) & 0x55555555
	return n
}

func reconstruct(n uint32) uint32 {
	n &= 0x55555555
	n = (n | (n >> 1)) & 0x33333333
	n = (n | (n >> 2)) & 0x0f0f0f0f
	n = (n | (n >> 4)) & 0x00ff00ff
	n = (n | (n >> 8)) & 0x0000ffff
	return n
}

// AsPoint reverses NewMortonKey, recovering the (x, y) pair.
func (k MortonKey) AsPoint() (uint16, uint16) {
	x := uint16(reconstruct(uint32(k)))
	y := uint16(reconstruct(uint32(k) >> 1))
	return x, y
}

// toUnsigned maps a signed axial component into the unsigned range a
// MortonKey can encode. Room-keyed tables only ever hold non-negative
// coordinates once translated into overworld space by the caller, so this
// is a narrowing cast guarded by the caller's contract, not a wraparound.
func toUnsigned(v int32) uint16 {
	return uint16(v)
}

// mortonNode pairs a key with the coordinates it was built from and the
// index of its value in the parallel values slice.
type mortonNode struct {
	key   MortonKey
	q, r  int32
	value int
}

// MortonTable is a sparse table keyed by axial coordinate, backed by a
// slice of nodes sorted by Morton key plus a parallel value slice. Lookup
// is binary search; range queries scan a contiguous key interval.
type MortonTable[V any] struct {
	nodes  []mortonNode
	values []V
}

func NewMortonTable[V any]() *MortonTable[V] {
	return &MortonTable[V]{}
}

func keyOf(pos hexgeom.Axial) MortonKey {
	return NewMortonKey(toUnsigned(pos.Q), toUnsigned(pos.R))
}

func (t *MortonTable[V]) search(key MortonKey) (int, bool) {
	i := sort.Search(len(t.nodes), func(i int) bool { return t.nodes[i].key >= key })
	if i < len(t.nodes) && t.nodes[i].key == key {
		return i, true
	}
	return i, false
}

// Get looks up the value stored at pos.
func (t *MortonTable[V]) Get(pos hexgeom.Axial) (V, bool) {
	var zero V
	i, ok := t.search(keyOf(pos))
	if !ok {
		return zero, false
	}
	return t.values[t.nodes[i].value], true
}

func (t *MortonTable[V]) ContainsKey(pos hexgeom.Axial) bool {
	_, ok := t.search(keyOf(pos))
	return ok
}

// Insert adds or replaces the value at pos, preserving sorted order by
// shifting the node slice in place.
func (t *MortonTable[V]) Insert(pos hexgeom.Axial, val V) {
	key := keyOf(pos)
	i, ok := t.search(key)
	if ok {
		t.values[t.nodes[i].value] = val
		return
	}
	vi := len(t.values)
	t.values = append(t.values, val)
	node := mortonNode{key: key, q: pos.Q, r: pos.R, value: vi}
	t.nodes = append(t.nodes, mortonNode{})
	copy(t.nodes[i+1:], t.nodes[i:len(t.nodes)-1])
	t.nodes[i] = node
}

// Remove deletes the value at pos, if present. To avoid an O(n) shift the
// value slot is filled by swapping in the last value and patching the
// moved value's node to point at its new index.
func (t *MortonTable[V]) Remove(pos hexgeom.Axial) {
	i, ok := t.search(keyOf(pos))
	if !ok {
		return
	}
	vi := t.nodes[i].value
	lastV := len(t.values) - 1
	if vi != lastV {
		t.values[vi] = t.values[lastV]
		for j := range t.nodes {
			if t.nodes[j].value == lastV {
				t.nodes[j].value = vi
				break
			}
		}
	}
	t.values = t.values[:lastV]
	t.nodes = append(t.nodes[:i], t.nodes[i+1:]...)
}

// Extend bulk-inserts pairs, sorting the node slice exactly once at the
// end rather than on every insert.
func (t *MortonTable[V]) Extend(pairs []struct {
	Pos hexgeom.Axial
	Val V
}) {
	for _, p := range pairs {
		vi := len(t.values)
		t.values = append(t.values, p.Val)
		t.nodes = append(t.nodes, mortonNode{key: keyOf(p.Pos), q: p.Pos.Q, r: p.Pos.R, value: vi})
	}
	sort.Slice(t.nodes, func(i, j int) bool { return t.nodes[i].key < t.nodes[j].key })
}

func (t *MortonTable[V]) Len() int { return len(t.values) }

// Each visits every (position, value) pair in key order.
func (t *MortonTable[V]) Each(fn func(hexgeom.Axial, V)) {
	for _, n := range t.nodes {
		fn(hexgeom.Axial{Q: n.q, R: n.r}, t.values[n.value])
	}
}

// boundingMortonRange computes the [min, max] Morton keys of the
// axis-aligned bounding box of a circle of the given radius around center.
func boundingMortonRange(center hexgeom.Axial, radius int32) (MortonKey, MortonKey) {
	minQ := clampU16(center.Q - radius)
	maxQ := clampU16(center.Q + radius)
	minR := clampU16(center.R - radius)
	maxR := clampU16(center.R + radius)
	return NewMortonKey(minQ, minR), NewMortonKey(maxQ, maxR)
}

func clampU16(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v)
}

// FindByRange scans the contiguous Morton-key range covering the bounding
// box of a circle of the given radius around center, filtering by true
// hex distance.
func (t *MortonTable[V]) FindByRange(center hexgeom.Axial, radius int32, visit func(hexgeom.Axial, V)) {
	lo, hi := boundingMortonRange(center, radius)
	i := sort.Search(len(t.nodes), func(i int) bool { return t.nodes[i].key >= lo })
	for ; i < len(t.nodes) && t.nodes[i].key <= hi; i++ {
		n := t.nodes[i]
		pos := hexgeom.Axial{Q: n.q, R: n.r}
		if pos.HexDistance(center) <= uint32(radius) {
			visit(pos, t.values[n.value])
		}
	}
}
