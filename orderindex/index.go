// Package orderindex implements a generic, delete-capable Robin Hood
// open-addressing hash map keyed by an integer order id. Presence is
// tracked with an explicit occupancy slice rather than a reserved
// zero-key sentinel, since order ids may legitimately be zero; deletion
// uses backward-shift to keep probe sequences contiguous.
package orderindex

// ID is the set of integer types usable as an order id.
type ID interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Index is a Robin Hood hash map from K to V.
type Index[K ID, V any] struct {
	keys []K
	vals []V
	occ  []bool
	mask uint64
	size int
}

// New allocates an Index sized to hold capacityHint entries before its
// first grow.
func New[K ID, V any](capacityHint int) *Index[K, V] {
	size := nextPow2(capacityHint * 2) // keep load factor headroom from the start
	if size < 8 {
		size = 8
	}
	return &Index[K, V]{
		keys: make([]K, size),
		vals: make([]V, size),
		occ:  make([]bool, size),
		mask: size - 1,
	}
}

func nextPow2(n int) uint64 {
	if n < 1 {
		n = 1
	}
	s := uint64(1)
	for s < uint64(n) {
		s <<= 1
	}
	return s
}

// mix64 is the murmur3 finalizer, the same avalanche-mixing shape as
// pairidx.xxhMix64, applied here to an arbitrary integer key instead of
// a byte-slice hash.
//
//go:nosplit
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

func (idx *Index[K, V]) home(k K) uint64 {
	return mix64(uint64(k)) & idx.mask
}

func (idx *Index[K, V]) distanceOf(i uint64, k K) uint64 {
	return (i + idx.mask + 1 - idx.home(k)) & idx.mask
}

// Len returns the number of entries currently stored.
func (idx *Index[K, V]) Len() int { return idx.size }

func (idx *Index[K, V]) find(k K) (uint64, bool) {
	i := idx.home(k)
	dist := uint64(0)
	for {
		if !idx.occ[i] {
			return 0, false
		}
		if idx.keys[i] == k {
			return i, true
		}
		if idx.distanceOf(i, idx.keys[i]) < dist {
			return 0, false
		}
		i = (i + 1) & idx.mask
		dist++
	}
}

// Get returns a copy of the value stored for k.
func (idx *Index[K, V]) Get(k K) (V, bool) {
	i, ok := idx.find(k)
	if !ok {
		var zero V
		return zero, false
	}
	return idx.vals[i], true
}

// GetPtr returns a pointer to the stored value for in-place mutation.
// The returned pointer is invalidated by any subsequent Put that grows
// the table — callers must never retain it across a Put call.
func (idx *Index[K, V]) GetPtr(k K) (*V, bool) {
	i, ok := idx.find(k)
	if !ok {
		return nil, false
	}
	return &idx.vals[i], true
}

// Put inserts k=>v. If k already exists, its value is overwritten in
// place (the Robin Hood displacement path is only exercised for genuinely
// new keys).
func (idx *Index[K, V]) Put(k K, v V) {
	if float64(idx.size+1) > 0.9*float64(idx.mask+1) {
		idx.grow()
	}
	if i, ok := idx.find(k); ok {
		idx.vals[i] = v
		return
	}
	i := idx.home(k)
	curK, curV, dist := k, v, uint64(0)
	for {
		if !idx.occ[i] {
			idx.keys[i], idx.vals[i], idx.occ[i] = curK, curV, true
			idx.size++
			return
		}
		existingDist := idx.distanceOf(i, idx.keys[i])
		if existingDist < dist {
			idx.keys[i], curK = curK, idx.keys[i]
			idx.vals[i], curV = curV, idx.vals[i]
			dist = existingDist
		}
		i = (i + 1) & idx.mask
		dist++
	}
}

// Delete removes k, backward-shifting its cluster so subsequent probes
// stay correct. Reports whether k was present.
func (idx *Index[K, V]) Delete(k K) bool {
	i, ok := idx.find(k)
	if !ok {
		return false
	}
	var zeroK K
	var zeroV V
	idx.occ[i] = false
	idx.keys[i] = zeroK
	idx.vals[i] = zeroV
	idx.size--

	j := i
	for {
		next := (j + 1) & idx.mask
		if !idx.occ[next] || idx.distanceOf(next, idx.keys[next]) == 0 {
			break
		}
		idx.keys[j], idx.vals[j], idx.occ[j] = idx.keys[next], idx.vals[next], true
		idx.occ[next] = false
		j = next
	}
	return true
}

// Clear empties the index without shrinking its backing arrays.
func (idx *Index[K, V]) Clear() {
	for i := range idx.occ {
		idx.occ[i] = false
	}
	var zeroK K
	var zeroV V
	for i := range idx.keys {
		idx.keys[i] = zeroK
		idx.vals[i] = zeroV
	}
	idx.size = 0
}

func (idx *Index[K, V]) grow() {
	oldKeys, oldVals, oldOcc := idx.keys, idx.vals, idx.occ
	newCap := (idx.mask + 1) * 2
	idx.keys = make([]K, newCap)
	idx.vals = make([]V, newCap)
	idx.occ = make([]bool, newCap)
	idx.mask = newCap - 1
	idx.size = 0
	for i, occ := range oldOcc {
		if occ {
			idx.Put(oldKeys[i], oldVals[i])
		}
	}
}
