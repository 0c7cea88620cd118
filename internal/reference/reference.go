// Package reference implements a deliberately naive map-backed order
// book used only from tests, as a trivially-correct oracle to
// differentially check the bitmap/level/orderindex-based book against.
package reference

// Order is the minimal accessor surface reference needs from a caller's
// order type.
type Order[Self any, ID comparable, V int64 | int32 | float64, Tck int32 | int64] interface {
	OrderID() ID
	OrderVolume() V
	OrderTick() Tck
	WithTick(Tck) Self
}

type level[V any] struct {
	volume V
	occ    bool
}

// Book is a map-of-ticks order book: one map per side from tick to
// aggregate volume, plus a flat id-to-order map. It enforces no storage
// policy (there is no FIFO queue) and no bounds policy beyond the
// inclusive [low,high] range check every operation performs — it exists
// to check aggregate volume and best-price bookkeeping only.
type Book[ID comparable, V int64 | int32 | float64, Tck int32 | int64, O Order[O, ID, V, Tck]] struct {
	low, high Tck

	bidLevels map[Tck]*level[V]
	askLevels map[Tck]*level[V]
	orders    map[ID]O

	bestBid    Tck
	hasBestBid bool
	bestAsk    Tck
	hasBestAsk bool
}

// New constructs an empty reference book over the inclusive tick range
// [low,high].
func New[ID comparable, V int64 | int32 | float64, Tck int32 | int64, O Order[O, ID, V, Tck]](low, high Tck) *Book[ID, V, Tck, O] {
	return &Book[ID, V, Tck, O]{
		low:       low,
		high:      high,
		bidLevels: make(map[Tck]*level[V]),
		askLevels: make(map[Tck]*level[V]),
		orders:    make(map[ID]O),
	}
}

func (b *Book[ID, V, Tck, O]) inRange(t Tck) bool { return t >= b.low && t <= b.high }

func (b *Book[ID, V, Tck, O]) levels(bid bool) map[Tck]*level[V] {
	if bid {
		return b.bidLevels
	}
	return b.askLevels
}

// InsertBid records a new resting bid. Out-of-range ticks are silently
// ignored, matching the permissive discard behavior of the benchmark
// oracle this is modeled on.
func (b *Book[ID, V, Tck, O]) InsertBid(tick Tck, order O) {
	b.insert(true, tick, order)
}

// InsertAsk is the ask-side counterpart of InsertBid.
func (b *Book[ID, V, Tck, O]) InsertAsk(tick Tck, order O) {
	b.insert(false, tick, order)
}

func (b *Book[ID, V, Tck, O]) insert(bid bool, tick Tck, order O) {
	if !b.inRange(tick) {
		return
	}
	normalized := order.WithTick(tick)
	b.orders[order.OrderID()] = normalized
	lv := b.levelAt(bid, tick)
	lv.volume += normalized.OrderVolume()
	lv.occ = true
	if bid {
		if !b.hasBestBid || tick > b.bestBid {
			b.bestBid, b.hasBestBid = tick, true
		}
	} else {
		if !b.hasBestAsk || tick < b.bestAsk {
			b.bestAsk, b.hasBestAsk = tick, true
		}
	}
}

func (b *Book[ID, V, Tck, O]) levelAt(bid bool, tick Tck) *level[V] {
	m := b.levels(bid)
	lv, ok := m[tick]
	if !ok {
		lv = &level[V]{}
		m[tick] = lv
	}
	return lv
}

// UpdateBid replaces the resting order at id with newOrder, possibly at
// a new tick.
func (b *Book[ID, V, Tck, O]) UpdateBid(newTick Tck, newOrder O) {
	b.update(true, newTick, newOrder)
}

// UpdateAsk is the ask-side counterpart of UpdateBid.
func (b *Book[ID, V, Tck, O]) UpdateAsk(newTick Tck, newOrder O) {
	b.update(false, newTick, newOrder)
}

func (b *Book[ID, V, Tck, O]) update(bid bool, newTick Tck, newOrder O) {
	if !b.inRange(newTick) {
		return
	}
	id := newOrder.OrderID()
	old, ok := b.orders[id]
	if !ok {
		return
	}
	oldTick := old.OrderTick()
	oldVol := old.OrderVolume()
	newVol := newOrder.OrderVolume()
	b.orders[id] = newOrder.WithTick(newTick)

	if newTick == oldTick {
		lv := b.levelAt(bid, newTick)
		lv.volume += newVol - oldVol
		if lv.volume == 0 {
			delete(b.levels(bid), newTick)
			b.maybeRescanAfterEmptying(bid, oldTick)
		}
		return
	}

	oldLv := b.levelAt(bid, oldTick)
	oldLv.volume -= oldVol
	if oldLv.volume == 0 {
		delete(b.levels(bid), oldTick)
	}

	newLv := b.levelAt(bid, newTick)
	newLv.volume += newVol

	if bid {
		if newTick > b.bestBid || !b.hasBestBid {
			b.bestBid, b.hasBestBid = newTick, true
		} else if oldTick == b.bestBid {
			b.rescanBest(true)
		}
	} else {
		if newTick < b.bestAsk || !b.hasBestAsk {
			b.bestAsk, b.hasBestAsk = newTick, true
		} else if oldTick == b.bestAsk {
			b.rescanBest(false)
		}
	}
}

func (b *Book[ID, V, Tck, O]) maybeRescanAfterEmptying(bid bool, tick Tck) {
	if bid && tick == b.bestBid {
		b.rescanBest(true)
	} else if !bid && tick == b.bestAsk {
		b.rescanBest(false)
	}
}

// RemoveBid erases id from the bid side.
func (b *Book[ID, V, Tck, O]) RemoveBid(id ID) {
	b.remove(true, id)
}

// RemoveAsk erases id from the ask side.
func (b *Book[ID, V, Tck, O]) RemoveAsk(id ID) {
	b.remove(false, id)
}

func (b *Book[ID, V, Tck, O]) remove(bid bool, id ID) {
	order, ok := b.orders[id]
	if !ok {
		return
	}
	tick := order.OrderTick()
	delete(b.orders, id)
	if !b.inRange(tick) {
		return
	}
	lv := b.levelAt(bid, tick)
	lv.volume -= order.OrderVolume()
	if lv.volume == 0 {
		delete(b.levels(bid), tick)
		b.maybeRescanAfterEmptying(bid, tick)
	}
}

func (b *Book[ID, V, Tck, O]) rescanBest(bid bool) {
	m := b.levels(bid)
	if len(m) == 0 {
		if bid {
			b.hasBestBid = false
		} else {
			b.hasBestAsk = false
		}
		return
	}
	first := true
	var best Tck
	for tick := range m {
		if first || (bid && tick > best) || (!bid && tick < best) {
			best, first = tick, false
		}
	}
	if bid {
		b.bestBid, b.hasBestBid = best, true
	} else {
		b.bestAsk, b.hasBestAsk = best, true
	}
}

// BestBid returns the current best bid tick and whether one exists.
func (b *Book[ID, V, Tck, O]) BestBid() (Tck, bool) { return b.bestBid, b.hasBestBid }

// BestAsk returns the current best ask tick and whether one exists.
func (b *Book[ID, V, Tck, O]) BestAsk() (Tck, bool) { return b.bestAsk, b.hasBestAsk }

// BidVolumeAtTick returns the aggregate resting bid volume at tick.
func (b *Book[ID, V, Tck, O]) BidVolumeAtTick(tick Tck) V { return b.volumeAt(true, tick) }

// AskVolumeAtTick returns the aggregate resting ask volume at tick.
func (b *Book[ID, V, Tck, O]) AskVolumeAtTick(tick Tck) V { return b.volumeAt(false, tick) }

func (b *Book[ID, V, Tck, O]) volumeAt(bid bool, tick Tck) V {
	var zero V
	if !b.inRange(tick) {
		return zero
	}
	lv, ok := b.levels(bid)[tick]
	if !ok {
		return zero
	}
	return lv.volume
}

// GetOrder returns the order resting at id, if any.
func (b *Book[ID, V, Tck, O]) GetOrder(id ID) (O, bool) {
	o, ok := b.orders[id]
	return o, ok
}
