package book

import (
	"orderbook/bookcfg"
	"orderbook/diag"
)

// Insert places order at tick on side. Panics if order's id already
// exists. Out-of-range ticks are handled per the configured
// BoundsPolicy: Assert panics, Discard silently drops the insert.
func (b *Book[ID, V, Tck, O]) Insert(side Side, tick Tck, order O) {
	if !b.inDailyRange(tick) {
		switch b.cfg.Bounds {
		case bookcfg.BoundsAssert:
			panic("book: insert at out-of-range tick")
		case bookcfg.BoundsDiscard:
			return
		}
	}
	id := order.OrderID()
	if _, exists := b.orders.Get(id); exists {
		panic("book: duplicate insert of an existing order id")
	}
	normalized := order.WithTick(tick)
	b.orders.Put(id, record[ID, O]{order: normalized, side: side})
	rec, _ := b.orders.GetPtr(id)

	i := b.index(tick)
	lv := &b.levels(side)[i]
	lv.Volume += normalized.OrderVolume()

	if b.cfg.Storage == bookcfg.StorageFIFO {
		lv.Queue.PushBack(id, b.nodeLookup)
	}
	b.setOccupancy(side, i)

	var zero V
	if lv.Volume != zero {
		b.promoteBest(side, tick)
	}
	b.maybeZeroDelete(id, rec)
}

// Update moves/resizes an existing order to newTick with newOrder's
// volume. callerOldTick is accepted for API symmetry with Insert/Remove
// but is not trusted for level bookkeeping — the order index's stored
// tick is authoritative, for the same reason Remove ignores its caller
// tick: a caller's notion of where an order rests can drift from reality,
// and only the book's own bookkeeping is guaranteed current. When one side
// of the move is out of range and the book uses BoundsDiscard, the update
// behaves as a pure insert or pure remove on whichever side is in range.
func (b *Book[ID, V, Tck, O]) Update(side Side, callerOldTick, newTick Tck, newOrder O) {
	_ = callerOldTick
	id := newOrder.OrderID()
	rec, ok := b.orders.GetPtr(id)
	diag.Assert(ok, "book: update of an unknown order id")
	diag.Assert(rec.side == side, "book: update side does not match the order's resting side")

	oldTick := rec.order.OrderTick()
	oldInRange := b.inDailyRange(oldTick)
	newInRange := b.inDailyRange(newTick)

	if !oldInRange && !newInRange {
		if b.cfg.Bounds == bookcfg.BoundsAssert {
			panic("book: update entirely out of range")
		}
		rec.order = newOrder.WithTick(newTick)
		b.maybeZeroDelete(id, rec)
		return
	}
	if b.cfg.Bounds == bookcfg.BoundsAssert && (!oldInRange || !newInRange) {
		panic("book: update touches an out-of-range tick")
	}

	switch {
	case oldInRange && newInRange && oldTick == newTick:
		b.updateSameTick(side, id, rec, newOrder, newTick)
	case oldInRange && newInRange:
		b.updateTickChange(side, id, rec, newOrder, oldTick, newTick)
	case oldInRange && !newInRange:
		b.updateRemoveSide(side, id, rec, oldTick)
		rec.order = newOrder.WithTick(newTick)
	default: // !oldInRange && newInRange
		rec.order = newOrder.WithTick(newTick)
		b.updateInsertSide(side, id, rec, newTick)
	}
	b.maybeZeroDelete(id, rec)
}

func (b *Book[ID, V, Tck, O]) updateSameTick(side Side, id ID, rec *record[ID, O], newOrder O, tick Tck) {
	i := b.index(tick)
	lv := &b.levels(side)[i]
	oldVol := rec.order.OrderVolume()
	newVol := newOrder.OrderVolume()
	delta := newVol - oldVol
	lv.Volume += delta

	if b.cfg.Storage == bookcfg.StorageFIFO && delta > 0 {
		lv.Queue.MoveToBack(id, b.nodeLookup) // volume increase loses time priority
	}

	rec.order = newOrder.WithTick(tick)
	b.setOccupancy(side, i)

	var zero V
	if lv.Volume == zero {
		best := b.bestRef(side)
		if best.HasValue() && best.Tick() == tick {
			*best = b.rescanBest(side)
		}
	} else {
		b.promoteBest(side, tick)
	}
}

func (b *Book[ID, V, Tck, O]) updateTickChange(side Side, id ID, rec *record[ID, O], newOrder O, oldTick, newTick Tck) {
	b.updateRemoveSide(side, id, rec, oldTick)

	rec.order = newOrder.WithTick(newTick)
	b.updateInsertSide(side, id, rec, newTick)
}

func (b *Book[ID, V, Tck, O]) updateRemoveSide(side Side, id ID, rec *record[ID, O], tick Tck) {
	i := b.index(tick)
	lv := &b.levels(side)[i]
	lv.Volume -= rec.order.OrderVolume()

	if b.cfg.Storage == bookcfg.StorageFIFO && rec.node.InQueue() {
		lv.Queue.Erase(id, b.nodeLookup)
	}
	b.setOccupancy(side, i)

	var zero V
	if lv.Volume == zero {
		best := b.bestRef(side)
		if best.HasValue() && best.Tick() == tick {
			*best = b.rescanBest(side)
		}
	}
}

func (b *Book[ID, V, Tck, O]) updateInsertSide(side Side, id ID, rec *record[ID, O], tick Tck) {
	i := b.index(tick)
	lv := &b.levels(side)[i]
	lv.Volume += rec.order.OrderVolume()

	if b.cfg.Storage == bookcfg.StorageFIFO {
		lv.Queue.PushBack(id, b.nodeLookup)
	}
	b.setOccupancy(side, i)

	var zero V
	if lv.Volume != zero {
		b.promoteBest(side, tick)
	}
}

// Remove erases id from side. An unknown id is a contract violation and
// asserts regardless of BoundsPolicy. The order index's stored tick is
// authoritative for level bookkeeping, never the caller-supplied tick.
// Under BoundsDiscard, an out-of-range tick (caller-supplied or stored)
// still erases the index entry but never touches a price level.
func (b *Book[ID, V, Tck, O]) Remove(side Side, callerTick Tck, id ID) {
	rec, ok := b.orders.GetPtr(id)
	diag.Assert(ok, "book: remove of unknown order id")

	if !b.inDailyRange(callerTick) {
		switch b.cfg.Bounds {
		case bookcfg.BoundsAssert:
			panic("book: remove at out-of-range tick")
		case bookcfg.BoundsDiscard:
			b.orders.Delete(id)
			return
		}
	}

	tick := rec.order.OrderTick()
	if !b.inDailyRange(tick) {
		b.orders.Delete(id)
		return
	}
	i := b.index(tick)
	lv := &b.levels(side)[i]
	lv.Volume -= rec.order.OrderVolume()

	if b.cfg.Storage == bookcfg.StorageFIFO && rec.node.InQueue() {
		lv.Queue.Erase(id, b.nodeLookup)
	}
	b.setOccupancy(side, i)
	b.orders.Delete(id)

	var zero V
	if lv.Volume == zero {
		best := b.bestRef(side)
		if best.HasValue() && best.Tick() == tick {
			*best = b.rescanBest(side)
		}
	}
}

// maybeZeroDelete applies the Zero-Volume Policy after a mutation has
// already settled the order's final volume/tick: under ZeroAsDelete, an
// order resting with zero volume is unlinked from its level's FIFO
// queue (if any) and erased from the order index entirely. The level's
// volume total already reflects this order's zero contribution, so no
// further volume adjustment is needed here.
func (b *Book[ID, V, Tck, O]) maybeZeroDelete(id ID, rec *record[ID, O]) {
	if b.cfg.ZeroVolume != bookcfg.ZeroAsDelete {
		return
	}
	var zero V
	if rec.order.OrderVolume() != zero {
		return
	}
	if b.cfg.Storage == bookcfg.StorageFIFO && rec.node.InQueue() {
		i := b.index(rec.order.OrderTick())
		lv := &b.levels(rec.side)[i]
		lv.Queue.Erase(id, b.nodeLookup)
	}
	b.orders.Delete(id)
}
