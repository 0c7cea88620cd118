package book

import (
	"orderbook/bitmap"
	"orderbook/bookcfg"
	"orderbook/diag"
	"orderbook/level"
	"orderbook/ticktype"
)

// BestBid returns the highest bid tick, or a no-value Strong tick if the
// book holds no bids.
func (b *Book[ID, V, Tck, O]) BestBid() ticktype.Strong[Tck] { return b.bestBid }

// BestAsk returns the lowest ask tick, or a no-value Strong tick if the
// book holds no asks.
func (b *Book[ID, V, Tck, O]) BestAsk() ticktype.Strong[Tck] { return b.bestAsk }

// BidVolumeAtTick returns the total resting bid volume at tick, or the
// zero value of V if tick is outside the daily range.
func (b *Book[ID, V, Tck, O]) BidVolumeAtTick(tick Tck) V { return b.volumeAtTick(Bid, tick) }

// AskVolumeAtTick returns the total resting ask volume at tick, or the
// zero value of V if tick is outside the daily range.
func (b *Book[ID, V, Tck, O]) AskVolumeAtTick(tick Tck) V { return b.volumeAtTick(Ask, tick) }

func (b *Book[ID, V, Tck, O]) volumeAtTick(side Side, tick Tck) V {
	var zero V
	if !b.inDailyRange(tick) {
		return zero
	}
	return b.levels(side)[b.index(tick)].Volume
}

// BidAtLevel returns a synthetic order carrying the k-th best bid
// level's aggregate volume and tick (k is zero-based: k==0 is the best
// bid). Returns the zero value of O if k is not less than the number of
// occupied bid levels.
func (b *Book[ID, V, Tck, O]) BidAtLevel(k int) O { return b.atLevel(Bid, k) }

// AskAtLevel is the ask-side symmetric counterpart of BidAtLevel.
func (b *Book[ID, V, Tck, O]) AskAtLevel(k int) O { return b.atLevel(Ask, k) }

func (b *Book[ID, V, Tck, O]) atLevel(side Side, k int) O {
	var zero O
	i, err := b.levelIndexAt(side, k)
	if err != nil {
		return zero
	}
	lv := &b.levels(side)[i]
	return zero.WithVolume(lv.Volume).WithTick(b.tickAt(i))
}

func (b *Book[ID, V, Tck, O]) levelIndexAt(side Side, k int) (int, error) {
	if side == Bid {
		return b.bm(side).SelectFromHigh(k)
	}
	return b.bm(side).SelectFromLow(k)
}

// FrontOrderAtBidLevel returns the order resting longest at the k-th
// best bid level (FIFO-storage books only; panics on an Aggregate
// book). Reports false if k is out of range or the level's queue is
// empty.
func (b *Book[ID, V, Tck, O]) FrontOrderAtBidLevel(k int) (O, bool) {
	return b.frontOrderAtLevel(Bid, k)
}

// FrontOrderAtAskLevel is the ask-side counterpart of
// FrontOrderAtBidLevel.
func (b *Book[ID, V, Tck, O]) FrontOrderAtAskLevel(k int) (O, bool) {
	return b.frontOrderAtLevel(Ask, k)
}

func (b *Book[ID, V, Tck, O]) frontOrderAtLevel(side Side, k int) (O, bool) {
	diag.Assert(b.cfg.Storage == bookcfg.StorageFIFO, "book: front_order query on a non-FIFO book")
	var zero O
	i, err := b.levelIndexAt(side, k)
	if err != nil {
		return zero, false
	}
	lv := &b.levels(side)[i]
	id, ok := lv.Queue.Front()
	if !ok {
		return zero, false
	}
	rec, ok := b.orders.Get(id)
	diag.Assert(ok, "book: fifo front references an unknown order id")
	return rec.order, true
}

// GetOrder returns a copy of the stored order for id, or the zero value
// of O and false if id is not resting in the book.
func (b *Book[ID, V, Tck, O]) GetOrder(id ID) (O, bool) {
	rec, ok := b.orders.Get(id)
	if !ok {
		var zero O
		return zero, false
	}
	return rec.order, true
}

// Clear empties the book entirely: every level, both bitmaps, both best
// caches, and the order index.
func (b *Book[ID, V, Tck, O]) Clear() {
	for i := range b.bidLevels {
		b.bidLevels[i] = level.Level[V, ID]{}
	}
	for i := range b.askLevels {
		b.askLevels[i] = level.Level[V, ID]{}
	}
	b.bidBitmap = bitmap.New(b.win.N)
	b.askBitmap = bitmap.New(b.win.N)
	b.bestBid = ticktype.None[Tck]()
	b.bestAsk = ticktype.None[Tck]()
	b.orders.Clear()
}
