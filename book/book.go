package book

import (
	"orderbook/bitmap"
	"orderbook/bookcfg"
	"orderbook/level"
	"orderbook/orderindex"
	"orderbook/ticktype"
)

// Book is a price-indexed limit order book over a construction-time-fixed
// tick window. ID, V, and Tck are the order id, volume, and tick numeric
// types; O is the caller's order type, satisfying Order[O,ID,V,Tck].
type Book[ID orderindex.ID, V level.Volume, Tck ticktype.Tick, O Order[O, ID, V, Tck]] struct {
	cfg bookcfg.Config[Tck]
	win bookcfg.Window[Tck]

	bidLevels []level.Level[V, ID]
	askLevels []level.Level[V, ID]
	bidBitmap *bitmap.Bitmap
	askBitmap *bitmap.Bitmap
	bestBid   ticktype.Strong[Tck]
	bestAsk   ticktype.Strong[Tck]

	orders *orderindex.Index[ID, record[ID, O]]
}

// New constructs a Book from cfg, deriving its internal price window and
// reserving order-index capacity well above the window size so steady-state
// order traffic rarely forces a rehash.
func New[ID orderindex.ID, V level.Volume, Tck ticktype.Tick, O Order[O, ID, V, Tck]](cfg bookcfg.Config[Tck]) *Book[ID, V, Tck, O] {
	cfg.Validate()
	win := cfg.DeriveWindow()
	return &Book[ID, V, Tck, O]{
		cfg:       cfg,
		win:       win,
		bidLevels: make([]level.Level[V, ID], win.N),
		askLevels: make([]level.Level[V, ID], win.N),
		bidBitmap: bitmap.New(win.N),
		askBitmap: bitmap.New(win.N),
		orders:    orderindex.New[ID, record[ID, O]](win.N * 10),
	}
}

// Window returns the book's derived price window.
func (b *Book[ID, V, Tck, O]) Window() bookcfg.Window[Tck] { return b.win }

func (b *Book[ID, V, Tck, O]) levels(s Side) []level.Level[V, ID] {
	if s == Bid {
		return b.bidLevels
	}
	return b.askLevels
}

func (b *Book[ID, V, Tck, O]) bm(s Side) *bitmap.Bitmap {
	if s == Bid {
		return b.bidBitmap
	}
	return b.askBitmap
}

func (b *Book[ID, V, Tck, O]) bestRef(s Side) *ticktype.Strong[Tck] {
	if s == Bid {
		return &b.bestBid
	}
	return &b.bestAsk
}

func (b *Book[ID, V, Tck, O]) index(t Tck) int { return int(t) - int(b.win.RangeLow) }

func (b *Book[ID, V, Tck, O]) tickAt(i int) Tck { return Tck(int(b.win.RangeLow) + i) }

func (b *Book[ID, V, Tck, O]) inDailyRange(t Tck) bool {
	return t >= b.cfg.Stats.DailyLow && t <= b.cfg.Stats.DailyHigh
}

func (b *Book[ID, V, Tck, O]) promoteBest(s Side, t Tck) {
	ref := b.bestRef(s)
	if s == Bid {
		*ref = ticktype.PromoteIfHigher(*ref, t)
	} else {
		*ref = ticktype.PromoteIfLower(*ref, t)
	}
}

func (b *Book[ID, V, Tck, O]) rescanBest(s Side) ticktype.Strong[Tck] {
	var idx int
	var ok bool
	if s == Bid {
		idx, ok = b.bm(s).FindHighest()
	} else {
		idx, ok = b.bm(s).FindLowest()
	}
	if !ok {
		return ticktype.None[Tck]()
	}
	return ticktype.Of(b.tickAt(idx))
}

// setOccupancy re-derives level i's occupancy bit from its current
// volume, maintaining P1 (bitmap[i] == (volume != 0)) regardless of
// which operation mutated the level.
func (b *Book[ID, V, Tck, O]) setOccupancy(s Side, i int) {
	var zero V
	lv := &b.levels(s)[i]
	b.bm(s).Set(i, lv.Volume != zero)
}

// nodeLookup resolves an order id to the intrusive FIFO node embedded in
// its stored record. Safe only because FIFO queue operations never grow
// the order index (they never call Put, only GetPtr on ids already
// present) — a grow would relocate the index's backing slices and
// invalidate any pointer taken before it.
func (b *Book[ID, V, Tck, O]) nodeLookup(id ID) *level.Node[ID] {
	rec, ok := b.orders.GetPtr(id)
	if !ok {
		panic("book: fifo lookup on unknown order id")
	}
	return &rec.node
}
