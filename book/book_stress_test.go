package book

import (
	"math/rand"
	"testing"

	"orderbook/bookcfg"
	"orderbook/internal/reference"
)

// refOrder adapts testOrder to reference.Order's accessor surface.
type refOrder = testOrder

// TestBookStressAgainstReference drives a long randomized sequence of
// insert/update/remove across both sides through both the bitmap/level
// book and a naive map-backed oracle, checking best bid/ask and
// per-tick volume agree after every step. Uses Discard bounds and
// ZeroAsValid so the oracle's permissive out-of-range and zero-volume
// handling matches exactly.
func TestBookStressAgainstReference(t *testing.T) {
	const low, high = 90, 110
	cfg := bookcfg.Config[int32]{
		Stats: bookcfg.Stats[int32]{
			DailyHigh: high, DailyLow: low, DailyClose: 100, ExpectedRange: 0.1,
		},
		Bounds:     bookcfg.BoundsDiscard,
		ZeroVolume: bookcfg.ZeroAsValid,
		Storage:    bookcfg.StorageAggregate,
	}
	got := New[uint64, int64, int32, testOrder](cfg)
	want := reference.New[uint64, int64, int32, refOrder](low, high)

	rng := rand.New(rand.NewSource(42))
	liveIDs := make([]uint64, 0, 256)
	liveSide := make(map[uint64]Side)
	var nextID uint64 = 1

	randTick := func() int32 { return int32(low) + int32(rng.Intn(int(high-low)+1)) }
	// Volumes are always strictly positive: a brand-new order (or the
	// insert side of a tick-changing update) carrying zero volume is
	// deliberately handled differently by the two implementations (see
	// TestZeroVolumeInsertKeepsInvariantsUnderZeroAsValid) and is out of
	// scope for this aggregate-volume/best-price agreement check.
	randVol := func() int64 { return int64(rng.Intn(20) + 1) }

	checkAgreement := func(step int) {
		gb, gbok := got.BestBid(), got.BestBid().HasValue()
		wb, wbok := want.BestBid()
		if gbok != wbok || (gbok && gb.Tick() != wb) {
			t.Fatalf("step %d: BestBid mismatch: got %v (ok=%v), want tick=%v (ok=%v)", step, gb, gbok, wb, wbok)
		}
		ga, gaok := got.BestAsk(), got.BestAsk().HasValue()
		wa, waok := want.BestAsk()
		if gaok != waok || (gaok && ga.Tick() != wa) {
			t.Fatalf("step %d: BestAsk mismatch: got %v (ok=%v), want tick=%v (ok=%v)", step, ga, gaok, wa, waok)
		}
		for tick := int32(low); tick <= high; tick++ {
			if gv, wv := got.BidVolumeAtTick(tick), want.BidVolumeAtTick(tick); gv != wv {
				t.Fatalf("step %d: BidVolumeAtTick(%d) = %d; want %d", step, tick, gv, wv)
			}
			if gv, wv := got.AskVolumeAtTick(tick), want.AskVolumeAtTick(tick); gv != wv {
				t.Fatalf("step %d: AskVolumeAtTick(%d) = %d; want %d", step, tick, gv, wv)
			}
		}
	}

	for step := 0; step < 2000; step++ {
		op := rng.Intn(3)
		switch {
		case op == 0 || len(liveIDs) == 0: // insert
			side := Bid
			if rng.Intn(2) == 1 {
				side = Ask
			}
			id := nextID
			nextID++
			tick := randTick()
			vol := randVol()
			o := testOrder{id: id, volume: vol}
			got.Insert(side, tick, o)
			if side == Bid {
				want.InsertBid(tick, o)
			} else {
				want.InsertAsk(tick, o)
			}
			liveIDs = append(liveIDs, id)
			liveSide[id] = side

		case op == 1: // update
			id := liveIDs[rng.Intn(len(liveIDs))]
			side := liveSide[id]
			newTick := randTick()
			newVol := randVol()
			cur, ok := got.GetOrder(id)
			if !ok {
				continue
			}
			o := cur.WithVolume(newVol)
			got.Update(side, cur.OrderTick(), newTick, o)
			if side == Bid {
				want.UpdateBid(newTick, o)
			} else {
				want.UpdateAsk(newTick, o)
			}

		default: // remove
			i := rng.Intn(len(liveIDs))
			id := liveIDs[i]
			side := liveSide[id]
			cur, ok := got.GetOrder(id)
			if ok {
				got.Remove(side, cur.OrderTick(), id)
			}
			if side == Bid {
				want.RemoveBid(id)
			} else {
				want.RemoveAsk(id)
			}
			liveIDs[i] = liveIDs[len(liveIDs)-1]
			liveIDs = liveIDs[:len(liveIDs)-1]
			delete(liveSide, id)
		}
		checkAgreement(step)
	}
}
