package book

import (
	"testing"

	"orderbook/bookcfg"
)

func benchConfig(storage bookcfg.StorageKind) bookcfg.Config[int32] {
	return bookcfg.Config[int32]{
		Stats: bookcfg.Stats[int32]{
			DailyHigh: 20000, DailyLow: 10000, DailyClose: 15000, ExpectedRange: 0.2,
		},
		Bounds:     bookcfg.BoundsAssert,
		ZeroVolume: bookcfg.ZeroAsValid,
		Storage:    storage,
	}
}

func BenchmarkInsertAggregate(b *testing.B) {
	bk := New[uint64, int64, int32, testOrder](benchConfig(bookcfg.StorageAggregate))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tick := int32(10000 + i%10000)
		bk.Insert(Bid, tick, testOrder{id: uint64(i), volume: 10})
		bk.Remove(Bid, tick, uint64(i))
	}
}

func BenchmarkInsertFIFO(b *testing.B) {
	bk := New[uint64, int64, int32, testOrder](benchConfig(bookcfg.StorageFIFO))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tick := int32(10000 + i%10000)
		bk.Insert(Bid, tick, testOrder{id: uint64(i), volume: 10})
		bk.Remove(Bid, tick, uint64(i))
	}
}

func BenchmarkUpdateSameTick(b *testing.B) {
	bk := New[uint64, int64, int32, testOrder](benchConfig(bookcfg.StorageAggregate))
	bk.Insert(Bid, 15000, testOrder{id: 1, volume: 10})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bk.Update(Bid, 15000, 15000, testOrder{id: 1, volume: int64(i%10 + 1)})
	}
}

func BenchmarkBestBidQuery(b *testing.B) {
	bk := New[uint64, int64, int32, testOrder](benchConfig(bookcfg.StorageAggregate))
	for i := 0; i < 5000; i++ {
		bk.Insert(Bid, int32(10000+i), testOrder{id: uint64(i), volume: 1})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.BestBid()
	}
}

func BenchmarkBidAtLevel(b *testing.B) {
	bk := New[uint64, int64, int32, testOrder](benchConfig(bookcfg.StorageAggregate))
	for i := 0; i < 5000; i++ {
		bk.Insert(Bid, int32(10000+i), testOrder{id: uint64(i), volume: 1})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.BidAtLevel(i % 5000)
	}
}
