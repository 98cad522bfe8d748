package reconstruct

import (
	"context"
	"log"
	"time"

	"github.com/listenlabs/swapindexer-engine/internal/chainutil"
)

// PriceSource is the external collaborator that supplies the current
// native-asset USD price; out of scope per the spec's external-interface
// boundary, so only a minimal pull interface is defined here.
type PriceSource interface {
	NativeUSDPrice(ctx context.Context) (float64, error)
}

// PriceFeed periodically refreshes a shared AtomicFloat64 cell from a
// PriceSource, mirroring the teacher's mempool.Poller.Run ticker loop.
type PriceFeed struct {
	source   PriceSource
	cell     *chainutil.AtomicFloat64
	interval time.Duration
}

func NewPriceFeed(source PriceSource, cell *chainutil.AtomicFloat64, interval time.Duration) *PriceFeed {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &PriceFeed{source: source, cell: cell, interval: interval}
}

func (f *PriceFeed) Run(ctx context.Context) {
	f.refresh(ctx)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.refresh(ctx)
		}
	}
}

func (f *PriceFeed) refresh(ctx context.Context) {
	price, err := f.source.NativeUSDPrice(ctx)
	if err != nil {
		log.Printf("[PriceFeed] refresh failed: %v", err)
		return
	}
	f.cell.Store(price)
}
