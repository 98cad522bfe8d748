// Package ingest implements the swap handler (component E): it
// orchestrates the decoder, enricher, and reconstructor for a single
// candidate swap, looks up metadata, computes market cap, and fans the
// result out to the three sinks concurrently.
//
// Grounded on process_swap.rs (read via original_source) for the
// overall orchestration order, and on the teacher's
// mempool.Poller.Run per-tick processing for the "spawn so the
// upstream decoder is not blocked" per-swap fan-out shape.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/listenlabs/swapindexer-engine/internal/bus"
	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
	"github.com/listenlabs/swapindexer-engine/internal/chainutil"
	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/metadata"
	"github.com/listenlabs/swapindexer-engine/internal/metrics"
	"github.com/listenlabs/swapindexer-engine/internal/mintinfo"
	"github.com/listenlabs/swapindexer-engine/internal/reconstruct"
	"github.com/listenlabs/swapindexer-engine/internal/store"
	"github.com/listenlabs/swapindexer-engine/internal/warehouse"
	"github.com/listenlabs/swapindexer-engine/pkg/models"
)

// SwapContext is what a DEX-specific processor (component D) extracts
// and dispatches: the vault/fee account sets, the nested instructions
// carrying the token transfers, and enough transaction metadata to
// build the mint-detail map and populate the PriceUpdate.
type SwapContext struct {
	Signature    string
	Slot         uint64
	FeePayer     string
	DexTag       string
	Vaults       map[string]struct{}
	FeeAccounts  map[string]struct{}
	Nested       []decode.DecodedInstruction
	TxMeta       mintinfo.TransactionMeta
}

// Handler wires together every collaborator the swap handler needs:
// the metadata service, the three sinks, metrics, and the shared
// native-price cell.
type Handler struct {
	Metadata     *metadata.Service
	Warehouse    *warehouse.Warehouse
	Publisher    *bus.Publisher
	Cache        *store.Cache
	Metrics      *metrics.Collectors
	NativePrice  *chainutil.AtomicFloat64
	NativeMint   string
	PumpSubstring string
	Log          *zap.Logger
}

// Dispatch spawns an independent goroutine to process sc, so the
// caller (a DEX-specific processor, or ultimately the upstream decoder
// stream) is never blocked on a single swap's I/O.
func (h *Handler) Dispatch(ctx context.Context, sc SwapContext) {
	h.Metrics.TotalSwaps.Inc()
	h.Metrics.SwapsByDex.WithLabelValues(sc.DexTag).Inc()
	h.Metrics.PendingSwaps.Inc()
	go h.handle(ctx, sc)
}

func (h *Handler) handle(ctx context.Context, sc SwapContext) {
	defer h.Metrics.PendingSwaps.Dec()

	mintDetails := mintinfo.BuildMintMap(h.Log, sc.Signature, sc.TxMeta)

	decoded := decodeNested(sc.Nested)
	mintinfo.Enrich(decoded, mintDetails)

	diffs, skip := reconstruct.Reconstruct(decoded, sc.Vaults, sc.FeeAccounts, h.NativeMint, h.NativePrice.Load())
	if skip != reconstruct.SkipNone {
		h.recordSkip(skip)
		return
	}

	meta, err := h.Metadata.GetTokenMetadata(ctx, diffs.CoinMint)
	if err != nil || meta == nil {
		h.Metrics.SkippedNoMetadata.Inc()
		if h.Log != nil {
			h.Log.Warn("no metadata for mint", zap.String("mint", diffs.CoinMint), zap.Error(err))
		}
		return
	}

	isPump := metadata.IsPumpSubstring(*meta, h.PumpSubstring)
	supplyUI := supplyToUI(meta.Spl.Supply, meta.Spl.Decimals)
	marketCap := diffs.Price * supplyUI

	update := models.PriceUpdate{
		Name:       meta.Mpl.Name,
		Pubkey:     diffs.CoinMint,
		Price:      diffs.Price,
		MarketCap:  marketCap,
		Timestamp:  time.Now().Unix(),
		Slot:       sc.Slot,
		SwapAmount: diffs.SwapAmount,
		Owner:      sc.FeePayer,
		Signature:  sc.Signature,
		MultiHop:   len(decoded) > 2,
		IsBuy:      diffs.IsBuy,
		IsPump:     isPump,
	}

	h.Metrics.LatestUpdateSlot.Set(float64(sc.Slot))
	if err := h.dispatchSinks(ctx, update); err != nil {
		h.Metrics.FailedSwaps.Inc()
		return
	}
	h.Metrics.SuccessfulSwaps.Inc()
}

// dispatchSinks runs all three sinks concurrently and awaits all
// three, per the spec's "three-way concurrent sink" design note: the
// first error propagates, but the other two still run to completion
// because they were started concurrently, and every sink's
// success/failure is counted independently.
func (h *Handler) dispatchSinks(ctx context.Context, update models.PriceUpdate) error {
	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex

	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		if h.Warehouse == nil {
			return
		}
		if err := h.Warehouse.InsertPriceUpdate(ctx, update); err != nil {
			h.Metrics.DBInsertFailure.Inc()
			record(fmt.Errorf("warehouse insert: %w", err))
			return
		}
		h.Metrics.DBInsertSuccess.Inc()
	}()
	go func() {
		defer wg.Done()
		if err := h.Publisher.Publish(ctx, update); err != nil {
			h.Metrics.MessageSendFailure.Inc()
			record(fmt.Errorf("bus publish: %w", err))
			return
		}
		h.Metrics.MessageSendSuccess.Inc()
	}()
	go func() {
		defer wg.Done()
		if err := h.Cache.PutPrice(ctx, update.Pubkey, update); err != nil {
			h.Metrics.KVInsertFailure.Inc()
			record(fmt.Errorf("kv insert: %w", err))
			return
		}
		h.Metrics.KVInsertSuccess.Inc()
	}()
	wg.Wait()

	if firstErr != nil && h.Log != nil {
		h.Log.Warn("sink dispatch had a failure", zap.Error(firstErr), zap.String("signature", update.Signature))
	}
	return firstErr
}

func (h *Handler) recordSkip(skip reconstruct.SkipReason) {
	switch skip {
	case reconstruct.SkipUnexpectedCount:
		h.Metrics.SkippedUnexpectedCount.Inc()
	case reconstruct.SkipDust:
		h.Metrics.SkippedTiny.Inc()
	case reconstruct.SkipZero:
		h.Metrics.SkippedZero.Inc()
	case reconstruct.SkipNonNative:
		h.Metrics.SkippedNonNative.Inc()
	}
}

// decodeNested runs the token-transfer decoder (component A) over
// every nested instruction, keeping only the ones that decode as
// transfers.
func decodeNested(nested []decode.DecodedInstruction) []chainmodel.TokenTransferDetails {
	out := make([]chainmodel.TokenTransferDetails, 0, len(nested))
	for _, ix := range nested {
		if details, ok := decode.DecodeTransfer(ix); ok {
			out = append(out, details)
		}
	}
	return out
}

func supplyToUI(supply uint64, decimals uint8) float64 {
	divisor := 1.0
	for i := uint8(0); i < decimals; i++ {
		divisor *= 10
	}
	return float64(supply) / divisor
}
