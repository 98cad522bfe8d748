package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
	"github.com/listenlabs/swapindexer-engine/internal/metrics"
	"github.com/listenlabs/swapindexer-engine/internal/pipeline"
	"github.com/listenlabs/swapindexer-engine/pkg/models"
)

// PipelineStore is the persistence boundary the engine depends on;
// satisfied by *store.Store in production and a fake in tests.
type PipelineStore interface {
	Save(ctx context.Context, p *pipeline.Pipeline) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	GetAll(ctx context.Context) ([]*pipeline.Pipeline, error)
}

// OrderExecutor is the execution boundary the engine depends on;
// satisfied by *executor.Executor in production and a fake in tests.
type OrderExecutor interface {
	ExecuteOrder(ctx context.Context, order pipeline.SwapOrder, userID string, wallet, pubkey *string) (string, error)
}

// pipelineEntry pairs a pipeline with its own mutex, so evaluating
// distinct pipelines concurrently is safe while the same pipeline is
// never evaluated twice at once — the per-pipeline granularity the
// spec's locking-order invariant requires.
type pipelineEntry struct {
	mu sync.Mutex
	p  *pipeline.Pipeline
}

// Engine holds exactly three shared-read/exclusive-write primitives:
// activePipelines, assetSubscriptions, and priceCache.
type Engine struct {
	store    PipelineStore
	executor OrderExecutor
	metrics  *metrics.Collectors

	activePipelinesMu sync.RWMutex
	activePipelines   map[uuid.UUID]*pipelineEntry

	assetSubscriptionsMu sync.RWMutex
	assetSubscriptions   map[string]map[uuid.UUID]struct{}

	priceCacheMu sync.RWMutex
	priceCache   map[string]float64

	commands chan Command
	incoming chan models.PriceUpdate
}

func New(st PipelineStore, exec OrderExecutor, m *metrics.Collectors) *Engine {
	return &Engine{
		store:              st,
		executor:           exec,
		metrics:            m,
		activePipelines:    make(map[uuid.UUID]*pipelineEntry),
		assetSubscriptions: make(map[string]map[uuid.UUID]struct{}),
		priceCache:         make(map[string]float64),
		commands:           make(chan Command, 16),
		incoming:           make(chan models.PriceUpdate, 1000),
	}
}

// Commands returns the sole channel external code may use to mutate
// engine state.
func (e *Engine) Commands() chan<- Command { return e.commands }

// Incoming returns the channel the price-update-bus subscriber
// forwards deserialized updates into.
func (e *Engine) Incoming() chan<- models.PriceUpdate { return e.incoming }

// Run loads every persisted pipeline, then services the command and
// price-update channels until both are closed.
func (e *Engine) Run(ctx context.Context) error {
	pipelines, err := e.store.GetAll(ctx)
	if err != nil {
		return chainmodel.NewKindError(chainmodel.ErrKindGetPipeline, "failed to load pipelines at startup", err)
	}
	for _, p := range pipelines {
		e.addPipelineLocked(p)
	}
	log.Printf("[Engine] loaded %d pipelines", len(pipelines))

	commands, incoming := e.commands, e.incoming
	for commands != nil || incoming != nil {
		select {
		case <-ctx.Done():
			return nil
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			e.handleCommand(ctx, cmd)
		case update, ok := <-incoming:
			if !ok {
				incoming = nil
				continue
			}
			if err := e.handlePriceUpdate(ctx, update.Pubkey, update.Price); err != nil {
				log.Printf("[Engine] error handling price update: %v", err)
			}
		}
	}
	return nil
}

func (e *Engine) handleCommand(ctx context.Context, cmd Command) {
	switch c := cmd.(type) {
	case AddPipeline:
		err := e.AddPipeline(ctx, c.Pipeline)
		c.Reply <- Result{Pipeline: c.Pipeline, Err: err}
	case DeletePipeline:
		err := e.DeletePipeline(ctx, c.UserID, c.PipelineID)
		c.Reply <- Result{Err: err}
	case GetPipeline:
		p, err := e.GetPipeline(c.PipelineID)
		c.Reply <- Result{Pipeline: p, Err: err}
	}
}

func (e *Engine) AddPipeline(ctx context.Context, p *pipeline.Pipeline) error {
	if err := e.store.Save(ctx, p); err != nil {
		return chainmodel.NewKindError(chainmodel.ErrKindAddPipeline, "failed to persist pipeline", err)
	}
	e.addPipelineLocked(p)
	return nil
}

func (e *Engine) addPipelineLocked(p *pipeline.Pipeline) {
	assets := pipeline.ExtractAssets(p)

	e.assetSubscriptionsMu.Lock()
	for asset := range assets {
		if e.assetSubscriptions[asset] == nil {
			e.assetSubscriptions[asset] = make(map[uuid.UUID]struct{})
		}
		e.assetSubscriptions[asset][p.ID] = struct{}{}
	}
	e.assetSubscriptionsMu.Unlock()

	e.activePipelinesMu.Lock()
	e.activePipelines[p.ID] = &pipelineEntry{p: p}
	e.activePipelinesMu.Unlock()

	if e.metrics != nil {
		e.activePipelinesMu.RLock()
		e.metrics.ActivePipelines.Set(float64(len(e.activePipelines)))
		e.activePipelinesMu.RUnlock()
	}
}

func (e *Engine) DeletePipeline(ctx context.Context, userID string, id uuid.UUID) error {
	if err := e.store.Delete(ctx, userID, id); err != nil {
		return chainmodel.NewKindError(chainmodel.ErrKindDeletePipeline, "failed to delete pipeline", err)
	}

	e.activePipelinesMu.Lock()
	entry, ok := e.activePipelines[id]
	delete(e.activePipelines, id)
	e.activePipelinesMu.Unlock()

	if ok {
		e.pruneAssetSubscriptions(entry.p, id)
	}
	return nil
}

// pruneAssetSubscriptions removes id from every asset subscriber set p
// contributed on AddPipeline, the symmetric inverse of
// addPipelineLocked's index build, dropping an asset's set entirely
// once it has no remaining subscribers.
func (e *Engine) pruneAssetSubscriptions(p *pipeline.Pipeline, id uuid.UUID) {
	assets := pipeline.ExtractAssets(p)

	e.assetSubscriptionsMu.Lock()
	defer e.assetSubscriptionsMu.Unlock()
	for asset := range assets {
		subs, ok := e.assetSubscriptions[asset]
		if !ok {
			continue
		}
		delete(subs, id)
		if len(subs) == 0 {
			delete(e.assetSubscriptions, asset)
		}
	}
}

func (e *Engine) GetPipeline(id uuid.UUID) (*pipeline.Pipeline, error) {
	e.activePipelinesMu.RLock()
	defer e.activePipelinesMu.RUnlock()
	entry, ok := e.activePipelines[id]
	if !ok {
		return nil, chainmodel.NewKindError(chainmodel.ErrKindGetPipeline, "pipeline not found: "+id.String(), nil)
	}
	return entry.p, nil
}

// handlePriceUpdate takes the write lock on priceCache, then the read
// lock on assetSubscriptions, then the write lock on each affected
// pipeline serially — the strict ordering that keeps the engine
// deadlock-free.
func (e *Engine) handlePriceUpdate(ctx context.Context, asset string, price float64) error {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.PriceUpdatesProcessed.Inc()
	}

	e.priceCacheMu.Lock()
	e.priceCache[asset] = price
	e.priceCacheMu.Unlock()

	e.assetSubscriptionsMu.RLock()
	pipelineIDs := make([]uuid.UUID, 0, len(e.assetSubscriptions[asset]))
	for id := range e.assetSubscriptions[asset] {
		pipelineIDs = append(pipelineIDs, id)
	}
	e.assetSubscriptionsMu.RUnlock()

	for _, id := range pipelineIDs {
		e.activePipelinesMu.RLock()
		entry, ok := e.activePipelines[id]
		e.activePipelinesMu.RUnlock()
		if !ok {
			continue
		}
		entry.mu.Lock()
		_, err := e.evaluatePipeline(ctx, entry.p)
		entry.mu.Unlock()
		if err != nil {
			return err
		}
	}

	if e.metrics != nil {
		e.metrics.PriceUpdateDuration.Observe(time.Since(start).Seconds())
		e.activePipelinesMu.RLock()
		e.metrics.ActivePipelines.Set(float64(len(e.activePipelines)))
		e.activePipelinesMu.RUnlock()
	}
	return nil
}

func (e *Engine) snapshotPrices() map[string]float64 {
	e.priceCacheMu.RLock()
	defer e.priceCacheMu.RUnlock()
	snap := make(map[string]float64, len(e.priceCache))
	for k, v := range e.priceCache {
		snap[k] = v
	}
	return snap
}
