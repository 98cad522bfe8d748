package chainutil

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// BlockhashSource is the chain-RPC boundary the cache refreshes
// against; satisfied by *rpc.Client in production.
type BlockhashSource interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// BlockhashCache implements component L: a background task refreshes
// the cached recent blockhash every interval; readers get the
// cached value without round-tripping. The first read blocks until the
// first fetch completes.
type BlockhashCache struct {
	source   BlockhashSource
	interval time.Duration

	warmup sync.Once
	ready  chan struct{}

	cur atomic.Pointer[string]
}

func NewBlockhashCache(source BlockhashSource, interval time.Duration) *BlockhashCache {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &BlockhashCache{source: source, interval: interval, ready: make(chan struct{})}
}

// Run blocks until ctx is cancelled, periodically refreshing the
// cached blockhash. Call it in its own goroutine.
func (c *BlockhashCache) Run(ctx context.Context) {
	c.refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh(ctx)
		}
	}
}

func (c *BlockhashCache) refresh(ctx context.Context) {
	result, err := c.source.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		log.Printf("[BlockhashCache] refresh failed: %v", err)
		return
	}
	hash := result.Value.Blockhash.String()
	c.cur.Store(&hash)
	c.warmup.Do(func() { close(c.ready) })
}

// Get returns the cached blockhash, blocking until the first
// successful refresh if none has completed yet.
func (c *BlockhashCache) Get(ctx context.Context) (string, error) {
	if p := c.cur.Load(); p != nil {
		return *p, nil
	}
	select {
	case <-c.ready:
		if p := c.cur.Load(); p != nil {
			return *p, nil
		}
		return "", fmt.Errorf("blockhash cache: no value after warmup")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
