package chainutil

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
)

type fakeBlockhashSource struct {
	hash string
	err  error
}

func (f *fakeBlockhashSource) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash: solana.MustHashFromBase58(f.hash),
		},
	}, nil
}

func TestBlockhashCache_GetBlocksUntilWarmup(t *testing.T) {
	src := &fakeBlockhashSource{hash: "11111111111111111111111111111111"}
	cache := NewBlockhashCache(src, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cache.Run(ctx)

	got, err := cache.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, src.hash, got)
}

func TestBlockhashCache_GetTimesOutWithoutWarmup(t *testing.T) {
	src := &fakeBlockhashSource{err: assertErrBlockhash{}}
	cache := NewBlockhashCache(src, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	go cache.refresh(ctx)
	_, err := cache.Get(ctx)
	assert.Error(t, err)
}

type assertErrBlockhash struct{}

func (assertErrBlockhash) Error() string { return "rpc down" }
