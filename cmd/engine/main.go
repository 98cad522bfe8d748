package main

import (
	"context"
	"log"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/listenlabs/swapindexer-engine/internal/api"
	"github.com/listenlabs/swapindexer-engine/internal/bus"
	"github.com/listenlabs/swapindexer-engine/internal/chainutil"
	"github.com/listenlabs/swapindexer-engine/internal/config"
	"github.com/listenlabs/swapindexer-engine/internal/dex"
	"github.com/listenlabs/swapindexer-engine/internal/dex/meteora"
	"github.com/listenlabs/swapindexer-engine/internal/dex/orca"
	"github.com/listenlabs/swapindexer-engine/internal/dex/pumpfun"
	"github.com/listenlabs/swapindexer-engine/internal/dex/pumpswap"
	"github.com/listenlabs/swapindexer-engine/internal/dex/raydium"
	"github.com/listenlabs/swapindexer-engine/internal/engine"
	"github.com/listenlabs/swapindexer-engine/internal/executor"
	"github.com/listenlabs/swapindexer-engine/internal/ingest"
	"github.com/listenlabs/swapindexer-engine/internal/metadata"
	"github.com/listenlabs/swapindexer-engine/internal/metrics"
	"github.com/listenlabs/swapindexer-engine/internal/reconstruct"
	"github.com/listenlabs/swapindexer-engine/internal/store"
	"github.com/listenlabs/swapindexer-engine/internal/warehouse"
	"github.com/prometheus/client_golang/prometheus"
)

const pumpCreatedOnSubstring = "pump.fun"

func main() {
	log.Println("Starting swap-indexer-engine...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("FATAL: failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	cache := store.NewCache(redisClient)
	pipelineStore := store.New(redisClient)

	wh, err := warehouse.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: failed to connect to warehouse, continuing without persisting swap history: %v", err)
		wh = nil
	} else {
		defer wh.Close()
		if err := wh.InitSchema(); err != nil {
			log.Printf("Warning: warehouse schema init failed: %v", err)
		}
	}

	rpcClient := rpc.New(cfg.SolanaRPCURL)
	metadataSvc := metadata.NewService(cache, rpcClient, zlog)

	publisher := bus.NewPublisher(redisClient)
	subscriber := bus.NewSubscriber(redisClient)

	// Registered on the default registry, which the /metrics route serves.
	m := metrics.New(prometheus.DefaultRegisterer)

	nativePrice := &chainutil.AtomicFloat64{}
	priceFeed := reconstruct.NewPriceFeed(reconstruct.NewJupiterPriceSource(), nativePrice, cfg.NativePriceRefresh)
	go priceFeed.Run(ctx)

	blockhashCache := chainutil.NewBlockhashCache(rpcClient, cfg.BlockhashRefresh)
	go blockhashCache.Run(ctx)

	handler := &ingest.Handler{
		Metadata:      metadataSvc,
		Warehouse:     wh,
		Publisher:     publisher,
		Cache:         cache,
		Metrics:       m,
		NativePrice:   nativePrice,
		NativeMint:    cfg.NativeMint,
		PumpSubstring: pumpCreatedOnSubstring,
		Log:           zlog,
	}

	registry := dex.NewRegistry(handler, m, zlog)
	registry.Register(raydium.New())
	registry.Register(raydium.NewCPMM())
	registry.Register(orca.New())
	registry.Register(meteora.New())
	registry.Register(pumpfun.New())
	registry.Register(pumpswap.New())

	var exec *executor.Executor
	if cfg.QuoteProviderURL != "" && cfg.SignerURL != "" {
		exec = &executor.Executor{
			Quote:          executor.NewHTTPQuoteProvider(cfg.QuoteProviderURL),
			Signer:         executor.NewHTTPSigner(cfg.SignerURL),
			Blockhash:      blockhashCache,
			RetryAttempts:  cfg.RetryAttempts,
			RetryBaseDelay: cfg.RetryBaseDelay,
		}
	} else {
		log.Println("WARNING: QUOTE_PROVIDER_URL/SIGNER_URL unset — pipeline Order actions will fail until configured")
		exec = &executor.Executor{Blockhash: blockhashCache, RetryAttempts: cfg.RetryAttempts, RetryBaseDelay: cfg.RetryBaseDelay}
	}

	eng := engine.New(pipelineStore, exec, m)
	go func() {
		if err := eng.Run(ctx); err != nil {
			log.Printf("engine stopped: %v", err)
		}
	}()

	go subscriber.Run(ctx, eng.Incoming())

	wsHub := api.NewHub()
	go wsHub.Run()
	go bridgePriceUpdatesToWebsocket(ctx, redisClient, wsHub)

	r := api.SetupRouter(eng.Commands(), wsHub)

	log.Printf("Engine running on :%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// bridgePriceUpdatesToWebsocket relays every published price update
// to the dashboard's websocket clients, independent of the engine's
// own consumption of the same bus.
func bridgePriceUpdatesToWebsocket(ctx context.Context, client *redis.Client, hub *api.Hub) {
	sub := client.Subscribe(ctx, "price_updates")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			hub.Broadcast([]byte(msg.Payload))
		}
	}
}
