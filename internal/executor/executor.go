// Package executor implements the order executor (component K):
// converts a swap order into a signed, submitted transaction via the
// external quote-provider and signer collaborators.
//
// Grounded on josephawallace-ninetyfive's jupiter.go for the
// GetQuote -> PostSwap -> submit shape of the Solana path, and on
// chainutil.Retry (this repo) for the native-family retry-with-backoff
// policy the spec calls for.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
	"github.com/listenlabs/swapindexer-engine/internal/chainutil"
	"github.com/listenlabs/swapindexer-engine/internal/pipeline"
)

// QuoteProvider is the external collaborator that routes a swap order
// into a transaction request; treated as opaque per the spec's
// external-interfaces boundary.
type QuoteProvider interface {
	GetQuote(ctx context.Context, req QuoteRequest) (QuoteResponse, error)
}

type QuoteRequest struct {
	FromChain, ToChain   string
	FromToken, ToToken   string
	FromAddr, ToAddr     string
	Amount               string
}

type QuoteResponse struct {
	TransactionRequest TransactionRequest
}

type TransactionRequest struct {
	IsNative bool
	Data     string // JSON tx for EVM, base64-encoded tx for native chains
	Spender  string // EVM only: the contract allowance must be granted to
}

// Signer is the external collaborator that signs and submits
// transactions, and answers ERC20-style allowance questions.
type Signer interface {
	SignAndSendEVM(ctx context.Context, jsonTx string) (string, error)
	SignAndSendNativeEncoded(ctx context.Context, base64Tx string) (string, error)
	Allowance(ctx context.Context, token, owner, spender, chainID string) (uint64, error)
	BuildApprovalTx(ctx context.Context, token, spender, owner, chainID string) (string, error)
}

type Executor struct {
	Quote          QuoteProvider
	Signer         Signer
	Blockhash      *chainutil.BlockhashCache
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// ExecuteOrder implements the pre-flight + quote + (EVM allowance or
// native blockhash) + sign-and-send flow of §4.K, returning the
// resulting transaction hash.
func (e *Executor) ExecuteOrder(ctx context.Context, order pipeline.SwapOrder, userID string, wallet, pubkey *string) (string, error) {
	if order.IsEVM() && wallet == nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindWalletNotAvailable, "EVM order requires a wallet address", nil)
	}
	if order.IsSolana() && pubkey == nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindWalletNotAvailable, "native order requires a pubkey", nil)
	}
	if e.Quote == nil || e.Signer == nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindSwapOrder, "quote provider or signer not configured", nil)
	}

	fromAddr, toAddr := "", ""
	if order.IsEVM() {
		fromAddr, toAddr = *wallet, *wallet
	} else {
		fromAddr, toAddr = *pubkey, *pubkey
	}

	quote, err := e.Quote.GetQuote(ctx, QuoteRequest{
		FromChain: order.FromChainCAIP2,
		ToChain:   order.ToChainCAIP2,
		FromToken: order.InputToken,
		ToToken:   order.OutputToken,
		FromAddr:  fromAddr,
		ToAddr:    toAddr,
		Amount:    order.Amount,
	})
	if err != nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindSwapOrder, "quote request failed", err)
	}

	if quote.TransactionRequest.IsNative {
		return e.executeNative(ctx, quote.TransactionRequest)
	}
	return e.executeEVM(ctx, quote.TransactionRequest, order, fromAddr)
}

func (e *Executor) executeEVM(ctx context.Context, txReq TransactionRequest, order pipeline.SwapOrder, owner string) (string, error) {
	allowance, err := e.Signer.Allowance(ctx, order.InputToken, owner, txReq.Spender, order.FromChainCAIP2)
	if err != nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindApprovals, "allowance check failed", err)
	}
	if allowance == 0 {
		approvalTx, err := e.Signer.BuildApprovalTx(ctx, order.InputToken, txReq.Spender, owner, order.FromChainCAIP2)
		if err != nil {
			return "", chainmodel.NewKindError(chainmodel.ErrKindApprovals, "build approval tx failed", err)
		}
		if _, err := e.Signer.SignAndSendEVM(ctx, approvalTx); err != nil {
			return "", chainmodel.NewKindError(chainmodel.ErrKindTransaction, "approval transaction failed", err)
		}
	}

	hash, err := e.Signer.SignAndSendEVM(ctx, txReq.Data)
	if err != nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindTransaction, "swap transaction failed", err)
	}
	return hash, nil
}

func (e *Executor) executeNative(ctx context.Context, txReq TransactionRequest) (string, error) {
	blockhash, err := e.Blockhash.Get(ctx)
	if err != nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindBlockhashCache, "blockhash cache read failed", err)
	}
	encoded, err := injectBlockhash(txReq.Data, blockhash)
	if err != nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindInjectBlockhash, "failed to inject blockhash", err)
	}

	var hash string
	attempts := e.RetryAttempts
	if attempts < 1 {
		attempts = 5
	}
	base := e.RetryBaseDelay
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	err = chainutil.Retry(ctx, "native_submit", attempts, base, func(ctx context.Context) error {
		h, err := e.Signer.SignAndSendNativeEncoded(ctx, encoded)
		if err != nil {
			return err
		}
		hash = h
		return nil
	})
	if err != nil {
		return "", chainmodel.NewKindError(chainmodel.ErrKindTransaction, "native transaction failed after retries", err)
	}
	return hash, nil
}

// injectBlockhash is a placeholder for the (opaque, external) encoded
// transaction's recent-blockhash field replacement; real transaction
// byte layouts are a decoder-collaborator concern, out of scope here.
func injectBlockhash(encodedTx, blockhash string) (string, error) {
	if encodedTx == "" {
		return "", fmt.Errorf("empty encoded transaction")
	}
	return encodedTx, nil
}
