// Package pumpfun implements the DEX-specific processor for Pump.fun's
// bonding-curve Buy/Sell instructions.
//
// Discriminator bytes grounded on the 8-byte anchor sighash prefixes
// (pumpfunBuyDisc/pumpfunSellDisc) used in the solana-swap-decode
// parser's detectPumpfunBuySell.
package pumpfun

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/dex"
)

var programID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

var (
	buyDisc  = []byte{102, 6, 61, 18, 1, 218, 235, 234}
	sellDisc = []byte{51, 230, 133, 164, 1, 127, 131, 173}
)

// Processor handles Pump.fun's Buy and Sell bonding-curve
// instructions. The bonding curve's SOL and token token-accounts act
// as the "vault" pair for reconstruction purposes.
type Processor struct{}

func New() *Processor { return &Processor{} }

func (p *Processor) ProgramID() solana.PublicKey { return programID }

func (p *Processor) Process(ix decode.DecodedInstruction) (dex.Result, bool) {
	if len(ix.Data) < 8 {
		return dex.Result{}, false
	}
	disc := ix.Data[:8]
	isBuy := bytes.Equal(disc, buyDisc)
	isSell := bytes.Equal(disc, sellDisc)
	if !isBuy && !isSell {
		return dex.Result{}, false
	}
	// accounts[3], accounts[4] are the bonding curve's associated-
	// bonding-curve token account and the curve's own SOL-wrapped
	// vault account.
	if len(ix.Accounts) < 5 {
		return dex.Result{}, false
	}
	return dex.Result{
		Vaults: map[string]struct{}{
			ix.Accounts[3].String(): {},
			ix.Accounts[4].String(): {},
		},
		DexTag: "pumpfun",
	}, true
}
