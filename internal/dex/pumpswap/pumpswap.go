// Package pumpswap implements the DEX-specific processor for
// PumpSwap, the constant-product AMM Pump.fun tokens migrate to after
// graduating the bonding curve.
package pumpswap

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/dex"
)

var programID = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")

var (
	buyDisc  = []byte{102, 6, 61, 18, 1, 218, 235, 234}
	sellDisc = []byte{51, 230, 133, 164, 1, 127, 131, 173}
)

// Processor handles PumpSwap Buy and Sell instructions, extracting
// the pool's base/quote token vaults.
type Processor struct{}

func New() *Processor { return &Processor{} }

func (p *Processor) ProgramID() solana.PublicKey { return programID }

func (p *Processor) Process(ix decode.DecodedInstruction) (dex.Result, bool) {
	if len(ix.Data) < 8 {
		return dex.Result{}, false
	}
	disc := ix.Data[:8]
	if !bytes.Equal(disc, buyDisc) && !bytes.Equal(disc, sellDisc) {
		return dex.Result{}, false
	}
	// accounts[6], accounts[7] are the pool's base/quote vaults in the
	// PumpSwap Buy/Sell account layout.
	if len(ix.Accounts) < 8 {
		return dex.Result{}, false
	}
	return dex.Result{
		Vaults: map[string]struct{}{
			ix.Accounts[6].String(): {},
			ix.Accounts[7].String(): {},
		},
		DexTag: "pumpswap",
	}, true
}
