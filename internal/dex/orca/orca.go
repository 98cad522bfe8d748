// Package orca implements the DEX-specific processor for Orca
// Whirlpool (concentrated-liquidity) Swap and TwoHopSwap instructions.
package orca

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/dex"
)

var whirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

// Anchor 8-byte sighashes for the Whirlpool program's swap variants;
// anything else (openPosition, collectFees, initializePool, ...) must
// not match.
var (
	swapDisc       = []byte{248, 198, 158, 145, 225, 117, 135, 200}
	twoHopSwapDisc = []byte{195, 96, 237, 108, 68, 162, 219, 230}
)

// Processor handles Whirlpool Swap and TwoHopSwap instructions. Both
// variants carry the pool's tokenVaultA/tokenVaultB accounts at the
// same fixed offsets; TwoHopSwap additionally carries a second pool's
// vault pair, which this processor ignores (only the first hop's
// vaults are used to reconstruct the swap, per the spec's scope on
// multi-hop swaps).
type Processor struct{}

func New() *Processor { return &Processor{} }

func (p *Processor) ProgramID() solana.PublicKey { return whirlpoolProgramID }

func (p *Processor) Process(ix decode.DecodedInstruction) (dex.Result, bool) {
	if len(ix.Data) < 8 {
		return dex.Result{}, false
	}
	disc := ix.Data[:8]
	if !bytes.Equal(disc, swapDisc) && !bytes.Equal(disc, twoHopSwapDisc) {
		return dex.Result{}, false
	}
	// accounts[4], accounts[5] are tokenVaultA/tokenVaultB in both the
	// Swap and TwoHopSwap account layouts.
	if len(ix.Accounts) < 6 {
		return dex.Result{}, false
	}
	return dex.Result{
		Vaults: map[string]struct{}{
			ix.Accounts[4].String(): {},
			ix.Accounts[5].String(): {},
		},
		DexTag: "orca_whirlpool",
	}, true
}
