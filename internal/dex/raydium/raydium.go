// Package raydium implements the DEX-specific processors for the
// Raydium AMM v4 and CPMM instruction families; CLMM is not handled.
//
// Discriminator bytes and account-role positions grounded on the
// program-id constants and variant names enumerated in the
// solana-swap-decode parser (Swap, SwapV2, SwapBaseIn, SwapBaseOut).
package raydium

import (
	"github.com/gagliardetto/solana-go"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/dex"
)

var ammV4ProgramID = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")

const (
	discSwapBaseIn  = byte(9)
	discSwapBaseOut = byte(11)
)

// Processor handles Raydium AMM v4 SwapBaseIn/SwapBaseOut
// instructions. The vault pair sits at the well-known fixed account
// positions of the AMM v4 instruction layout (pool coin/pc vaults).
type Processor struct{}

func New() *Processor { return &Processor{} }

func (p *Processor) ProgramID() solana.PublicKey { return ammV4ProgramID }

func (p *Processor) Process(ix decode.DecodedInstruction) (dex.Result, bool) {
	if len(ix.Data) == 0 {
		return dex.Result{}, false
	}
	switch ix.Data[0] {
	case discSwapBaseIn, discSwapBaseOut:
		// accounts[5], accounts[6] are the pool coin/pc token vaults in
		// the AMM v4 swap instruction account layout.
		if len(ix.Accounts) < 7 {
			return dex.Result{}, false
		}
		return dex.Result{
			Vaults: map[string]struct{}{
				ix.Accounts[5].String(): {},
				ix.Accounts[6].String(): {},
			},
			DexTag: "raydium_amm_v4",
		}, true
	default:
		return dex.Result{}, false
	}
}
