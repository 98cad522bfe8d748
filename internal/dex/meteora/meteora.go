// Package meteora implements the DEX-specific processor for
// Meteora's DLMM Swap instruction; the DAMM v2 program is not handled.
package meteora

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/dex"
)

var dlmmProgramID = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")

// Anchor 8-byte sighash for the DLMM program's Swap instruction;
// AddLiquidity/RemoveLiquidity/InitializeLbPair carry different
// sighashes and must not match.
var swapDisc = []byte{248, 198, 158, 145, 225, 117, 135, 200}

// Processor handles Meteora DLMM Swap instructions, extracting the
// bin-array pool's reserveX/reserveY vaults.
type Processor struct{}

func New() *Processor { return &Processor{} }

func (p *Processor) ProgramID() solana.PublicKey { return dlmmProgramID }

func (p *Processor) Process(ix decode.DecodedInstruction) (dex.Result, bool) {
	if len(ix.Data) < 8 {
		return dex.Result{}, false
	}
	if !bytes.Equal(ix.Data[:8], swapDisc) {
		return dex.Result{}, false
	}
	// accounts[2], accounts[3] are reserveX/reserveY in the DLMM Swap
	// account layout.
	if len(ix.Accounts) < 4 {
		return dex.Result{}, false
	}
	return dex.Result{
		Vaults: map[string]struct{}{
			ix.Accounts[2].String(): {},
			ix.Accounts[3].String(): {},
		},
		DexTag: "meteora_dlmm",
	}, true
}
