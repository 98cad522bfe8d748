package raydium

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/dex"
)

var cpmmProgramID = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")

// Anchor 8-byte sighashes for the CPMM program's two swap variants;
// Deposit/Withdraw/Initialize carry different sighashes and must not
// match here.
var (
	discSwapBaseInput  = []byte{143, 190, 90, 218, 196, 30, 51, 222}
	discSwapBaseOutput = []byte{55, 217, 98, 86, 163, 74, 180, 173}
)

// CPMMProcessor handles Raydium's constant-product CPMM swap
// instruction, whose vault pair (and protocol-fee account) sit at
// different fixed offsets than the legacy AMM v4 layout.
type CPMMProcessor struct{}

func NewCPMM() *CPMMProcessor { return &CPMMProcessor{} }

func (p *CPMMProcessor) ProgramID() solana.PublicKey { return cpmmProgramID }

func (p *CPMMProcessor) Process(ix decode.DecodedInstruction) (dex.Result, bool) {
	if len(ix.Data) < 8 {
		return dex.Result{}, false
	}
	disc := ix.Data[:8]
	if !bytes.Equal(disc, discSwapBaseInput) && !bytes.Equal(disc, discSwapBaseOutput) {
		return dex.Result{}, false
	}
	// accounts[4], accounts[5] are input/output token vaults;
	// accounts[6] is the protocol fee account in the CPMM layout.
	if len(ix.Accounts) < 7 {
		return dex.Result{}, false
	}
	return dex.Result{
		Vaults: map[string]struct{}{
			ix.Accounts[4].String(): {},
			ix.Accounts[5].String(): {},
		},
		FeeAccounts: map[string]struct{}{
			ix.Accounts[6].String(): {},
		},
		DexTag: "raydium_cpmm",
	}, true
}
