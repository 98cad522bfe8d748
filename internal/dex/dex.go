// Package dex implements the DEX-specific processors (component D):
// one package per supported instruction family, registered under a
// shared Registry keyed by program id.
//
// Grounded on GetDEXByName's name-keyed factory switch in
// RovshanMuradov-solana-bot/internal/dex/adapters.go, generalized from
// an execution-adapter registry to a decode-and-dispatch registry, and
// on the program-id switch in the solana-swap-decode parser's fallback
// AMM-matching pass.
package dex

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
	"github.com/listenlabs/swapindexer-engine/internal/ingest"
	"github.com/listenlabs/swapindexer-engine/internal/metrics"
	"github.com/listenlabs/swapindexer-engine/internal/mintinfo"
)

// Result is what a family-specific Process function extracts from a
// decoded swap instruction: the vault accounts, an optional
// protocol-fee account set, and a tag identifying the DEX for metrics.
type Result struct {
	Vaults      map[string]struct{}
	FeeAccounts map[string]struct{}
	DexTag      string
}

// Processor is implemented by each DEX family subpackage.
type Processor interface {
	// ProgramID is the on-chain program this processor handles.
	ProgramID() solana.PublicKey
	// Process pattern-matches ix against the family's swap variants. A
	// non-swap instruction, or one with a malformed account list,
	// yields ok=false — never an error.
	Process(ix decode.DecodedInstruction) (Result, bool)
}

// Registry dispatches a decoded instruction to the processor
// registered for its program id, then forwards the extracted swap
// context to the ingest handler (component E). Non-swap instructions
// are ignored; the registry never fails.
type Registry struct {
	processors map[solana.PublicKey]Processor
	handler    *ingest.Handler
	metrics    *metrics.Collectors
	log        *zap.Logger
}

func NewRegistry(handler *ingest.Handler, m *metrics.Collectors, log *zap.Logger) *Registry {
	return &Registry{processors: make(map[solana.PublicKey]Processor), handler: handler, metrics: m, log: log}
}

func (r *Registry) Register(p Processor) {
	r.processors[p.ProgramID()] = p
}

// InstructionContext is the envelope the upstream decoder collaborator
// delivers for an outer instruction: the decoded instruction itself,
// its nested inner instructions (the token transfers making up the
// swap), and enough transaction metadata to build the mint map and
// populate the eventual PriceUpdate.
type InstructionContext struct {
	Instruction decode.DecodedInstruction
	Nested      []decode.DecodedInstruction
	Signature   string
	Slot        uint64
	FeePayer    string
	TxMeta      mintinfo.TransactionMeta
}

// Dispatch routes ix to its registered processor, if any, and on a
// successful match hands the extracted swap context to the ingest
// handler, which spawns its own goroutine — Dispatch itself never
// blocks on swap I/O.
func (r *Registry) Dispatch(ctx context.Context, ic InstructionContext) {
	proc, ok := r.processors[ic.Instruction.ProgramID]
	if !ok {
		return
	}
	result, ok := proc.Process(ic.Instruction)
	if !ok {
		return
	}
	r.handler.Dispatch(ctx, ingest.SwapContext{
		Signature:   ic.Signature,
		Slot:        ic.Slot,
		FeePayer:    ic.FeePayer,
		DexTag:      result.DexTag,
		Vaults:      result.Vaults,
		FeeAccounts: result.FeeAccounts,
		Nested:      ic.Nested,
		TxMeta:      ic.TxMeta,
	})
}
