package raydium

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"

	"github.com/listenlabs/swapindexer-engine/internal/decode"
)

func accs(n int) []solana.PublicKey {
	keys := []solana.PublicKey{
		solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"),
		solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		solana.MustPublicKeyFromBase58("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"),
		solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"),
		solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		solana.MustPublicKeyFromBase58("AP51WLiiqTdbZfgyRMs35PsZpdmLuPDdHYmrB23pEtMU"),
		solana.MustPublicKeyFromBase58("BSfD6SHZigAfDWSjzD5Q41jw8LmKwtmjskPH9XW1mrRW"),
		solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"),
	}
	return keys[:n]
}

func TestAmmV4Processor_SwapBaseIn(t *testing.T) {
	p := New()
	ix := decode.DecodedInstruction{ProgramID: ammV4ProgramID, Accounts: accs(7), Data: []byte{discSwapBaseIn}}
	result, ok := p.Process(ix)
	assert.True(t, ok)
	assert.Equal(t, "raydium_amm_v4", result.DexTag)
	assert.Len(t, result.Vaults, 2)
	assert.Contains(t, result.Vaults, accs(7)[5].String())
	assert.Contains(t, result.Vaults, accs(7)[6].String())
}

func TestAmmV4Processor_UnrecognizedDiscriminator(t *testing.T) {
	p := New()
	ix := decode.DecodedInstruction{ProgramID: ammV4ProgramID, Accounts: accs(7), Data: []byte{200}}
	_, ok := p.Process(ix)
	assert.False(t, ok)
}

func TestAmmV4Processor_TooFewAccounts(t *testing.T) {
	p := New()
	ix := decode.DecodedInstruction{ProgramID: ammV4ProgramID, Accounts: accs(3), Data: []byte{discSwapBaseIn}}
	_, ok := p.Process(ix)
	assert.False(t, ok)
}

func TestCPMMProcessor_SwapBaseInput(t *testing.T) {
	p := NewCPMM()
	data := append([]byte{}, discSwapBaseInput...)
	ix := decode.DecodedInstruction{ProgramID: cpmmProgramID, Accounts: accs(7), Data: data}
	result, ok := p.Process(ix)
	assert.True(t, ok)
	assert.Equal(t, "raydium_cpmm", result.DexTag)
	assert.Len(t, result.FeeAccounts, 1)
}

func TestCPMMProcessor_SwapBaseOutput(t *testing.T) {
	p := NewCPMM()
	data := append([]byte{}, discSwapBaseOutput...)
	ix := decode.DecodedInstruction{ProgramID: cpmmProgramID, Accounts: accs(7), Data: data}
	_, ok := p.Process(ix)
	assert.True(t, ok)
}

func TestCPMMProcessor_UnrecognizedInstruction(t *testing.T) {
	p := NewCPMM()
	data := make([]byte, 8)
	ix := decode.DecodedInstruction{ProgramID: cpmmProgramID, Accounts: accs(7), Data: data}
	_, ok := p.Process(ix)
	assert.False(t, ok)
}

func TestCPMMProcessor_EmptyData(t *testing.T) {
	p := NewCPMM()
	_, ok := p.Process(decode.DecodedInstruction{ProgramID: cpmmProgramID, Accounts: accs(7)})
	assert.False(t, ok)
}
