package meteora

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
	}
	return keys[:n]
}

func TestProcessor_SwapExtractsReserves(t *testing.T) {
	p := New()
	data := append([]byte{}, swapDisc...)
	ix := decode.DecodedInstruction{ProgramID: dlmmProgramID, Accounts: accs(4), Data: data}
	result, ok := p.Process(ix)
	assert.True(t, ok)
	assert.Equal(t, "meteora_dlmm", result.DexTag)
	assert.Contains(t, result.Vaults, accs(4)[2].String())
	assert.Contains(t, result.Vaults, accs(4)[3].String())
}

func TestProcessor_UnrecognizedInstruction(t *testing.T) {
	p := New()
	data := make([]byte, 8)
	ix := decode.DecodedInstruction{ProgramID: dlmmProgramID, Accounts: accs(4), Data: data}
	_, ok := p.Process(ix)
	assert.False(t, ok)
}

func TestProcessor_TooFewAccounts(t *testing.T) {
	p := New()
	data := append([]byte{}, swapDisc...)
	ix := decode.DecodedInstruction{ProgramID: dlmmProgramID, Accounts: accs(2), Data: data}
	_, ok := p.Process(ix)
	assert.False(t, ok)
}
