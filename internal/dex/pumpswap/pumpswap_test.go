package pumpswap

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

func TestProcessor_BuyExtractsVaults(t *testing.T) {
	p := New()
	data := append([]byte{}, buyDisc...)
	ix := decode.DecodedInstruction{ProgramID: programID, Accounts: accs(8), Data: data}
	result, ok := p.Process(ix)
	assert.True(t, ok)
	assert.Equal(t, "pumpswap", result.DexTag)
	assert.Contains(t, result.Vaults, accs(8)[6].String())
	assert.Contains(t, result.Vaults, accs(8)[7].String())
}

func TestProcessor_TooFewAccounts(t *testing.T) {
	p := New()
	data := append([]byte{}, sellDisc...)
	ix := decode.DecodedInstruction{ProgramID: programID, Accounts: accs(5), Data: data}
	_, ok := p.Process(ix)
	assert.False(t, ok)
}
