package pumpfun

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
	}
	return keys[:n]
}

func TestProcessor_Buy(t *testing.T) {
	p := New()
	data := append([]byte{}, buyDisc...)
	ix := decode.DecodedInstruction{ProgramID: programID, Accounts: accs(5), Data: data}
	result, ok := p.Process(ix)
	assert.True(t, ok)
	assert.Equal(t, "pumpfun", result.DexTag)
}

func TestProcessor_Sell(t *testing.T) {
	p := New()
	data := append([]byte{}, sellDisc...)
	ix := decode.DecodedInstruction{ProgramID: programID, Accounts: accs(5), Data: data}
	_, ok := p.Process(ix)
	assert.True(t, ok)
}

func TestProcessor_UnrecognizedDiscriminator(t *testing.T) {
	p := New()
	data := make([]byte, 8)
	ix := decode.DecodedInstruction{ProgramID: programID, Accounts: accs(5), Data: data}
	_, ok := p.Process(ix)
	assert.False(t, ok)
}

func TestProcessor_ShortData(t *testing.T) {
	p := New()
	_, ok := p.Process(decode.DecodedInstruction{ProgramID: programID, Accounts: accs(5), Data: []byte{1, 2}})
	assert.False(t, ok)
}
