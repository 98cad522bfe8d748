package metadata

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
)

func buildMintAccountData(withMintAuth, withFreezeAuth bool, decimals byte, supply uint64) []byte {
	data := make([]byte, 82)
	authKey := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	if withMintAuth {
		data[0] = 1
		copy(data[4:36], authKey.Bytes())
	}
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1
	if withFreezeAuth {
		data[46] = 1
		copy(data[50:82], authKey.Bytes())
	}
	return data
}

func TestUnpackMintAccount_WithAuthorities(t *testing.T) {
	data := buildMintAccountData(true, true, 6, 1_000_000_000)
	state, err := unpackMintAccount(data)
	assert.NoError(t, err)
	assert.Equal(t, uint8(6), state.Decimals)
	assert.Equal(t, uint64(1_000_000_000), state.Supply)
	assert.True(t, state.IsInitialized)
	assert.NotNil(t, state.MintAuthority)
	assert.NotNil(t, state.FreezeAuthority)
}

func TestUnpackMintAccount_NoAuthorities(t *testing.T) {
	data := buildMintAccountData(false, false, 9, 0)
	state, err := unpackMintAccount(data)
	assert.NoError(t, err)
	assert.Nil(t, state.MintAuthority)
	assert.Nil(t, state.FreezeAuthority)
}

func TestUnpackMintAccount_TooShort(t *testing.T) {
	_, err := unpackMintAccount(make([]byte, 10))
	assert.Error(t, err)
}

func encodeLenPrefixed(s string) []byte {
	buf := make([]byte, 4+len(s))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(s)))
	copy(buf[4:], s)
	return buf
}

func TestParseMetaplexNameSymbolURI(t *testing.T) {
	header := make([]byte, 1+32+32)
	var data []byte
	data = append(data, header...)
	data = append(data, encodeLenPrefixed("MyToken\x00\x00\x00\x00\x00")...)
	data = append(data, encodeLenPrefixed("MTK\x00\x00\x00\x00\x00")...)
	data = append(data, encodeLenPrefixed("ipfs://abc123\x00\x00")...)

	name, symbol, uri, ok := parseMetaplexNameSymbolURI(data)
	assert.True(t, ok)
	assert.Equal(t, "MyToken", name)
	assert.Equal(t, "MTK", symbol)
	assert.Equal(t, "ipfs://abc123", uri)
}

func TestParseMetaplexNameSymbolURI_TooShort(t *testing.T) {
	_, _, _, ok := parseMetaplexNameSymbolURI(make([]byte, 10))
	assert.False(t, ok)
}

func TestNormalizeIPFSURI(t *testing.T) {
	assert.Equal(t, "https://ipfs.io/ipfs/abc123", normalizeIPFSURI("ipfs://abc123"))
	assert.Equal(t, "https://ipfs.io/ipfs/abc123", normalizeIPFSURI("https://gateway.example/ipfs/abc123"))
	assert.Equal(t, "https://example.com/meta.json", normalizeIPFSURI("https://example.com/meta.json"))
}
