package mintinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
)

func TestBuildMintMap_PreAndPost(t *testing.T) {
	meta := TransactionMeta{
		StaticAccountKeys: []string{"acct0", "acct1", "acct2"},
		PreTokenBalances: []TokenBalance{
			{AccountIndex: 1, Mint: "MINT_A", Owner: "owner1", Decimals: 6},
		},
		PostTokenBalances: []TokenBalance{
			{AccountIndex: 2, Mint: "MINT_B", Owner: "owner2", Decimals: 9},
		},
	}
	mm := BuildMintMap(nil, "sig1", meta)
	assert.Equal(t, chainmodel.MintDetail{Mint: "MINT_A", Owner: "owner1", Decimals: 6}, mm["acct1"])
	assert.Equal(t, chainmodel.MintDetail{Mint: "MINT_B", Owner: "owner2", Decimals: 9}, mm["acct2"])
}

func TestBuildMintMap_OutOfRangeSkipped(t *testing.T) {
	meta := TransactionMeta{
		StaticAccountKeys: []string{"acct0"},
		PreTokenBalances:  []TokenBalance{{AccountIndex: 5, Mint: "MINT_A"}},
	}
	mm := BuildMintMap(nil, "sig1", meta)
	assert.Empty(t, mm)
}

func TestBuildMintMap_IncludesLoadedAddresses(t *testing.T) {
	meta := TransactionMeta{
		StaticAccountKeys:       []string{"acct0"},
		LoadedAddressesWritable: []string{"acct1"},
		LoadedAddressesReadonly: []string{"acct2"},
		PostTokenBalances:       []TokenBalance{{AccountIndex: 2, Mint: "MINT_C", Decimals: 2}},
	}
	mm := BuildMintMap(nil, "sig1", meta)
	assert.Equal(t, "MINT_C", mm["acct2"].Mint)
}

func TestEnrich_BackfillsFromSource(t *testing.T) {
	transfers := []chainmodel.TokenTransferDetails{
		{Source: "acctA", Destination: "acctB", Amount: 5_000_000},
	}
	details := map[string]chainmodel.MintDetail{
		"acctA": {Mint: "MINT_X", Decimals: 6},
	}
	Enrich(transfers, details)
	assert.Equal(t, "MINT_X", transfers[0].Mint)
	assert.Equal(t, uint8(6), transfers[0].Decimals)
	assert.InDelta(t, 5.0, transfers[0].UiAmount, 0.0001)
}

func TestEnrich_FallsBackToDestination(t *testing.T) {
	transfers := []chainmodel.TokenTransferDetails{
		{Source: "acctA", Destination: "acctB", Amount: 1_000_000},
	}
	details := map[string]chainmodel.MintDetail{
		"acctB": {Mint: "MINT_Y", Decimals: 3},
	}
	Enrich(transfers, details)
	assert.Equal(t, "MINT_Y", transfers[0].Mint)
}

func TestEnrich_SkipsAlreadyResolved(t *testing.T) {
	transfers := []chainmodel.TokenTransferDetails{
		{Source: "acctA", Mint: "ALREADY_SET"},
	}
	details := map[string]chainmodel.MintDetail{"acctA": {Mint: "OTHER"}}
	Enrich(transfers, details)
	assert.Equal(t, "ALREADY_SET", transfers[0].Mint)
}

func TestEnrich_UnresolvableLeftAlone(t *testing.T) {
	transfers := []chainmodel.TokenTransferDetails{
		{Source: "unknown"},
	}
	Enrich(transfers, map[string]chainmodel.MintDetail{})
	assert.Empty(t, transfers[0].Mint)
}
