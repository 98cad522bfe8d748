// Package mintinfo implements the mint-detail enricher (component B):
// it builds an account -> {mint, owner, decimals} lookup from a
// transaction's pre/post token balances and uses it to back-fill
// transfers whose mint is still empty.
//
// Grounded on extra_mint_details_from_tx_metadata and
// update_token_transfer_details in the swap-decode reference.
package mintinfo

import (
	"go.uber.org/zap"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
)

// TokenBalance mirrors one entry of a transaction's pre/post token
// balance arrays.
type TokenBalance struct {
	AccountIndex int
	Mint         string
	Owner        string
	Decimals     uint8
}

// TransactionMeta is the slice of a decoded transaction this package
// needs: the account address universe and the token-balance snapshots.
type TransactionMeta struct {
	StaticAccountKeys        []string
	LoadedAddressesWritable  []string
	LoadedAddressesReadonly  []string
	PreTokenBalances         []TokenBalance
	PostTokenBalances        []TokenBalance
}

// combinedAccounts returns the account universe in the order the chain
// indexes token-balance account_index fields against: static keys
// first, then loaded writable, then loaded readonly.
func combinedAccounts(meta TransactionMeta) []string {
	out := make([]string, 0, len(meta.StaticAccountKeys)+len(meta.LoadedAddressesWritable)+len(meta.LoadedAddressesReadonly))
	out = append(out, meta.StaticAccountKeys...)
	out = append(out, meta.LoadedAddressesWritable...)
	out = append(out, meta.LoadedAddressesReadonly...)
	return out
}

// BuildMintMap walks both balance snapshots and records {mint, owner,
// decimals} for every resolvable account index. Out-of-bounds indices
// are logged and skipped — never fatal.
func BuildMintMap(log *zap.Logger, signature string, meta TransactionMeta) map[string]chainmodel.MintDetail {
	accounts := combinedAccounts(meta)
	mintDetails := make(map[string]chainmodel.MintDetail)

	record := func(balances []TokenBalance) {
		for _, b := range balances {
			if b.AccountIndex < 0 || b.AccountIndex >= len(accounts) {
				if log != nil {
					log.Warn("invalid account_index for token balance",
						zap.Int("account_index", b.AccountIndex),
						zap.String("signature", signature))
				}
				continue
			}
			mintDetails[accounts[b.AccountIndex]] = chainmodel.MintDetail{
				Mint:     b.Mint,
				Owner:    b.Owner,
				Decimals: b.Decimals,
			}
		}
	}
	record(meta.PreTokenBalances)
	record(meta.PostTokenBalances)
	return mintDetails
}

// Enrich back-fills mint, decimals, and ui_amount on any transfer whose
// mint is still empty, by looking up its source then its destination
// in mintDetails.
func Enrich(transfers []chainmodel.TokenTransferDetails, mintDetails map[string]chainmodel.MintDetail) {
	for i := range transfers {
		t := &transfers[i]
		if t.Mint != "" {
			continue
		}
		detail, ok := mintDetails[t.Source]
		if !ok {
			detail, ok = mintDetails[t.Destination]
		}
		if !ok {
			continue
		}
		t.Mint = detail.Mint
		t.Decimals = detail.Decimals
		t.UiAmount = amountToUI(t.Amount, detail.Decimals)
	}
}

func amountToUI(amount uint64, decimals uint8) float64 {
	if decimals == 0 {
		return float64(amount)
	}
	divisor := 1.0
	for i := uint8(0); i < decimals; i++ {
		divisor *= 10
	}
	return float64(amount) / divisor
}
