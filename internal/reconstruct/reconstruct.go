// Package reconstruct implements the swap reconstructor (component C):
// it filters enriched transfers down to the pool's vault set and
// computes the swap's economic effect against the wrapped-native mint.
//
// Grounded on process_token_transfers in the swap-decode reference,
// generalized from a strict two-transfer check to the 2-3 cardinality
// and dust/zero/non-native skip ladder the distilled spec calls for.
package reconstruct

import (
	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
)

// SkipReason names why a candidate swap did not produce a DiffsResult,
// so the caller can bump the matching metric without string matching.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipUnexpectedCount
	SkipDust
	SkipZero
	SkipNonNative
)

const dustThreshold = 0.1

// Reconstruct filters transfers to those touching vaults (and not
// feeAccounts), then applies the cardinality/dust/zero/native-identity
// ladder from the spec. nativeMint is the wrapped-native token's mint
// address; nativePriceUSD is a snapshot of the process-wide price cell.
func Reconstruct(
	transfers []chainmodel.TokenTransferDetails,
	vaults map[string]struct{},
	feeAccounts map[string]struct{},
	nativeMint string,
	nativePriceUSD float64,
) (chainmodel.DiffsResult, SkipReason) {
	surviving := filterToVaults(transfers, vaults, feeAccounts)

	if len(surviving) < 2 || len(surviving) > 3 {
		return chainmodel.DiffsResult{}, SkipUnexpectedCount
	}

	allDust := true
	for _, t := range surviving {
		if t.UiAmount >= dustThreshold {
			allDust = false
			break
		}
	}
	if allDust {
		return chainmodel.DiffsResult{}, SkipDust
	}

	for _, t := range surviving {
		if t.UiAmount == 0 {
			return chainmodel.DiffsResult{}, SkipZero
		}
	}

	nativeIdx := -1
	for i, t := range surviving {
		if t.Mint == nativeMint {
			nativeIdx = i
			break
		}
	}
	if nativeIdx == -1 {
		return chainmodel.DiffsResult{}, SkipNonNative
	}
	native := surviving[nativeIdx]

	// For the 3-transfer case, apply the two-token reconstructor to the
	// single non-native transfer whose leg pairs with the native one
	// (the largest of the remaining legs by ui_amount — the other legs
	// are residual/fee-adjacent dust once the fee account has already
	// been excluded).
	other := pickOtherLeg(surviving, nativeIdx)

	isBuy := inSet(vaults, native.Destination) || inSet(vaults, other.Source)
	price := (native.UiAmount / other.UiAmount) * nativePriceUSD
	swapAmount := native.UiAmount * nativePriceUSD

	return chainmodel.DiffsResult{
		Price:      price,
		SwapAmount: swapAmount,
		CoinMint:   other.Mint,
		IsBuy:      isBuy,
	}, SkipNone
}

func filterToVaults(transfers []chainmodel.TokenTransferDetails, vaults, feeAccounts map[string]struct{}) []chainmodel.TokenTransferDetails {
	out := make([]chainmodel.TokenTransferDetails, 0, len(transfers))
	for _, t := range transfers {
		if inSet(feeAccounts, t.Source) || inSet(feeAccounts, t.Destination) {
			continue
		}
		if inSet(vaults, t.Source) || inSet(vaults, t.Destination) {
			out = append(out, t)
		}
	}
	return out
}

func pickOtherLeg(surviving []chainmodel.TokenTransferDetails, nativeIdx int) chainmodel.TokenTransferDetails {
	best := -1
	for i, t := range surviving {
		if i == nativeIdx {
			continue
		}
		if best == -1 || t.UiAmount > surviving[best].UiAmount {
			best = i
		}
	}
	return surviving[best]
}

func inSet(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, ok := set[key]
	return ok
}
