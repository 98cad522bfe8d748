// Package decode implements the token-transfer decoder (component A):
// given a decoded instruction for a fungible-token program variant, it
// extracts a TokenTransferDetails or reports that the instruction is
// not a transfer.
//
// Grounded on the discriminator-switch shape of the solana-swap-decode
// parser's transfer handling and the account-role population pattern
// of carbon's token program decoders.
package decode

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
)

var (
	TokenProgramID     = solana.TokenProgramID
	Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

const (
	discriminatorTransfer        = byte(3)
	discriminatorTransferChecked = byte(12)
)

// DecodedInstruction is the minimal shape the decoder needs: a program
// id, the ordered account list for the instruction, and its raw data
// bytes (the first byte is the SPL Token instruction discriminator).
type DecodedInstruction struct {
	ProgramID solana.PublicKey
	Accounts  []solana.PublicKey
	Data      []byte
}

// accountAt returns the zero-value pubkey string for an out-of-range
// index rather than panicking — malformed instructions are skipped
// upstream, never fatal here.
func accountAt(accounts []solana.PublicKey, idx int) string {
	if idx < 0 || idx >= len(accounts) {
		return ""
	}
	return accounts[idx].String()
}

// DecodeTransfer returns (details, true) iff ix is a Transfer or
// TransferChecked instruction of the SPL Token or Token-2022 program,
// else (zero, false). Never returns an error — unrecognized
// instructions are simply skipped.
func DecodeTransfer(ix DecodedInstruction) (chainmodel.TokenTransferDetails, bool) {
	if !ix.ProgramID.Equals(TokenProgramID) && !ix.ProgramID.Equals(Token2022ProgramID) {
		return chainmodel.TokenTransferDetails{}, false
	}
	if len(ix.Data) == 0 {
		return chainmodel.TokenTransferDetails{}, false
	}

	switch ix.Data[0] {
	case discriminatorTransfer:
		// source, destination, authority — mint stays empty, decimals 0.
		if len(ix.Accounts) < 3 || len(ix.Data) < 9 {
			return chainmodel.TokenTransferDetails{}, false
		}
		amount := binary.LittleEndian.Uint64(ix.Data[1:9])
		return chainmodel.TokenTransferDetails{
			ProgramID:   ix.ProgramID.String(),
			Source:      accountAt(ix.Accounts, 0),
			Destination: accountAt(ix.Accounts, 1),
			Authority:   accountAt(ix.Accounts, 2),
			Amount:      amount,
		}, true

	case discriminatorTransferChecked:
		// source, mint, destination, authority.
		if len(ix.Accounts) < 4 || len(ix.Data) < 10 {
			return chainmodel.TokenTransferDetails{}, false
		}
		amount := binary.LittleEndian.Uint64(ix.Data[1:9])
		decimals := ix.Data[9]
		details := chainmodel.TokenTransferDetails{
			ProgramID:   ix.ProgramID.String(),
			Source:      accountAt(ix.Accounts, 0),
			Destination: accountAt(ix.Accounts, 2),
			Authority:   accountAt(ix.Accounts, 3),
			Mint:        accountAt(ix.Accounts, 1),
			Amount:      amount,
			Decimals:    decimals,
		}
		details.UiAmount = amountToUI(amount, decimals)
		return details, true

	default:
		return chainmodel.TokenTransferDetails{}, false
	}
}

// amountToUI converts raw base units to human units, mirroring
// spl_token's amount_to_ui_amount.
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
