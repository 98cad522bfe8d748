package models

// TokenMetadata combines the on-chain (Metaplex/SPL) and off-chain
// (IPFS-hosted JSON) facts known about a mint. Cached indefinitely,
// refreshed only on cache miss.
type TokenMetadata struct {
	Mint string       `json:"mint"`
	Mpl  MplMetadata  `json:"mpl"`
	Spl  SplMintState `json:"spl"`
}

// MplMetadata is the Metaplex token-metadata PDA payload.
type MplMetadata struct {
	Name         string         `json:"name"`
	Symbol       string         `json:"symbol"`
	URI          string         `json:"uri"`
	IpfsMetadata map[string]any `json:"ipfs_metadata,omitempty"`
}

// SplMintState is the unpacked SPL Token / Token-2022 mint account.
type SplMintState struct {
	MintAuthority   *string `json:"mint_authority,omitempty"`
	Supply          uint64  `json:"supply"`
	Decimals        uint8   `json:"decimals"`
	IsInitialized   bool    `json:"is_initialized"`
	FreezeAuthority *string `json:"freeze_authority,omitempty"`
}

// CreatedOn returns the createdOn field of ipfs_metadata, if present.
func (m TokenMetadata) CreatedOn() (string, bool) {
	if m.Mpl.IpfsMetadata == nil {
		return "", false
	}
	v, ok := m.Mpl.IpfsMetadata["createdOn"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
