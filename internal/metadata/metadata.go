// Package metadata implements the metadata service (component F):
// cache-aside lookup of token metadata by mint, falling back to an
// on-chain mint-account fetch plus an off-chain IPFS JSON fetch.
//
// Grounded on the PDA-derivation and account-unpacking style of
// gagliardetto/solana-go used across the retrieved Solana bots, and
// on josephawallace-ninetyfive's jupiter.go for the bare net/http+
// encoding/json off-chain fetch (no HTTP client library is used
// anywhere in the pack for simple JSON GETs).
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
	"github.com/listenlabs/swapindexer-engine/internal/store"
	"github.com/listenlabs/swapindexer-engine/pkg/models"
)

var metaplexProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

type Service struct {
	cache      *store.Cache
	rpcClient  *rpc.Client
	httpClient *http.Client
	log        *zap.Logger
}

func NewService(cache *store.Cache, rpcClient *rpc.Client, log *zap.Logger) *Service {
	return &Service{
		cache:      cache,
		rpcClient:  rpcClient,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        log,
	}
}

// GetTokenMetadata implements the 6-step cache-aside lookup: cache hit
// returns immediately; a miss fetches on-chain state, derives and
// fetches the Metaplex metadata PDA, normalizes and fetches the
// off-chain URI (degrading gracefully on failure), then writes back.
func (s *Service) GetTokenMetadata(ctx context.Context, mint string) (*models.TokenMetadata, error) {
	if cached, err := s.cache.GetMetadata(ctx, mint); err == nil && cached != nil {
		return cached, nil
	}

	mintPubkey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, chainmodel.NewKindError(chainmodel.ErrKindNoMetadata, "invalid mint address", err)
	}

	spl, err := s.fetchMintAccount(ctx, mintPubkey)
	if err != nil {
		return nil, chainmodel.NewKindError(chainmodel.ErrKindNoMetadata, "mint account lookup failed", err)
	}

	mpl := s.fetchMetaplexMetadata(ctx, mintPubkey)

	result := &models.TokenMetadata{Mint: mint, Spl: *spl, Mpl: mpl}

	if err := s.cache.PutMetadata(ctx, mint, *result); err != nil && s.log != nil {
		s.log.Warn("failed to cache token metadata", zap.String("mint", mint), zap.Error(err))
	}
	return result, nil
}

// fetchMintAccount fetches and unpacks the SPL Token / Token-2022
// mint account, detecting the program variant by the account owner.
func (s *Service) fetchMintAccount(ctx context.Context, mint solana.PublicKey) (*models.SplMintState, error) {
	info, err := s.rpcClient.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("get_account_info: %w", err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("mint account %s not found", mint)
	}
	owner := info.Value.Owner
	if !owner.Equals(solana.TokenProgramID) && owner.String() != "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb" {
		return nil, fmt.Errorf("unknown mint account owner %s", owner)
	}

	data := info.Value.Data.GetBinary()
	return unpackMintAccount(data)
}

// unpackMintAccount decodes the fixed 82-byte SPL Token Mint layout:
// mint_authority option (4+32), supply (8), decimals (1), is_initialized
// (1), freeze_authority option (4+32).
func unpackMintAccount(data []byte) (*models.SplMintState, error) {
	if len(data) < 82 {
		return nil, fmt.Errorf("mint account data too short: %d bytes", len(data))
	}
	state := &models.SplMintState{}

	if data[0] == 1 {
		auth := solana.PublicKeyFromBytes(data[4:36]).String()
		state.MintAuthority = &auth
	}
	state.Supply = leUint64(data[36:44])
	state.Decimals = data[44]
	state.IsInitialized = data[45] != 0
	if data[46] == 1 {
		freeze := solana.PublicKeyFromBytes(data[50:82]).String()
		state.FreezeAuthority = &freeze
	}
	return state, nil
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// fetchMetaplexMetadata derives the Metaplex metadata PDA and fetches
// name/symbol/uri, trimming NUL padding, then normalizes and fetches
// the off-chain URI. Any failure here degrades gracefully: a partial
// MplMetadata is returned rather than an error.
func (s *Service) fetchMetaplexMetadata(ctx context.Context, mint solana.PublicKey) models.MplMetadata {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), metaplexProgramID.Bytes(), mint.Bytes()},
		metaplexProgramID,
	)
	if err != nil {
		if s.log != nil {
			s.log.Warn("failed to derive metadata PDA", zap.String("mint", mint.String()), zap.Error(err))
		}
		return models.MplMetadata{}
	}

	info, err := s.rpcClient.GetAccountInfo(ctx, pda)
	if err != nil || info == nil || info.Value == nil {
		return models.MplMetadata{}
	}

	name, symbol, uri, ok := parseMetaplexNameSymbolURI(info.Value.Data.GetBinary())
	if !ok {
		return models.MplMetadata{}
	}
	mpl := models.MplMetadata{Name: name, Symbol: symbol, URI: uri}

	normalized := normalizeIPFSURI(uri)
	if normalized == "" {
		return mpl
	}
	if ipfsJSON, err := s.fetchJSON(ctx, normalized); err == nil {
		mpl.IpfsMetadata = ipfsJSON
	}
	return mpl
}

// parseMetaplexNameSymbolURI reads the fixed-prefix name/symbol/uri
// fields of the Metaplex Metadata account layout (each is a
// u32-length-prefixed, NUL-padded fixed-size string after the 1-byte
// key + 32-byte update_authority + 32-byte mint header).
func parseMetaplexNameSymbolURI(data []byte) (name, symbol, uri string, ok bool) {
	const headerLen = 1 + 32 + 32
	if len(data) < headerLen+4 {
		return "", "", "", false
	}
	offset := headerLen

	readString := func() (string, bool) {
		if offset+4 > len(data) {
			return "", false
		}
		length := int(leUint32(data[offset : offset+4]))
		offset += 4
		if offset+length > len(data) {
			return "", false
		}
		raw := data[offset : offset+length]
		offset += length
		return strings.TrimRight(string(raw), "\x00"), true
	}

	var good bool
	if name, good = readString(); !good {
		return "", "", "", false
	}
	if symbol, good = readString(); !good {
		return "", "", "", false
	}
	if uri, good = readString(); !good {
		return "", "", "", false
	}
	return name, symbol, uri, true
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

const ipfsGateway = "https://ipfs.io/ipfs/"

// normalizeIPFSURI maps ipfs://CID and .../ipfs/CID to the same
// canonical HTTPS gateway URL; non-IPFS URIs pass through unchanged.
func normalizeIPFSURI(uri string) string {
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		return ipfsGateway + strings.TrimPrefix(uri, "ipfs://")
	case strings.Contains(uri, "/ipfs/"):
		idx := strings.Index(uri, "/ipfs/")
		return ipfsGateway + uri[idx+len("/ipfs/"):]
	default:
		return uri
	}
}

func (s *Service) fetchJSON(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// IsPumpSubstring reports whether metadata's ipfs_metadata.createdOn
// contains the configured launchpad substring, the only reliable
// launchpad-origin signal per the spec's design notes.
func IsPumpSubstring(meta models.TokenMetadata, substring string) bool {
	createdOn, ok := meta.CreatedOn()
	if !ok {
		return false
	}
	return strings.Contains(createdOn, substring)
}
