// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	flag "github.com/spf13/pflag"

	"github.com/1010adigupta/volition-da/celestia/types"
)

type DAConfig struct {
	Rpc               string        `koanf:"rpc"`
	AuthToken         string        `koanf:"auth-token"`
	Namespace         string        `koanf:"namespace"`
	GasPrice          float64       `koanf:"gas-price"`
	TendermintRPC     string        `koanf:"tendermint-rpc"`
	MerkleProofSource string        `koanf:"merkle-proof-source"`
	RequestTimeout    time.Duration `koanf:"request-timeout"`
	HeaderCacheSize   int           `koanf:"header-cache-size"`
}

var DefaultDAConfig = DAConfig{
	GasPrice:          0.002,
	MerkleProofSource: MerkleSourceCommitment,
	RequestTimeout:    30 * time.Second,
	HeaderCacheSize:   64,
}

func DAConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".rpc", DefaultDAConfig.Rpc, "celestia-node JSON-RPC endpoint")
	f.String(prefix+".auth-token", DefaultDAConfig.AuthToken, "celestia-node auth token")
	f.String(prefix+".namespace", DefaultDAConfig.Namespace, "hex encoded namespace (full 29 bytes or a version zero id of up to 10 bytes)")
	f.Float64(prefix+".gas-price", DefaultDAConfig.GasPrice, "gas price paid for blob submissions, in utia")
	f.String(prefix+".tendermint-rpc", DefaultDAConfig.TendermintRPC, "celestia-core RPC endpoint, required by the attestation merkle proof source")
	f.String(prefix+".merkle-proof-source", DefaultDAConfig.MerkleProofSource, "where the binary merkle proof comes from: commitment, row or attestation")
	f.Duration(prefix+".request-timeout", DefaultDAConfig.RequestTimeout, "timeout for a single DA request")
	f.Int(prefix+".header-cache-size", DefaultDAConfig.HeaderCacheSize, "number of recent headers kept in memory (0 = no cache)")
}

func (c *DAConfig) Validate() error {
	if c.Rpc == "" {
		return errors.New("--celestia.rpc is required")
	}
	if _, err := types.NamespaceFromHex(c.Namespace); err != nil {
		return fmt.Errorf("--celestia.namespace: %w", err)
	}
	switch c.MerkleProofSource {
	case MerkleSourceCommitment, MerkleSourceRow:
	case MerkleSourceAttestation:
		if c.TendermintRPC == "" {
			return errors.New("--celestia.tendermint-rpc is required by the attestation merkle proof source")
		}
	default:
		return fmt.Errorf("--celestia.merkle-proof-source %q not recognized", c.MerkleProofSource)
	}
	if c.GasPrice < 0 {
		return errors.New("--celestia.gas-price cannot be negative")
	}
	return nil
}

func (c *DAConfig) ParsedNamespace() (types.Namespace, error) {
	return types.NamespaceFromHex(c.Namespace)
}

type BlobstreamConfig struct {
	Address        string `koanf:"address"`
	LookbackBlocks uint64 `koanf:"lookback-blocks"`
}

var DefaultBlobstreamConfig = BlobstreamConfig{
	LookbackBlocks: 90000,
}

func BlobstreamConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".address", DefaultBlobstreamConfig.Address, "L1 address of the BlobstreamX contract; when empty the settlement nonce falls back to the block number")
	f.Uint64(prefix+".lookback-blocks", DefaultBlobstreamConfig.LookbackBlocks, "number of L1 blocks to scan back from head for data commitment events")
}

func (c *BlobstreamConfig) Enabled() bool {
	return c.Address != ""
}

func (c *BlobstreamConfig) Validate() error {
	if c.Address != "" && !common.IsHexAddress(c.Address) {
		return fmt.Errorf("--blobstream.address %q is not a valid address", c.Address)
	}
	if c.Address != "" && c.LookbackBlocks == 0 {
		return errors.New("--blobstream.lookback-blocks must be positive")
	}
	return nil
}

// NewMerkleProofSource builds the source named by cfg.MerkleProofSource.
// The attestation source needs a commitment finder; the others ignore it.
// A finder that can also verify attestations gets every attestation proof
// checked before it is used.
func NewMerkleProofSource(cfg *DAConfig, reader types.DataAvailabilityReader, ns types.Namespace, finder CommitmentFinder) (MerkleProofSource, error) {
	switch cfg.MerkleProofSource {
	case MerkleSourceCommitment, "":
		return NewCommitmentProofSource(reader, ns), nil
	case MerkleSourceRow:
		return NewRowProofSource(reader, ns), nil
	case MerkleSourceAttestation:
		if finder == nil {
			return nil, errors.New("attestation merkle proof source requires --blobstream.address")
		}
		trpc, err := NewDataRootProver(cfg.TendermintRPC)
		if err != nil {
			return nil, err
		}
		verifier, _ := finder.(AttestationVerifier)
		return NewAttestationProofSource(reader, finder, trpc, verifier), nil
	default:
		return nil, fmt.Errorf("merkle proof source %q not recognized", cfg.MerkleProofSource)
	}
}
