// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	blobstreamx "github.com/succinctlabs/blobstreamx/bindings"
	"github.com/tendermint/tendermint/rpc/client/http"
	coretypes "github.com/tendermint/tendermint/rpc/core/types"

	"github.com/1010adigupta/volition-da/celestia/tree"
	"github.com/1010adigupta/volition-da/celestia/types"
)

// DataCommitment is a Blobstream data commitment covering the Celestia
// heights [StartBlock, EndBlock).
type DataCommitment struct {
	Nonce      uint64
	StartBlock uint64
	EndBlock   uint64
	Root       common.Hash
}

func (d *DataCommitment) Covers(height uint64) bool {
	return d.StartBlock <= height && height < d.EndBlock
}

// CommitmentFinder locates the data commitment relayed to L1 for a height.
type CommitmentFinder interface {
	FindDataCommitment(ctx context.Context, height uint64) (*DataCommitment, error)
}

type blockNumberReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

type l1Backend interface {
	bind.ContractBackend
	blockNumberReader
}

// Blobstream reads data commitments from the BlobstreamX contract on L1.
type Blobstream struct {
	contract *blobstreamx.BlobstreamX
	l1       blockNumberReader
	lookback uint64
}

func NewBlobstream(address common.Address, l1 l1Backend, lookback uint64) (*Blobstream, error) {
	contract, err := blobstreamx.NewBlobstreamX(address, l1)
	if err != nil {
		return nil, err
	}
	return &Blobstream{contract: contract, l1: l1, lookback: lookback}, nil
}

// FindDataCommitment scans the last lookback L1 blocks for the
// DataCommitmentStored event whose range covers height.
func (b *Blobstream) FindDataCommitment(ctx context.Context, height uint64) (*DataCommitment, error) {
	latest, err := b.l1.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	var start uint64
	if latest > b.lookback {
		start = latest - b.lookback
	}
	it, err := b.contract.FilterDataCommitmentStored(&bind.FilterOpts{
		Context: ctx,
		Start:   start,
		End:     &latest,
	}, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var found *DataCommitment
	for it.Next() {
		e := it.Event
		candidate := &DataCommitment{
			Nonce:      e.ProofNonce.Uint64(),
			StartBlock: e.StartBlock,
			EndBlock:   e.EndBlock,
			Root:       e.DataCommitment,
		}
		if candidate.Covers(height) {
			found = candidate
			break
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no data commitment covering height %d in L1 blocks [%d, %d]", types.ErrNotFound, height, start, latest)
	}
	log.Debug("Found data commitment", "height", height, "nonce", found.Nonce, "start", found.StartBlock, "end", found.EndBlock)
	return found, nil
}

// VerifyAttestation asks the contract whether tuple is committed under nonce.
func (b *Blobstream) VerifyAttestation(ctx context.Context, nonce uint64, tuple types.DataRootTuple, index, total int64, siblings []common.Hash) (bool, error) {
	sideNodes := make([][32]byte, len(siblings))
	for i, s := range siblings {
		sideNodes[i] = s
	}
	return b.contract.VerifyAttestation(
		&bind.CallOpts{Context: ctx},
		new(big.Int).SetUint64(nonce),
		blobstreamx.DataRootTuple{
			Height:   new(big.Int).SetUint64(tuple.Height),
			DataRoot: tuple.DataRoot,
		},
		blobstreamx.BinaryMerkleProof{
			SideNodes: sideNodes,
			Key:       big.NewInt(index),
			NumLeaves: big.NewInt(total),
		},
	)
}

// DataRootProver produces the inclusion proof of a height's data root in the
// data commitment covering [start, end).
type DataRootProver interface {
	DataRootInclusionProof(ctx context.Context, height, start, end uint64) (*coretypes.ResultDataRootInclusionProof, error)
}

func NewDataRootProver(tendermintRPC string) (*http.HTTP, error) {
	trpc, err := http.New(tendermintRPC, "/websocket")
	if err != nil {
		log.Error("Unable to establish connection with celestia-core tendermint rpc", "err", err)
		return nil, err
	}
	return trpc, nil
}

// AttestationVerifier checks a data root tuple proof against a Blobstream
// data commitment. *Blobstream implements it.
type AttestationVerifier interface {
	VerifyAttestation(ctx context.Context, nonce uint64, tuple types.DataRootTuple, index, total int64, siblings []common.Hash) (bool, error)
}

var _ AttestationVerifier = (*Blobstream)(nil)

// AttestationProofSource proves the height's data root tuple against the
// Blobstream data commitment. Tendermint aunts are ordered leaf to root, so
// the path is derived from the leaf index with the same split rule. With a
// verifier set, a proof the contract does not accept is an error.
type AttestationProofSource struct {
	headers  HeaderReader
	finder   CommitmentFinder
	prover   DataRootProver
	verifier AttestationVerifier
}

type HeaderReader interface {
	HeaderByHeight(ctx context.Context, height uint64) (*types.Header, error)
}

func NewAttestationProofSource(headers HeaderReader, finder CommitmentFinder, prover DataRootProver, verifier AttestationVerifier) *AttestationProofSource {
	return &AttestationProofSource{headers: headers, finder: finder, prover: prover, verifier: verifier}
}

func (s *AttestationProofSource) MerkleProof(ctx context.Context, height uint64) (*types.BinaryMerkleProof, error) {
	commitment, err := s.finder.FindDataCommitment(ctx, height)
	if err != nil {
		return nil, err
	}
	res, err := s.prover.DataRootInclusionProof(ctx, height, commitment.StartBlock, commitment.EndBlock)
	if err != nil {
		return nil, classify(err, "data root inclusion proof", height)
	}
	proof := res.Proof
	siblings := make([]common.Hash, len(proof.Aunts))
	for i, aunt := range proof.Aunts {
		if len(aunt) != common.HashLength {
			return nil, fmt.Errorf("%w: aunt %d is %d bytes", types.ErrProofExtraction, i, len(aunt))
		}
		siblings[i] = common.BytesToHash(aunt)
	}
	path, err := tree.ProofPath(proof.Index, proof.Total)
	if err != nil {
		return nil, errors.Wrapf(types.ErrProofExtraction, "attestation proof at height %d: %v", height, err)
	}
	if len(path) != len(siblings) {
		return nil, fmt.Errorf("%w: %d aunts for a %d level path", types.ErrProofExtraction, len(siblings), len(path))
	}
	if s.verifier != nil {
		if err := s.verify(ctx, height, commitment.Nonce, proof.Index, proof.Total, siblings); err != nil {
			return nil, err
		}
	}
	return &types.BinaryMerkleProof{Siblings: siblings, Path: path}, nil
}

func (s *AttestationProofSource) verify(ctx context.Context, height, nonce uint64, index, total int64, siblings []common.Hash) error {
	header, err := s.headers.HeaderByHeight(ctx, height)
	if err != nil {
		return err
	}
	root, err := header.DataRoot()
	if err != nil {
		return err
	}
	tuple := types.DataRootTuple{Height: height, DataRoot: root}
	ok, err := s.verifier.VerifyAttestation(ctx, nonce, tuple, index, total, siblings)
	if err != nil {
		return fmt.Errorf("%w: verifying attestation at height %d: %v", types.ErrNetwork, height, err)
	}
	if !ok {
		return fmt.Errorf("%w: height %d under nonce %d", ErrAttestationRejected, height, nonce)
	}
	log.Debug("Attestation verified", "height", height, "nonce", nonce, "index", index, "total", total)
	return nil
}
