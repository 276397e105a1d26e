// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/1010adigupta/volition-da/celestia/types"
)

// Merkle proof source names accepted in configuration.
const (
	MerkleSourceCommitment  = "commitment"
	MerkleSourceRow         = "row"
	MerkleSourceAttestation = "attestation"
)

// MerkleProofSource produces the binary Merkle proof bundled into
// VerificationData for a height.
type MerkleProofSource interface {
	MerkleProof(ctx context.Context, height uint64) (*types.BinaryMerkleProof, error)
}

// CommitmentProofSource looks up the first blob of the namespace at the
// height and asks the DA node for the proof of its commitment. Siblings and
// path are kept exactly as the reader returns them.
type CommitmentProofSource struct {
	reader    types.DataAvailabilityReader
	namespace types.Namespace
}

func NewCommitmentProofSource(reader types.DataAvailabilityReader, ns types.Namespace) *CommitmentProofSource {
	return &CommitmentProofSource{reader: reader, namespace: ns}
}

func (s *CommitmentProofSource) MerkleProof(ctx context.Context, height uint64) (*types.BinaryMerkleProof, error) {
	blobs, err := s.reader.Blobs(ctx, height, s.namespace)
	if err != nil {
		return nil, err
	}
	if len(blobs) == 0 {
		return nil, fmt.Errorf("%w: no blob in namespace %s at height %d", types.ErrNotFound, s.namespace, height)
	}
	proof, err := s.reader.BlobProof(ctx, height, s.namespace, blobs[0].Commitment)
	if err != nil {
		return nil, err
	}
	return copyBinaryProof(proof.Siblings, proof.Path), nil
}

// RowProofSource reuses the inclusion proof of the first non-empty namespace
// row, or of the first row when the namespace has no shares at the height.
// Presence and absence proofs are treated the same way.
type RowProofSource struct {
	reader    types.DataAvailabilityReader
	namespace types.Namespace
}

func NewRowProofSource(reader types.DataAvailabilityReader, ns types.Namespace) *RowProofSource {
	return &RowProofSource{reader: reader, namespace: ns}
}

func (s *RowProofSource) MerkleProof(ctx context.Context, height uint64) (*types.BinaryMerkleProof, error) {
	header, err := s.reader.HeaderByHeight(ctx, height)
	if err != nil {
		return nil, err
	}
	data, err := s.reader.NamespaceData(ctx, header, s.namespace)
	if err != nil {
		return nil, err
	}
	proof := firstRowProof(data.Rows)
	if proof == nil {
		return nil, fmt.Errorf("%w: no namespace rows at height %d", types.ErrNotFound, height)
	}
	return copyBinaryProof(proof.Siblings(), proof.Path()), nil
}

func firstRowProof(rows []types.NamespaceRow) types.InclusionProof {
	var fallback types.InclusionProof
	for _, row := range rows {
		if row.Proof == nil {
			continue
		}
		if len(row.Shares) > 0 {
			return row.Proof
		}
		if fallback == nil {
			fallback = row.Proof
		}
	}
	return fallback
}

func copyBinaryProof(siblings []common.Hash, path []bool) *types.BinaryMerkleProof {
	return &types.BinaryMerkleProof{
		Siblings: append([]common.Hash{}, siblings...),
		Path:     append([]bool{}, path...),
	}
}
