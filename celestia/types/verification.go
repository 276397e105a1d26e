// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package types

import (
	"crypto/sha256"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Header is the part of an extended header the prover needs.
type Header struct {
	Height uint64
	// DataHash is the data availability header hash committed in the block.
	DataHash []byte
	// RowRoots are the namespaced roots of the extended square's rows.
	RowRoots [][]byte
	// Raw is the client specific header this was decoded from, if any.
	Raw interface{}
}

// SquareWidth is the width of the original (non-extended) data square.
func (h *Header) SquareWidth() uint64 {
	return uint64(len(h.RowRoots) / 2)
}

// DataRoot returns the header's data root. Celestia data roots are SHA-256
// digests; anything else means the node handed back a header we can't use.
func (h *Header) DataRoot() (common.Hash, error) {
	if len(h.DataHash) != sha256.Size {
		return common.Hash{}, fmt.Errorf("%w: data root of height %d is %d bytes, expected a %d byte sha256 digest", ErrProofExtraction, h.Height, len(h.DataHash), sha256.Size)
	}
	return common.BytesToHash(h.DataHash), nil
}

// NamespaceRow is one row of the extended square restricted to a namespace.
type NamespaceRow struct {
	Shares [][]byte
	Proof  InclusionProof
}

type NamespaceData struct {
	Rows []NamespaceRow
}

// SharesProof carries one serialized row inclusion proof per non-empty row,
// in row order.
type SharesProof struct {
	RowProofs [][]byte
}

// DataRootTuple is the (height, data root) leaf committed to by Blobstream.
type DataRootTuple struct {
	Height   uint64
	DataRoot common.Hash
}

// BinaryMerkleProof is a sibling path through a binary hash tree. Siblings
// and path bits are kept in the order the source produced them.
type BinaryMerkleProof struct {
	Siblings []common.Hash
	Path     []bool
}

// VerificationData bundles everything the settlement contract needs to check
// that a span of shares was published.
type VerificationData struct {
	SharesProof   SharesProof
	DataRootTuple DataRootTuple
	BinaryProof   BinaryMerkleProof
	// StartIndex is the smallest absolute share index over the non-empty rows.
	StartIndex uint64
	// DataLen is the number of shares over the non-empty rows.
	DataLen uint64
}

// Blob is a payload as submitted to or read back from the DA layer.
type Blob struct {
	Namespace  Namespace
	Data       []byte
	Commitment []byte
	// Index is the absolute share index of the blob's first share, or -1 if unknown.
	Index int
}

// TxConfig controls how the DA node pays for a blob submission.
type TxConfig struct {
	GasPrice float64
}
