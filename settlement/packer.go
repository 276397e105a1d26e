// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/1010adigupta/volition-da/celestia/types"
)

// Pack converts verification data into the contract's ProofData. Row proofs
// and siblings are copied unchanged and the path is bit packed. It does no
// I/O and never mutates vd.
func Pack(vd *types.VerificationData, stateRoot, rollupBlockHash common.Hash, nonce uint64, zkProof []byte) ProofData {
	rowProofs := make([][]byte, len(vd.SharesProof.RowProofs))
	for i, p := range vd.SharesProof.RowProofs {
		rowProofs[i] = common.CopyBytes(p)
	}
	siblings := make([][32]byte, len(vd.BinaryProof.Siblings))
	for i, s := range vd.BinaryProof.Siblings {
		siblings[i] = s
	}
	return ProofData{
		StateRoot:       stateRoot,
		RollupBlockHash: rollupBlockHash,
		ZkProof:         append([]byte{}, zkProof...),
		SharesProof:     SharesProof{RowProofs: rowProofs},
		BlobstreamNonce: new(big.Int).SetUint64(nonce),
		Tuple: DataRootTuple{
			Height:   new(big.Int).SetUint64(vd.DataRootTuple.Height),
			DataRoot: vd.DataRootTuple.DataRoot,
		},
		Proof: BinaryMerkleProof{
			Siblings: siblings,
			Path:     PackPath(vd.BinaryProof.Path),
		},
	}
}

// PackPath packs path bits MSB first: bit i lands in byte i/8 at position
// 7-i%8. Unused low bits of the last byte are zero.
func PackPath(path []bool) []byte {
	packed := make([]byte, (len(path)+7)/8)
	for i, bit := range path {
		if bit {
			packed[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return packed
}

// UnpackPath returns the first n bits of packed. n is clamped to
// [0, len(packed)*8].
func UnpackPath(packed []byte, n int) []bool {
	if n < 0 {
		n = 0
	}
	if n > len(packed)*8 {
		n = len(packed) * 8
	}
	path := make([]bool, n)
	for i := range path {
		path[i] = packed[i/8]&(1<<(7-uint(i%8))) != 0
	}
	return path
}
