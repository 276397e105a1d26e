// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package tree

import (
	"errors"
	"math/bits"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidProof = errors.New("invalid merkle proof")

// HashFromByteSlices computes a Merkle tree where the leaves are the byte slice,
// in the provided order. It follows RFC-6962.
func HashFromByteSlices(items [][]byte) []byte {
	switch len(items) {
	case 0:
		return emptyHash()
	case 1:
		return LeafHash(items[0])
	default:
		k := getSplitPoint(int64(len(items)))
		left := HashFromByteSlices(items[:k])
		right := HashFromByteSlices(items[k:])
		return InnerHash(left, right)
	}
}

// getSplitPoint returns the largest power of 2 less than length
func getSplitPoint(length int64) int64 {
	if length < 1 {
		panic("Trying to split a tree with size < 1")
	}
	uLength := uint(length)
	bitlen := bits.Len(uLength)
	k := int64(1 << uint(bitlen-1))
	if k == length {
		k >>= 1
	}
	return k
}

// ProofPath returns the direction bits of leaf index in a tree of total
// leaves, leaf to root. A true bit means the node on the path is a right
// child, so its sibling sits on the left.
func ProofPath(index, total int64) ([]bool, error) {
	if total < 1 || index < 0 || index >= total {
		return nil, ErrInvalidProof
	}
	return proofPath(index, total), nil
}

func proofPath(index, total int64) []bool {
	if total == 1 {
		return nil
	}
	k := getSplitPoint(total)
	if index < k {
		return append(proofPath(index, k), false)
	}
	return append(proofPath(index-k, total-k), true)
}

// ProveLeaf returns the siblings and path for items[index], both leaf to root.
func ProveLeaf(items [][]byte, index int) ([]common.Hash, []bool, error) {
	if index < 0 || index >= len(items) {
		return nil, nil, ErrInvalidProof
	}
	siblings, path := proveLeaf(items, index)
	return siblings, path, nil
}

func proveLeaf(items [][]byte, index int) ([]common.Hash, []bool) {
	if len(items) == 1 {
		return nil, nil
	}
	k := int(getSplitPoint(int64(len(items))))
	if index < k {
		siblings, path := proveLeaf(items[:k], index)
		return append(siblings, common.BytesToHash(HashFromByteSlices(items[k:]))), append(path, false)
	}
	siblings, path := proveLeaf(items[k:], index-k)
	return append(siblings, common.BytesToHash(HashFromByteSlices(items[:k]))), append(path, true)
}

// ComputeRoot folds a leaf up through siblings following path.
func ComputeRoot(leaf []byte, siblings []common.Hash, path []bool) (common.Hash, error) {
	if len(siblings) != len(path) {
		return common.Hash{}, ErrInvalidProof
	}
	node := LeafHash(leaf)
	for i, sibling := range siblings {
		if path[i] {
			node = InnerHash(sibling.Bytes(), node)
		} else {
			node = InnerHash(node, sibling.Bytes())
		}
	}
	return common.BytesToHash(node), nil
}
