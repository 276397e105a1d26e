// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package tree

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// NamespaceSize is the size of the namespace prefixes on a namespaced node.
const NamespaceSize = 29

// NamespaceRange splits a namespaced node into its min and max namespace.
func NamespaceRange(node []byte) (minNs, maxNs []byte, ok bool) {
	if len(node) < NamespaceSize*2 {
		return nil, nil, false
	}
	return node[:NamespaceSize], node[NamespaceSize : NamespaceSize*2], true
}

// RowsOfNamespace returns the indices of the original square rows whose
// roots cover ns, in row order.
func RowsOfNamespace(rowRoots [][]byte, ns []byte) []int {
	var rows []int
	for i, root := range rowRoots[:len(rowRoots)/2] {
		minNs, maxNs, ok := NamespaceRange(root)
		if !ok {
			continue
		}
		if bytes.Compare(minNs, ns) <= 0 && bytes.Compare(ns, maxNs) <= 0 {
			rows = append(rows, i)
		}
	}
	return rows
}

// NodeDigest extracts the digest of a namespaced node.
// note that a node has the format minNID || maxNID || hash
func NodeDigest(node []byte) common.Hash {
	return common.BytesToHash(node)
}

// LeafPath derives one direction bit per level for the leaf at index, leaf
// to root, from the parity of the node index at each level.
func LeafPath(index uint64, levels int) []bool {
	path := make([]bool, levels)
	for i := range path {
		path[i] = index&1 == 1
		index >>= 1
	}
	return path
}
