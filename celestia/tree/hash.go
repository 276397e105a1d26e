// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package tree

import (
	"github.com/tendermint/tendermint/crypto/tmhash"
)

var (
	leafPrefix  = []byte{0}
	innerPrefix = []byte{1}
)

// returns tmhash(<empty>)
func emptyHash() []byte {
	return tmhash.Sum([]byte{})
}

// LeafHash returns tmhash(0x00 || leaf)
func LeafHash(leaf []byte) []byte {
	preimage := make([]byte, 0, len(leafPrefix)+len(leaf))
	preimage = append(preimage, leafPrefix...)
	return tmhash.Sum(append(preimage, leaf...))
}

// InnerHash returns tmhash(0x01 || left || right)
func InnerHash(left []byte, right []byte) []byte {
	preimage := make([]byte, 0, len(innerPrefix)+len(left)+len(right))
	preimage = append(preimage, innerPrefix...)
	preimage = append(preimage, left...)
	return tmhash.Sum(append(preimage, right...))
}
