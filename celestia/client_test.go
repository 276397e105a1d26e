// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"bytes"
	"errors"
	"testing"

	"github.com/celestiaorg/celestia-openrpc/types/share"
	"github.com/celestiaorg/nmt"
	"github.com/stretchr/testify/require"

	"github.com/1010adigupta/volition-da/celestia/types"
)

func rawShares(t *testing.T, n int) [][]byte {
	t.Helper()
	raw := make([][]byte, n)
	for i := range raw {
		raw[i] = bytes.Repeat([]byte{byte(i + 1)}, share.Size)
	}
	return raw
}

func TestFromNamespacedRow(t *testing.T) {
	raw := rawShares(t, 2)
	shares, err := share.FromBytes(raw)
	require.NoError(t, err)

	proof := nmt.NewInclusionProof(3, 5, [][]byte{node(1), node(2)}, true)
	namespaced := share.NamespacedShares{{Shares: shares, Proof: &proof}}

	row := fromNamespacedRow(namespaced[0], 16)
	require.Equal(t, raw, row.Shares)
	require.False(t, row.Proof.IsOfAbsence())
	require.Equal(t, uint64(19), row.Proof.Start())
	require.Equal(t, uint64(21), row.Proof.End())
	require.Len(t, row.Proof.Siblings(), 2)
	require.Equal(t, []bool{true, true}, row.Proof.Path())

	absence := nmt.NewAbsenceProof(0, 1, [][]byte{node(3)}, []byte{7, 7}, true)
	row = fromNamespacedRow(share.NamespacedRow{Proof: &absence}, 8)
	require.Empty(t, row.Shares)
	require.True(t, row.Proof.IsOfAbsence())
	require.Equal(t, uint64(8), row.Proof.Start())
	require.Equal(t, []byte{7, 7}, row.Proof.(*types.AbsenceProof).LeafHash())
}

func TestClassify(t *testing.T) {
	err := classify(errors.New("header: not found"), "header", 3)
	require.ErrorIs(t, err, types.ErrNotFound)
	err = classify(errors.New("connection refused"), "header", 3)
	require.ErrorIs(t, err, types.ErrNetwork)
}
