// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/merkle"
	coretypes "github.com/tendermint/tendermint/rpc/core/types"

	"github.com/1010adigupta/volition-da/celestia/tree"
	"github.com/1010adigupta/volition-da/celestia/types"
)

func TestCommitmentProofSourceKeepsProofVerbatim(t *testing.T) {
	ns := testNamespace(t)
	da := &fakeDA{
		blobs: []types.Blob{{Commitment: []byte{1}}, {Commitment: []byte{2}}},
		proof: &types.BinaryMerkleProof{Siblings: hashes(7, 8), Path: []bool{false, true}},
	}
	proof, err := NewCommitmentProofSource(da, ns).MerkleProof(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, hashes(7, 8), proof.Siblings)
	require.Equal(t, []bool{false, true}, proof.Path)

	da.blobs = nil
	_, err = NewCommitmentProofSource(da, ns).MerkleProof(context.Background(), 4)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestRowProofSource(t *testing.T) {
	ns := testNamespace(t)
	da := &fakeDA{header: testHeader()}
	_, err := NewRowProofSource(da, ns).MerkleProof(context.Background(), 4)
	require.ErrorIs(t, err, types.ErrNotFound)

	// a namespace without shares is proven by the first absence proof
	da.rows = []types.NamespaceRow{emptyRow(2), {Proof: types.NewAbsenceProof(6, 7, [][]byte{node(4), node(5)}, []byte{1}, false)}}
	proof, err := NewRowProofSource(da, ns).MerkleProof(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{common.BytesToHash(node(9))}, proof.Siblings)
	require.Equal(t, []bool{false}, proof.Path)

	// absence proofs are used like presence ones once the row has shares
	absent := emptyRow(5)
	absent.Shares = [][]byte{{1}}
	da.rows = append(da.rows, absent)
	proof, err = NewRowProofSource(da, ns).MerkleProof(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{common.BytesToHash(node(9))}, proof.Siblings)
	require.Equal(t, []bool{true}, proof.Path)
}

type fakeFinder struct {
	commitment *DataCommitment
	err        error
}

func (f *fakeFinder) FindDataCommitment(context.Context, uint64) (*DataCommitment, error) {
	return f.commitment, f.err
}

type fakeDataRootProver struct {
	items [][]byte
	start uint64
	aunts func([][]byte) [][]byte
}

func (f *fakeDataRootProver) DataRootInclusionProof(_ context.Context, height, start, end uint64) (*coretypes.ResultDataRootInclusionProof, error) {
	if height < start || height >= end || start != f.start {
		return nil, fmt.Errorf("height %d outside [%d, %d)", height, start, end)
	}
	index := int(height - start)
	siblings, _, err := tree.ProveLeaf(f.items, index)
	if err != nil {
		return nil, err
	}
	aunts := make([][]byte, len(siblings))
	for i, s := range siblings {
		aunts[i] = s.Bytes()
	}
	if f.aunts != nil {
		aunts = f.aunts(aunts)
	}
	return &coretypes.ResultDataRootInclusionProof{Proof: merkle.Proof{
		Total: int64(len(f.items)),
		Index: int64(index),
		Aunts: aunts,
	}}, nil
}

type fakeVerifier struct {
	ok    bool
	err   error
	nonce uint64
	tuple types.DataRootTuple
	index int64
	total int64
	calls int
}

func (f *fakeVerifier) VerifyAttestation(_ context.Context, nonce uint64, tuple types.DataRootTuple, index, total int64, _ []common.Hash) (bool, error) {
	f.calls++
	f.nonce, f.tuple, f.index, f.total = nonce, tuple, index, total
	return f.ok, f.err
}

func testTuples(n int) [][]byte {
	items := make([][]byte, n)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("tuple-%d", i))
	}
	return items
}

func TestAttestationProofSource(t *testing.T) {
	items := testTuples(6)
	root := common.BytesToHash(tree.HashFromByteSlices(items))
	finder := &fakeFinder{commitment: &DataCommitment{Nonce: 12, StartBlock: 100, EndBlock: 106}}
	prover := &fakeDataRootProver{items: items, start: 100}
	da := &fakeDA{header: testHeader()}

	for h := uint64(100); h < 106; h++ {
		proof, err := NewAttestationProofSource(da, finder, prover, nil).MerkleProof(context.Background(), h)
		require.NoError(t, err)
		got, err := tree.ComputeRoot(items[h-100], proof.Siblings, proof.Path)
		require.NoError(t, err)
		require.Equal(t, root, got, "height %d", h)
	}

	prover.aunts = func(a [][]byte) [][]byte {
		a[0] = a[0][:16]
		return a
	}
	_, err := NewAttestationProofSource(da, finder, prover, nil).MerkleProof(context.Background(), 101)
	require.ErrorIs(t, err, types.ErrProofExtraction)

	finder.err = types.ErrNotFound
	_, err = NewAttestationProofSource(da, finder, prover, nil).MerkleProof(context.Background(), 101)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestAttestationProofSourceVerifies(t *testing.T) {
	finder := &fakeFinder{commitment: &DataCommitment{Nonce: 12, StartBlock: 100, EndBlock: 106}}
	prover := &fakeDataRootProver{items: testTuples(6), start: 100}
	da := &fakeDA{header: testHeader()}

	verifier := &fakeVerifier{ok: true}
	proof, err := NewAttestationProofSource(da, finder, prover, verifier).MerkleProof(context.Background(), 103)
	require.NoError(t, err)
	require.NotEmpty(t, proof.Siblings)
	require.Equal(t, 1, verifier.calls)
	require.Equal(t, uint64(12), verifier.nonce)
	require.Equal(t, int64(3), verifier.index)
	require.Equal(t, int64(6), verifier.total)
	require.Equal(t, uint64(103), verifier.tuple.Height)
	require.Equal(t, testHeader().DataHash, verifier.tuple.DataRoot.Bytes())

	verifier = &fakeVerifier{ok: false}
	_, err = NewAttestationProofSource(da, finder, prover, verifier).MerkleProof(context.Background(), 103)
	require.ErrorIs(t, err, ErrAttestationRejected)

	verifier = &fakeVerifier{err: errors.New("execution reverted")}
	_, err = NewAttestationProofSource(da, finder, prover, verifier).MerkleProof(context.Background(), 103)
	require.ErrorIs(t, err, types.ErrNetwork)

	da.headerErr = types.ErrNotFound
	_, err = NewAttestationProofSource(da, finder, prover, &fakeVerifier{ok: true}).MerkleProof(context.Background(), 103)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestDataCommitmentCovers(t *testing.T) {
	c := DataCommitment{StartBlock: 10, EndBlock: 20}
	require.False(t, c.Covers(9))
	require.True(t, c.Covers(10))
	require.True(t, c.Covers(19))
	require.False(t, c.Covers(20))
}

func TestNewMerkleProofSource(t *testing.T) {
	ns := testNamespace(t)
	da := &fakeDA{}
	cfg := DefaultDAConfig
	src, err := NewMerkleProofSource(&cfg, da, ns, nil)
	require.NoError(t, err)
	require.IsType(t, &CommitmentProofSource{}, src)

	cfg.MerkleProofSource = MerkleSourceRow
	src, err = NewMerkleProofSource(&cfg, da, ns, nil)
	require.NoError(t, err)
	require.IsType(t, &RowProofSource{}, src)

	cfg.MerkleProofSource = MerkleSourceAttestation
	_, err = NewMerkleProofSource(&cfg, da, ns, nil)
	require.Error(t, err)

	cfg.MerkleProofSource = "bogus"
	_, err = NewMerkleProofSource(&cfg, da, ns, nil)
	require.Error(t, err)
}
