// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/1010adigupta/volition-da/celestia/types"
)

type fakeDA struct {
	header    *types.Header
	headerErr error

	rows    []types.NamespaceRow
	rowsErr error
	// blockRows makes NamespaceData wait for cancellation.
	blockRows bool

	blobs    []types.Blob
	blobsErr error

	proof    *types.BinaryMerkleProof
	proofErr error

	submitHeight uint64
	submitErr    error
	submitted    []types.Blob
}

func (f *fakeDA) HeaderByHeight(_ context.Context, height uint64) (*types.Header, error) {
	if f.headerErr != nil {
		return nil, f.headerErr
	}
	h := *f.header
	h.Height = height
	return &h, nil
}

func (f *fakeDA) NamespaceData(ctx context.Context, _ *types.Header, _ types.Namespace) (*types.NamespaceData, error) {
	if f.blockRows {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	return &types.NamespaceData{Rows: f.rows}, nil
}

func (f *fakeDA) Blobs(context.Context, uint64, types.Namespace) ([]types.Blob, error) {
	return f.blobs, f.blobsErr
}

func (f *fakeDA) BlobProof(_ context.Context, _ uint64, _ types.Namespace, commitment []byte) (*types.BinaryMerkleProof, error) {
	if f.proofErr != nil {
		return nil, f.proofErr
	}
	return f.proof, nil
}

func (f *fakeDA) SubmitBlob(_ context.Context, blobs []types.Blob, _ types.TxConfig) (uint64, error) {
	if f.submitErr != nil {
		return 0, f.submitErr
	}
	f.submitted = append(f.submitted, blobs...)
	return f.submitHeight, nil
}

func testNamespace(t *testing.T) types.Namespace {
	t.Helper()
	ns, err := types.NewNamespaceV0([]byte{0xde, 0xaf, 0xbe, 0xef})
	require.NoError(t, err)
	return ns
}

func testHeader() *types.Header {
	return &types.Header{
		DataHash: common.HexToHash("0x3d96b7d238e7e0456f6af8e7cdf0a67bd6cf9c2089ecb559c659dcaa1f880353").Bytes(),
		RowRoots: make([][]byte, 8),
	}
}

func node(b byte) []byte {
	n := make([]byte, 2*types.NamespaceSize+32)
	n[len(n)-1] = b
	return n
}

func presenceRow(start uint64, shares int, nodes ...[]byte) types.NamespaceRow {
	row := types.NamespaceRow{Shares: make([][]byte, shares)}
	for i := range row.Shares {
		row.Shares[i] = []byte{byte(start), byte(i)}
	}
	row.Proof = types.NewPresenceProof(start, start+uint64(shares), nodes, false)
	return row
}

func emptyRow(start uint64) types.NamespaceRow {
	return types.NamespaceRow{Proof: types.NewAbsenceProof(start, start+1, [][]byte{node(9)}, []byte{1, 2, 3}, false)}
}

func hashes(bs ...byte) []common.Hash {
	out := make([]common.Hash, len(bs))
	for i, b := range bs {
		out[i] = common.BytesToHash([]byte{b})
	}
	return out
}
