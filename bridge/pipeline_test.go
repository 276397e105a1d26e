// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/merkle"
	coretypes "github.com/tendermint/tendermint/rpc/core/types"

	"github.com/1010adigupta/volition-da/celestia"
	"github.com/1010adigupta/volition-da/celestia/types"
	"github.com/1010adigupta/volition-da/settlement"
)

// slowDA includes every blob at height and only serves the header after
// missing lookups reported ErrNotFound.
type slowDA struct {
	mu          sync.Mutex
	height      uint64
	missing     int
	headerCalls int
}

func (d *slowDA) HeaderByHeight(_ context.Context, height uint64) (*types.Header, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.headerCalls++
	if d.headerCalls <= d.missing || height != d.height {
		return nil, types.ErrNotFound
	}
	return &types.Header{
		Height:   height,
		DataHash: common.HexToHash("0x3d96b7d238e7e0456f6af8e7cdf0a67bd6cf9c2089ecb559c659dcaa1f880353").Bytes(),
		RowRoots: make([][]byte, 8),
	}, nil
}

func (d *slowDA) NamespaceData(context.Context, *types.Header, types.Namespace) (*types.NamespaceData, error) {
	node := make([]byte, 2*types.NamespaceSize+32)
	node[len(node)-1] = 1
	return &types.NamespaceData{Rows: []types.NamespaceRow{{
		Shares: [][]byte{{1}, {2}},
		Proof:  types.NewPresenceProof(3, 5, [][]byte{node}, false),
	}}}, nil
}

func (d *slowDA) Blobs(context.Context, uint64, types.Namespace) ([]types.Blob, error) {
	return []types.Blob{{Commitment: []byte{1}}}, nil
}

func (d *slowDA) BlobProof(context.Context, uint64, types.Namespace, []byte) (*types.BinaryMerkleProof, error) {
	return &types.BinaryMerkleProof{Siblings: []common.Hash{common.HexToHash("0x07")}, Path: []bool{true}}, nil
}

func (d *slowDA) SubmitBlob(context.Context, []types.Blob, types.TxConfig) (uint64, error) {
	return d.height, nil
}

func pipelineNamespace(t *testing.T) types.Namespace {
	t.Helper()
	ns, err := types.NewNamespaceV0([]byte{0xca, 0xfe})
	require.NoError(t, err)
	return ns
}

func TestRunWaitsForHeaderOfPostedBlob(t *testing.T) {
	ns := pipelineNamespace(t)
	da := &slowDA{height: 900, missing: 2}
	settler := &fakeSettler{res: &settlement.Result{Stage: settlement.StageConfirmed, Confirmed: true}}
	ledger := &fakeLedger{}
	b := New(testConfig(), celestia.NewPoster(da, ns, 0), da, celestia.NewProver(da, ns, nil), nil, settler, ledger)

	report, err := b.Run(context.Background(), &Batch{Payload: []byte("block 900")})
	require.NoError(t, err)
	require.Equal(t, types.SequenceSpan{Height: 900, StartIndex: 3, DataLen: 2}, report.Pointer.Span)
	require.Equal(t, uint64(900), report.BlockNumber)

	require.Len(t, ledger.inserted, 1)
	require.Equal(t, report.Pointer.Span, ledger.inserted[0].Span)
	require.Equal(t, uint64(3), settler.req.StartIndex)
	require.Equal(t, uint64(2), settler.req.DataLen)
}

func TestRunRecordsBlobWhoseHeaderNeverArrives(t *testing.T) {
	ns := pipelineNamespace(t)
	da := &slowDA{height: 900, missing: 1 << 30}
	settler := &fakeSettler{}
	ledger := &fakeLedger{}
	cfg := testConfig()
	cfg.HeaderWaitTimeout = 20 * time.Millisecond
	payload := []byte("block 900")
	b := New(cfg, celestia.NewPoster(da, ns, 0), da, celestia.NewProver(da, ns, nil), nil, settler, ledger)

	report, err := b.Run(context.Background(), &Batch{Payload: payload})
	require.ErrorIs(t, err, ErrHeaderWait)
	require.NotErrorIs(t, err, ErrPost)
	require.Nil(t, settler.req)

	commitment, err := celestia.Commitment(ns, payload)
	require.NoError(t, err)
	require.Len(t, ledger.inserted, 1)
	require.Equal(t, types.SequenceSpan{Height: 900}, ledger.inserted[0].Span)
	require.Equal(t, commitment, ledger.inserted[0].Commitment[:len(commitment)])
	require.Equal(t, "posted", ledger.outcomes[report.SubmissionID].Stage)
}

type fakeDataRootProver struct{}

func (fakeDataRootProver) DataRootInclusionProof(_ context.Context, height, start, _ uint64) (*coretypes.ResultDataRootInclusionProof, error) {
	return &coretypes.ResultDataRootInclusionProof{Proof: merkle.Proof{
		Total: 2,
		Index: int64(height - start),
		Aunts: [][]byte{common.HexToHash("0x09").Bytes()},
	}}, nil
}

type fakeVerifier struct {
	ok    bool
	nonce uint64
}

func (f *fakeVerifier) VerifyAttestation(_ context.Context, nonce uint64, _ types.DataRootTuple, _, _ int64, _ []common.Hash) (bool, error) {
	f.nonce = nonce
	return f.ok, nil
}

func TestRunChecksAttestationBeforeSettling(t *testing.T) {
	ns := pipelineNamespace(t)
	finder := &fakeFinder{nonce: 31}

	for _, accepted := range []bool{true, false} {
		da := &slowDA{height: 900}
		verifier := &fakeVerifier{ok: accepted}
		source := celestia.NewAttestationProofSource(da, finder, fakeDataRootProver{}, verifier)
		settler := &fakeSettler{res: &settlement.Result{Stage: settlement.StageConfirmed, Confirmed: true}}
		ledger := &fakeLedger{}
		b := New(testConfig(), celestia.NewPoster(da, ns, 0), da, celestia.NewProver(da, ns, source), finder, settler, ledger)

		report, err := b.Run(context.Background(), &Batch{Payload: []byte("block 900")})
		require.Equal(t, uint64(31), verifier.nonce)
		if accepted {
			require.NoError(t, err)
			require.Equal(t, []bool{true}, report.Verification.BinaryProof.Path)
			require.Equal(t, uint64(31), settler.req.ProofData.BlobstreamNonce.Uint64())
			continue
		}
		require.ErrorIs(t, err, ErrAssemble)
		require.ErrorIs(t, err, celestia.ErrAttestationRejected)
		require.Nil(t, settler.req)
		outcome := ledger.outcomes[report.SubmissionID]
		require.NotNil(t, outcome)
		require.False(t, outcome.Confirmed)
	}
}
