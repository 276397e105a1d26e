// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/1010adigupta/volition-da/celestia/types"
)

func testVerificationData() *types.VerificationData {
	return &types.VerificationData{
		SharesProof: types.SharesProof{RowProofs: [][]byte{[]byte(`{"start":5}`), []byte(`{"start":10}`)}},
		DataRootTuple: types.DataRootTuple{
			Height:   1234,
			DataRoot: common.HexToHash("0x3d96b7d238e7e0456f6af8e7cdf0a67bd6cf9c2089ecb559c659dcaa1f880353"),
		},
		BinaryProof: types.BinaryMerkleProof{
			Siblings: []common.Hash{common.HexToHash("0x01"), common.HexToHash("0x02")},
			Path:     []bool{true, false, true, true, false, false, false, false, true},
		},
		StartIndex: 5,
		DataLen:    5,
	}
}

func TestPackPathScenario(t *testing.T) {
	packed := PackPath([]bool{true, false, true, true, false, false, false, false, true})
	require.Equal(t, []byte{0b10110000, 0b10000000}, packed)
	require.Empty(t, PackPath(nil))
	require.Equal(t, []byte{0xff}, PackPath([]bool{true, true, true, true, true, true, true, true}))
}

func TestPackPathInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for l := 0; l <= 70; l++ {
		path := make([]bool, l)
		for i := range path {
			path[i] = rng.Intn(2) == 1
		}
		packed := PackPath(path)
		require.Len(t, packed, (l+7)/8)
		require.Equal(t, path, UnpackPath(packed, l))
		if l%8 != 0 {
			// unused low bits of the last byte are zero
			require.Zero(t, packed[len(packed)-1]&byte(0xff>>(uint(l%8))))
		}
	}
}

func TestUnpackPathClampsLength(t *testing.T) {
	packed := []byte{0xa0}
	require.Empty(t, UnpackPath(packed, -3))
	require.Equal(t, []bool{true, false, true}, UnpackPath(packed, 3))
	require.Len(t, UnpackPath(packed, 20), 8)
	require.Empty(t, UnpackPath(nil, 5))
}

func TestPack(t *testing.T) {
	vd := testVerificationData()
	stateRoot := common.HexToHash("0xaa")
	blockHash := common.HexToHash("0xbb")
	data := Pack(vd, stateRoot, blockHash, 77, nil)

	require.Equal(t, [32]byte(stateRoot), data.StateRoot)
	require.Equal(t, [32]byte(blockHash), data.RollupBlockHash)
	require.Empty(t, data.ZkProof)
	require.Equal(t, vd.SharesProof.RowProofs, data.SharesProof.RowProofs)
	require.Equal(t, big.NewInt(77), data.BlobstreamNonce)
	require.Equal(t, big.NewInt(1234), data.Tuple.Height)
	require.Equal(t, [32]byte(vd.DataRootTuple.DataRoot), data.Tuple.DataRoot)
	require.Equal(t, [][32]byte{vd.BinaryProof.Siblings[0], vd.BinaryProof.Siblings[1]}, data.Proof.Siblings)
	require.Equal(t, []byte{0b10110000, 0b10000000}, data.Proof.Path)

	// packed data does not share memory with its input
	vd.SharesProof.RowProofs[0][0] = 'X'
	require.Equal(t, byte('{'), data.SharesProof.RowProofs[0][0])
}

func TestPackIsDeterministic(t *testing.T) {
	req := func() *SubmitRequest {
		return &SubmitRequest{
			BlockNumber:    big.NewInt(1234),
			CelestiaHeight: 1234,
			StartIndex:     5,
			DataLen:        5,
			ProofData:      Pack(testVerificationData(), common.HexToHash("0xaa"), common.HexToHash("0xbb"), 1234, []byte{1, 2}),
		}
	}
	first, err := EncodeSubmitProof(req())
	require.NoError(t, err)
	second, err := EncodeSubmitProof(req())
	require.NoError(t, err)
	require.Equal(t, first, second)

	decoded, err := DecodeSubmitProof(first)
	require.NoError(t, err)
	want := req()
	require.Equal(t, want.BlockNumber, decoded.BlockNumber)
	require.Equal(t, want.CelestiaHeight, decoded.CelestiaHeight)
	require.Equal(t, want.StartIndex, decoded.StartIndex)
	require.Equal(t, want.DataLen, decoded.DataLen)
	bigIntEqual := cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })
	if diff := cmp.Diff(want.ProofData, decoded.ProofData, bigIntEqual); diff != "" {
		t.Fatalf("decoded proof data differs (-want +got):\n%s", diff)
	}

	_, err = DecodeSubmitProof([]byte{1, 2, 3, 4})
	require.Error(t, err)
	_, err = EncodeSubmitProof(&SubmitRequest{})
	require.ErrorIs(t, err, ErrBuild)
}
