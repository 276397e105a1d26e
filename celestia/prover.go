// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/1010adigupta/volition-da/celestia/types"
)

var (
	assembleTimer         = metrics.NewRegisteredTimer("celestia/prover/assemble", nil)
	sharesFailureCounter  = metrics.NewRegisteredCounter("celestia/prover/shares/failed", nil)
	rootFailureCounter    = metrics.NewRegisteredCounter("celestia/prover/dataroot/failed", nil)
	merkleFailureCounter  = metrics.NewRegisteredCounter("celestia/prover/merkle/failed", nil)
	assembledRowProofsGau = metrics.NewRegisteredGauge("celestia/prover/rowproofs", nil)
)

// Prover gathers the proofs the settlement contract needs for one namespace.
type Prover struct {
	reader    types.DataAvailabilityReader
	namespace types.Namespace
	source    MerkleProofSource
}

func NewProver(reader types.DataAvailabilityReader, ns types.Namespace, source MerkleProofSource) *Prover {
	if source == nil {
		source = NewCommitmentProofSource(reader, ns)
	}
	return &Prover{
		reader:    reader,
		namespace: ns,
		source:    source,
	}
}

func (p *Prover) Namespace() types.Namespace {
	return p.namespace
}

// Assemble issues the shares, data root and merkle queries for height
// concurrently and bundles their results. The first failure cancels the
// others and no partial result is returned.
func (p *Prover) Assemble(ctx context.Context, height uint64) (*types.VerificationData, error) {
	start := time.Now()

	var (
		shares      sharesResult
		tuple       types.DataRootTuple
		binaryProof *types.BinaryMerkleProof
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shares, err = p.sharesProof(gctx, height)
		if err != nil {
			sharesFailureCounter.Inc(1)
		}
		return wrapQuery(QueryShares, height, err)
	})
	g.Go(func() error {
		var err error
		tuple, err = p.dataRootTuple(gctx, height)
		if err != nil {
			rootFailureCounter.Inc(1)
		}
		return wrapQuery(QueryDataRoot, height, err)
	})
	g.Go(func() error {
		var err error
		binaryProof, err = p.source.MerkleProof(gctx, height)
		if err != nil {
			merkleFailureCounter.Inc(1)
		}
		return wrapQuery(QueryMerkle, height, err)
	})
	if err := g.Wait(); err != nil {
		log.Warn("Failed to assemble verification data", "height", height, "namespace", p.namespace, "err", err)
		return nil, err
	}

	assembleTimer.UpdateSince(start)
	assembledRowProofsGau.Update(int64(len(shares.proof.RowProofs)))
	log.Debug("Assembled verification data", "height", height, "startIndex", shares.startIndex, "dataLen", shares.dataLen, "rowProofs", len(shares.proof.RowProofs), "siblings", len(binaryProof.Siblings), "elapsed", time.Since(start))

	return &types.VerificationData{
		SharesProof:   shares.proof,
		DataRootTuple: tuple,
		BinaryProof:   *binaryProof,
		StartIndex:    shares.startIndex,
		DataLen:       shares.dataLen,
	}, nil
}

type sharesResult struct {
	proof      types.SharesProof
	startIndex uint64
	dataLen    uint64
}

// sharesProof serializes the proofs of the non-empty rows and derives the
// share range from the very same rows.
func (p *Prover) sharesProof(ctx context.Context, height uint64) (sharesResult, error) {
	header, err := p.reader.HeaderByHeight(ctx, height)
	if err != nil {
		return sharesResult{}, err
	}
	data, err := p.reader.NamespaceData(ctx, header, p.namespace)
	if err != nil {
		return sharesResult{}, err
	}

	rowProofs := make([][]byte, 0, len(data.Rows))
	for _, row := range data.Rows {
		if len(row.Shares) == 0 {
			continue
		}
		bz, err := row.Proof.MarshalBinary()
		if err != nil {
			return sharesResult{}, err
		}
		rowProofs = append(rowProofs, bz)
	}
	startIndex, dataLen := ShareRange(data.Rows)
	return sharesResult{
		proof:      types.SharesProof{RowProofs: rowProofs},
		startIndex: startIndex,
		dataLen:    dataLen,
	}, nil
}

func (p *Prover) dataRootTuple(ctx context.Context, height uint64) (types.DataRootTuple, error) {
	header, err := p.reader.HeaderByHeight(ctx, height)
	if err != nil {
		return types.DataRootTuple{}, err
	}
	root, err := header.DataRoot()
	if err != nil {
		return types.DataRootTuple{}, err
	}
	return types.DataRootTuple{Height: height, DataRoot: root}, nil
}
