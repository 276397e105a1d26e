// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/1010adigupta/volition-da/celestia/types"
)

var (
	postedBytesCounter = metrics.NewRegisteredCounter("celestia/poster/bytes", nil)
	postTimer          = metrics.NewRegisteredTimer("celestia/poster/post", nil)
)

type DataAvailabilityService interface {
	types.DataAvailabilityReader
	types.DataAvailabilityWriter
}

// Poster publishes rollup payloads to a namespace and reports where the
// payload landed in the data square.
type Poster struct {
	da        DataAvailabilityService
	namespace types.Namespace
	txConfig  types.TxConfig
}

func NewPoster(da DataAvailabilityService, ns types.Namespace, gasPrice float64) *Poster {
	return &Poster{
		da:        da,
		namespace: ns,
		txConfig:  types.TxConfig{GasPrice: gasPrice},
	}
}

// Post submits payload and returns a pointer to it. The span is computed
// with the same range rule the prover uses so the two always agree.
func (p *Poster) Post(ctx context.Context, payload []byte) (*types.BlobPointer, error) {
	height, commitment, err := p.Submit(ctx, payload)
	if err != nil {
		return nil, err
	}
	return p.Locate(ctx, height, commitment)
}

// Submit pays for payload and returns the inclusion height and the share
// commitment. The header at that height may not be served yet.
func (p *Poster) Submit(ctx context.Context, payload []byte) (uint64, []byte, error) {
	if len(payload) == 0 {
		return 0, nil, fmt.Errorf("refusing to post an empty payload")
	}
	start := time.Now()
	commitment, err := Commitment(p.namespace, payload)
	if err != nil {
		log.Warn("Error creating commitment", "err", err)
		return 0, nil, err
	}
	height, err := p.da.SubmitBlob(ctx, []types.Blob{{Namespace: p.namespace, Data: payload, Index: -1}}, p.txConfig)
	if err != nil {
		return 0, nil, err
	}
	postedBytesCounter.Inc(int64(len(payload)))
	postTimer.UpdateSince(start)
	log.Info("Successfully posted blob", "height", height, "commitment", hex.EncodeToString(commitment), "bytes", len(payload))
	return height, commitment, nil
}

// Locate builds the pointer of an already included blob.
func (p *Poster) Locate(ctx context.Context, height uint64, commitment []byte) (*types.BlobPointer, error) {
	header, err := p.da.HeaderByHeight(ctx, height)
	if err != nil {
		return nil, err
	}
	dataRoot, err := header.DataRoot()
	if err != nil {
		return nil, err
	}
	data, err := p.da.NamespaceData(ctx, header, p.namespace)
	if err != nil {
		return nil, err
	}
	startIndex, dataLen := ShareRange(data.Rows)
	if dataLen == 0 {
		return nil, fmt.Errorf("%w: namespace %s has no shares at height %d", types.ErrNotFound, p.namespace, height)
	}
	pointer := &types.BlobPointer{
		Span: types.SequenceSpan{
			Height:     height,
			StartIndex: startIndex,
			DataLen:    dataLen,
		},
		DataRoot: dataRoot,
	}
	copy(pointer.Commitment[:], commitment)
	log.Debug("Located blob", "height", height, "start", startIndex, "shares", dataLen)
	return pointer, nil
}
