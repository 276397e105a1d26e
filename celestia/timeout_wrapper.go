// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"fmt"
	"time"

	"github.com/1010adigupta/volition-da/celestia/types"
)

// ReaderTimeoutWrapper bounds every read to t. Blob submission is passed
// through untouched since it waits on block inclusion.
type ReaderTimeoutWrapper struct {
	t time.Duration
	DataAvailabilityService
}

func NewReaderTimeoutWrapper(da DataAvailabilityService, t time.Duration) DataAvailabilityService {
	if t <= 0 {
		return da
	}
	return &ReaderTimeoutWrapper{
		t:                       t,
		DataAvailabilityService: da,
	}
}

func (w *ReaderTimeoutWrapper) HeaderByHeight(ctx context.Context, height uint64) (*types.Header, error) {
	deadlineCtx, cancel := context.WithTimeout(ctx, w.t)
	defer cancel()
	return w.DataAvailabilityService.HeaderByHeight(deadlineCtx, height)
}

func (w *ReaderTimeoutWrapper) NamespaceData(ctx context.Context, header *types.Header, ns types.Namespace) (*types.NamespaceData, error) {
	deadlineCtx, cancel := context.WithTimeout(ctx, w.t)
	defer cancel()
	return w.DataAvailabilityService.NamespaceData(deadlineCtx, header, ns)
}

func (w *ReaderTimeoutWrapper) Blobs(ctx context.Context, height uint64, ns types.Namespace) ([]types.Blob, error) {
	deadlineCtx, cancel := context.WithTimeout(ctx, w.t)
	defer cancel()
	return w.DataAvailabilityService.Blobs(deadlineCtx, height, ns)
}

func (w *ReaderTimeoutWrapper) BlobProof(ctx context.Context, height uint64, ns types.Namespace, commitment []byte) (*types.BinaryMerkleProof, error) {
	deadlineCtx, cancel := context.WithTimeout(ctx, w.t)
	defer cancel()
	return w.DataAvailabilityService.BlobProof(deadlineCtx, height, ns, commitment)
}

func (w *ReaderTimeoutWrapper) String() string {
	return fmt.Sprintf("ReaderTimeoutWrapper{%v}", w.DataAvailabilityService)
}
