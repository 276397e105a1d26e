// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package types

import (
	"context"
)

// DataAvailabilityReader is the read side of the DA node the prover needs.
// Implementations must be safe for concurrent use.
type DataAvailabilityReader interface {
	HeaderByHeight(ctx context.Context, height uint64) (*Header, error)
	NamespaceData(ctx context.Context, header *Header, ns Namespace) (*NamespaceData, error)
	// Blobs returns the blobs of ns at height; an empty slice means none.
	Blobs(ctx context.Context, height uint64, ns Namespace) ([]Blob, error)
	BlobProof(ctx context.Context, height uint64, ns Namespace, commitment []byte) (*BinaryMerkleProof, error)
}

type DataAvailabilityWriter interface {
	SubmitBlob(ctx context.Context, blobs []Blob, cfg TxConfig) (uint64, error)
}
