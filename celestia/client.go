// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"fmt"
	"strings"

	openrpc "github.com/celestiaorg/celestia-openrpc"
	"github.com/celestiaorg/celestia-openrpc/types/blob"
	"github.com/celestiaorg/celestia-openrpc/types/header"
	"github.com/celestiaorg/celestia-openrpc/types/share"
	"github.com/celestiaorg/nmt"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/1010adigupta/volition-da/celestia/tree"
	"github.com/1010adigupta/volition-da/celestia/types"
)

// NodeClient talks to a celestia-node over its JSON-RPC API.
type NodeClient struct {
	client *openrpc.Client
}

var (
	_ types.DataAvailabilityReader = (*NodeClient)(nil)
	_ types.DataAvailabilityWriter = (*NodeClient)(nil)
)

func NewNodeClient(ctx context.Context, rpc, authToken string) (*NodeClient, error) {
	if rpc == "" {
		return nil, errors.New("celestia rpc url cannot be blank")
	}
	client, err := openrpc.NewClient(ctx, rpc, authToken)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", types.ErrNetwork, rpc, err)
	}
	return &NodeClient{client: client}, nil
}

func (c *NodeClient) Close() {
	c.client.Close()
}

func (c *NodeClient) HeaderByHeight(ctx context.Context, height uint64) (*types.Header, error) {
	h, err := c.client.Header.GetByHeight(ctx, height)
	if err != nil {
		return nil, classify(err, "header", height)
	}
	if h == nil || h.DAH == nil {
		return nil, fmt.Errorf("%w: header %d has no data availability header", types.ErrNotFound, height)
	}
	return &types.Header{
		Height:   height,
		DataHash: append([]byte(nil), h.DataHash...),
		RowRoots: h.DAH.RowRoots,
		Raw:      h,
	}, nil
}

// NamespaceData returns one row per original square row that may hold ns.
// Proof starts are made absolute within the original square.
func (c *NodeClient) NamespaceData(ctx context.Context, hdr *types.Header, ns types.Namespace) (*types.NamespaceData, error) {
	extended, err := c.extendedHeader(ctx, hdr)
	if err != nil {
		return nil, err
	}
	namespace, err := toShareNamespace(ns)
	if err != nil {
		return nil, err
	}
	namespaced, err := c.client.Share.GetSharesByNamespace(ctx, extended, namespace)
	if err != nil {
		return nil, classify(err, "namespace shares", hdr.Height)
	}

	rowIndices := tree.RowsOfNamespace(hdr.RowRoots, ns.Bytes())
	if len(rowIndices) != len(namespaced) {
		return nil, fmt.Errorf("%w: node returned %d namespace rows, header covers %d", types.ErrProofExtraction, len(namespaced), len(rowIndices))
	}
	width := hdr.SquareWidth()
	rows := make([]types.NamespaceRow, len(namespaced))
	for i, row := range namespaced {
		if row.Proof == nil {
			return nil, fmt.Errorf("%w: row %d of height %d carries no proof", types.ErrProofExtraction, rowIndices[i], hdr.Height)
		}
		rows[i] = fromNamespacedRow(row, uint64(rowIndices[i])*width)
	}
	return &types.NamespaceData{Rows: rows}, nil
}

func fromNamespacedRow(row share.NamespacedRow, offset uint64) types.NamespaceRow {
	return types.NamespaceRow{
		Shares: share.ToBytes(row.Shares),
		Proof:  fromNmtProof(row.Proof, offset),
	}
}

func (c *NodeClient) Blobs(ctx context.Context, height uint64, ns types.Namespace) ([]types.Blob, error) {
	namespace, err := toShareNamespace(ns)
	if err != nil {
		return nil, err
	}
	blobs, err := c.client.Blob.GetAll(ctx, height, []share.Namespace{namespace})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, classify(err, "blobs", height)
	}
	out := make([]types.Blob, 0, len(blobs))
	for _, b := range blobs {
		out = append(out, types.Blob{
			Namespace:  ns,
			Data:       b.Data,
			Commitment: b.Commitment,
			Index:      b.Index,
		})
	}
	return out, nil
}

// BlobProof returns the first share proof of the blob as a binary proof.
// NMT proofs carry no path, so it is derived here from the proof's
// row-relative start, one bit per node.
func (c *NodeClient) BlobProof(ctx context.Context, height uint64, ns types.Namespace, commitment []byte) (*types.BinaryMerkleProof, error) {
	namespace, err := toShareNamespace(ns)
	if err != nil {
		return nil, err
	}
	proof, err := c.client.Blob.GetProof(ctx, height, namespace, blob.Commitment(commitment))
	if err != nil {
		return nil, classify(err, "blob proof", height)
	}
	if proof == nil || len(*proof) == 0 || (*proof)[0] == nil {
		return nil, fmt.Errorf("%w: empty blob proof at height %d", types.ErrNotFound, height)
	}
	first := fromNmtProof((*proof)[0], 0)
	return &types.BinaryMerkleProof{
		Siblings: first.Siblings(),
		Path:     first.Path(),
	}, nil
}

// SubmitBlob posts blobs in a single PayForBlobs transaction and returns the
// inclusion height.
func (c *NodeClient) SubmitBlob(ctx context.Context, blobs []types.Blob, cfg types.TxConfig) (uint64, error) {
	if len(blobs) == 0 {
		return 0, errors.New("no blobs to submit")
	}
	dataBlobs := make([]*blob.Blob, len(blobs))
	for i, b := range blobs {
		namespace, err := toShareNamespace(b.Namespace)
		if err != nil {
			return 0, err
		}
		dataBlob, err := blob.NewBlobV0(namespace, b.Data)
		if err != nil {
			log.Warn("Error creating blob", "err", err)
			return 0, err
		}
		dataBlobs[i] = dataBlob
	}
	height, err := c.client.Blob.Submit(ctx, dataBlobs, openrpc.GasPrice(cfg.GasPrice))
	if err != nil {
		log.Warn("Blob Submission error", "err", err)
		return 0, classify(err, "blob submission", 0)
	}
	if height == 0 {
		return 0, fmt.Errorf("%w: node reported inclusion height 0", types.ErrNetwork)
	}
	return height, nil
}

// Commitment computes the share commitment the node will assign to data.
func Commitment(ns types.Namespace, data []byte) ([]byte, error) {
	namespace, err := toShareNamespace(ns)
	if err != nil {
		return nil, err
	}
	dataBlob, err := blob.NewBlobV0(namespace, data)
	if err != nil {
		return nil, err
	}
	return blob.CreateCommitment(dataBlob)
}

func (c *NodeClient) extendedHeader(ctx context.Context, hdr *types.Header) (*header.ExtendedHeader, error) {
	if extended, ok := hdr.Raw.(*header.ExtendedHeader); ok && extended != nil {
		return extended, nil
	}
	extended, err := c.client.Header.GetByHeight(ctx, hdr.Height)
	if err != nil {
		return nil, classify(err, "header", hdr.Height)
	}
	return extended, nil
}

func toShareNamespace(ns types.Namespace) (share.Namespace, error) {
	if ns.IsZero() {
		return nil, errors.New("namespace cannot be blank")
	}
	return share.Namespace(ns.Bytes()), nil
}

func fromNmtProof(p *nmt.Proof, offset uint64) types.InclusionProof {
	start := offset + uint64(p.Start())
	end := offset + uint64(p.End())
	if p.IsOfAbsence() {
		return types.NewAbsenceProof(start, end, p.Nodes(), p.LeafHash(), p.IsMaxNamespaceIDIgnored())
	}
	return types.NewPresenceProof(start, end, p.Nodes(), p.IsMaxNamespaceIDIgnored())
}

func isNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// classify maps node errors onto the package sentinels.
func classify(err error, what string, height uint64) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isNotFound(err) {
		return fmt.Errorf("%w: %s at height %d: %v", types.ErrNotFound, what, height, err)
	}
	return fmt.Errorf("%w: %s at height %d: %v", types.ErrNetwork, what, height, err)
}
