// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package types

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/1010adigupta/volition-da/celestia/tree"
)

// InclusionProof is the namespace inclusion proof attached to a row of
// namespace data. The two variants differ in whether the namespace actually
// has shares at the proven position; consumers that only need the binary
// path do not have to care which one they hold.
type InclusionProof interface {
	// Start is the absolute index of the first proven share.
	Start() uint64
	// End is the exclusive end of the proven share range.
	End() uint64
	// Siblings are the 32 byte digests of the proof nodes, leaf to root.
	Siblings() []common.Hash
	// Path has one bit per sibling, leaf to root; true means the proven
	// node is the right child at that level.
	Path() []bool
	IsOfAbsence() bool
	MarshalBinary() ([]byte, error)
}

type proofBase struct {
	start                   uint64
	end                     uint64
	nodes                   [][]byte
	isMaxNamespaceIDIgnored bool
}

func (p *proofBase) Start() uint64 { return p.start }
func (p *proofBase) End() uint64   { return p.end }

func (p *proofBase) Siblings() []common.Hash {
	siblings := make([]common.Hash, len(p.nodes))
	for i, node := range p.nodes {
		siblings[i] = tree.NodeDigest(node)
	}
	return siblings
}

func (p *proofBase) Path() []bool {
	return tree.LeafPath(p.start, len(p.nodes))
}

// Nodes returns the raw namespaced nodes (min || max || digest).
func (p *proofBase) Nodes() [][]byte {
	return p.nodes
}

// PresenceProof proves that shares of the namespace occupy [Start, End).
type PresenceProof struct {
	proofBase
}

var _ InclusionProof = (*PresenceProof)(nil)

func NewPresenceProof(start, end uint64, nodes [][]byte, isMaxNamespaceIDIgnored bool) *PresenceProof {
	return &PresenceProof{proofBase{
		start:                   start,
		end:                     end,
		nodes:                   copyNodes(nodes),
		isMaxNamespaceIDIgnored: isMaxNamespaceIDIgnored,
	}}
}

func (p *PresenceProof) IsOfAbsence() bool { return false }

func (p *PresenceProof) MarshalBinary() ([]byte, error) {
	return json.Marshal(p.toJSON(nil))
}

// AbsenceProof proves that the namespace has no shares where it would sort,
// by exhibiting the neighbouring leaf.
type AbsenceProof struct {
	proofBase
	leafHash []byte
}

var _ InclusionProof = (*AbsenceProof)(nil)

func NewAbsenceProof(start, end uint64, nodes [][]byte, leafHash []byte, isMaxNamespaceIDIgnored bool) *AbsenceProof {
	return &AbsenceProof{
		proofBase: proofBase{
			start:                   start,
			end:                     end,
			nodes:                   copyNodes(nodes),
			isMaxNamespaceIDIgnored: isMaxNamespaceIDIgnored,
		},
		leafHash: append([]byte(nil), leafHash...),
	}
}

func (p *AbsenceProof) IsOfAbsence() bool { return true }

func (p *AbsenceProof) LeafHash() []byte { return p.leafHash }

func (p *AbsenceProof) MarshalBinary() ([]byte, error) {
	return json.Marshal(p.toJSON(p.leafHash))
}

// jsonProof matches the JSON layout of celestia's nmt.Proof.
type jsonProof struct {
	Start                   uint64   `json:"start"`
	End                     uint64   `json:"end"`
	Nodes                   [][]byte `json:"nodes"`
	LeafHash                []byte   `json:"leaf_hash"`
	IsMaxNamespaceIDIgnored bool     `json:"is_max_namespace_id_ignored"`
}

func (p *proofBase) toJSON(leafHash []byte) jsonProof {
	return jsonProof{
		Start:                   p.start,
		End:                     p.end,
		Nodes:                   p.nodes,
		LeafHash:                leafHash,
		IsMaxNamespaceIDIgnored: p.isMaxNamespaceIDIgnored,
	}
}

// UnmarshalInclusionProof decodes a proof produced by MarshalBinary back into
// the matching variant.
func UnmarshalInclusionProof(data []byte) (InclusionProof, error) {
	var jp jsonProof
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofExtraction, err)
	}
	if jp.End < jp.Start {
		return nil, fmt.Errorf("%w: proof range [%d, %d) is inverted", ErrProofExtraction, jp.Start, jp.End)
	}
	if len(jp.LeafHash) > 0 {
		return NewAbsenceProof(jp.Start, jp.End, jp.Nodes, jp.LeafHash, jp.IsMaxNamespaceIDIgnored), nil
	}
	return NewPresenceProof(jp.Start, jp.End, jp.Nodes, jp.IsMaxNamespaceIDIgnored), nil
}

func copyNodes(nodes [][]byte) [][]byte {
	out := make([][]byte, len(nodes))
	for i, n := range nodes {
		out[i] = append([]byte(nil), n...)
	}
	return out
}
