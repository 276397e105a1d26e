// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package types

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// NamespaceVersionSize is the size of the namespace version prefix in bytes.
	NamespaceVersionSize = 1
	// NamespaceIDSize is the size of a namespace ID in bytes.
	NamespaceIDSize = 28
	// NamespaceSize is the full size of a namespace in bytes.
	NamespaceSize = NamespaceVersionSize + NamespaceIDSize

	// NamespaceVersionZero is the only namespace version user blobs can be posted under.
	NamespaceVersionZero = uint8(0)
	// NamespaceVersionZeroPrefixSize is the number of leading zero bytes a
	// version zero namespace ID must carry.
	NamespaceVersionZeroPrefixSize = 18
	// NamespaceVersionZeroIDSize is the number of user controlled bytes in a
	// version zero namespace ID.
	NamespaceVersionZeroIDSize = NamespaceIDSize - NamespaceVersionZeroPrefixSize
)

var errEmptyNamespace = errors.New("namespace cannot be blank")

// Namespace identifies a logical partition of the data square.
type Namespace struct {
	Version uint8
	ID      [NamespaceIDSize]byte
}

// NewNamespaceV0 builds a version zero namespace from up to ten user bytes.
// Shorter inputs are left padded with zeros.
func NewNamespaceV0(subID []byte) (Namespace, error) {
	if len(subID) == 0 {
		return Namespace{}, errEmptyNamespace
	}
	if len(subID) > NamespaceVersionZeroIDSize {
		return Namespace{}, fmt.Errorf("namespace id must be at most %d bytes, got %d", NamespaceVersionZeroIDSize, len(subID))
	}
	ns := Namespace{Version: NamespaceVersionZero}
	copy(ns.ID[NamespaceIDSize-len(subID):], subID)
	return ns, nil
}

// NamespaceFromBytes parses a full 29 byte namespace.
func NamespaceFromBytes(b []byte) (Namespace, error) {
	if len(b) != NamespaceSize {
		return Namespace{}, fmt.Errorf("invalid namespace length %d, expected %d", len(b), NamespaceSize)
	}
	ns := Namespace{Version: b[0]}
	copy(ns.ID[:], b[NamespaceVersionSize:])
	if ns.Version == NamespaceVersionZero && !bytes.Equal(ns.ID[:NamespaceVersionZeroPrefixSize], make([]byte, NamespaceVersionZeroPrefixSize)) {
		return Namespace{}, errors.New("version zero namespace id must start with 18 zero bytes")
	}
	return ns, nil
}

// NamespaceFromHex accepts either a full 29 byte namespace or a version zero
// sub-identifier of at most ten bytes, hex encoded with or without 0x.
func NamespaceFromHex(s string) (Namespace, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return Namespace{}, errEmptyNamespace
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Namespace{}, fmt.Errorf("namespace is not valid hex: %w", err)
	}
	if len(raw) == NamespaceSize {
		return NamespaceFromBytes(raw)
	}
	return NewNamespaceV0(raw)
}

// Bytes returns version || id.
func (n Namespace) Bytes() []byte {
	out := make([]byte, 0, NamespaceSize)
	out = append(out, n.Version)
	return append(out, n.ID[:]...)
}

func (n Namespace) IsZero() bool {
	return n == Namespace{}
}

func (n Namespace) String() string {
	return hex.EncodeToString(n.Bytes())
}
