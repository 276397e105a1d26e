// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package types

import "github.com/pkg/errors"

var (
	// ErrNetwork means the DA node could not be reached or timed out.
	ErrNetwork = errors.New("da network error")
	// ErrNotFound means there is no header, blob or proof for the requested height and namespace.
	ErrNotFound = errors.New("not found")
	// ErrProofExtraction means the DA node returned a hash or proof of an unexpected kind.
	ErrProofExtraction = errors.New("unexpected proof or hash variant")
)
