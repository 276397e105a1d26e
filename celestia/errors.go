// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAttestationRejected means Blobstream does not accept the data root
// tuple proof for a height.
var ErrAttestationRejected = errors.New("blobstream rejected the data root attestation")

// Names of the independent queries issued while assembling a proof.
const (
	QueryShares   = "shares"
	QueryDataRoot = "data-root"
	QueryMerkle   = "merkle"
)

// QueryError identifies which assembly query failed. The cause stays
// reachable through errors.Is / errors.As.
type QueryError struct {
	Query  string
	Height uint64
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query at height %d: %v", e.Query, e.Height, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func wrapQuery(query string, height uint64, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Query: query, Height: height, Err: err}
}
