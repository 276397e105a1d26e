// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"math"

	"github.com/1010adigupta/volition-da/celestia/types"
)

// ShareRange returns the first absolute share index and the number of shares
// covered by the non-empty rows. Rows without shares are ignored; if every
// row is empty the range is (0, 0).
func ShareRange(rows []types.NamespaceRow) (uint64, uint64) {
	start := uint64(math.MaxUint64)
	var length uint64
	for _, row := range rows {
		if len(row.Shares) == 0 {
			continue
		}
		if s := row.Proof.Start(); s < start {
			start = s
		}
		length += uint64(len(row.Shares))
	}
	if length == 0 {
		return 0, 0
	}
	return start, length
}
