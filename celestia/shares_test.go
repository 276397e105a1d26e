// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1010adigupta/volition-da/celestia/types"
)

func TestShareRange(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rows  []types.NamespaceRow
		start uint64
		len   uint64
	}{
		{"no rows", nil, 0, 0},
		{"only empty rows", []types.NamespaceRow{emptyRow(3), emptyRow(8)}, 0, 0},
		{"two rows", []types.NamespaceRow{presenceRow(5, 3), presenceRow(10, 2)}, 5, 5},
		{"out of order", []types.NamespaceRow{presenceRow(10, 2), presenceRow(5, 3)}, 5, 5},
		{"empty row with lower start is ignored", []types.NamespaceRow{emptyRow(1), presenceRow(7, 4)}, 7, 4},
		{"single share", []types.NamespaceRow{presenceRow(0, 1)}, 0, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			start, length := ShareRange(tc.rows)
			require.Equal(t, tc.start, start)
			require.Equal(t, tc.len, length)
		})
	}
}
