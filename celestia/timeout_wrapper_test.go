// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package celestia

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReaderTimeoutWrapper(t *testing.T) {
	da := &fakeDA{header: testHeader(), blockRows: true}
	wrapped := NewReaderTimeoutWrapper(da, 10*time.Millisecond)

	hdr, err := wrapped.HeaderByHeight(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint64(7), hdr.Height)

	_, err = wrapped.NamespaceData(context.Background(), hdr, testNamespace(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// disabled timeout hands back the service itself
	require.Same(t, da, NewReaderTimeoutWrapper(da, 0))
}
