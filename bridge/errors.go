// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package bridge

import (
	"github.com/pkg/errors"
)

var (
	ErrPost       = errors.New("posting blob failed")
	ErrHeaderWait = errors.New("header never became available")
	ErrLocate     = errors.New("locating posted blob failed")
	ErrNonce      = errors.New("resolving blobstream nonce failed")
	ErrAssemble   = errors.New("assembling verification data failed")
	ErrSettle     = errors.New("settling proof failed")
)
