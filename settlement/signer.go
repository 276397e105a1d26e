// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/1010adigupta/volition-da/cmd/genericconf"
)

var (
	errNoWallet      = errors.New("no wallet configured: set --wallet.private-key or --wallet.pathname")
	errBadPrivateKey = errors.New("wallet private key is not a valid hex encoded secp256k1 key")
)

// WithSigner makes signing material available to fn and releases it when fn
// returns. A raw private key is cleared from wallet as soon as it is parsed
// and zeroed afterwards; a keystore account is locked again.
func WithSigner(ctx context.Context, wallet *genericconf.WalletConfig, chainID *big.Int, fn func(*bind.TransactOpts) error) error {
	if wallet.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(wallet.PrivateKey, "0x"))
		wallet.PrivateKey = ""
		if err != nil {
			return errBadPrivateKey
		}
		defer zeroKey(key)
		opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			return err
		}
		opts.Context = ctx
		return fn(opts)
	}
	if wallet.Pathname != "" {
		ks := keystore.NewKeyStore(wallet.Pathname, keystore.StandardScryptN, keystore.StandardScryptP)
		account, err := findAccount(ks, wallet.Account)
		if err != nil {
			return err
		}
		pwd := wallet.Pwd()
		if pwd == nil {
			return errors.New("wallet password not set")
		}
		if err := ks.Unlock(account, *pwd); err != nil {
			return err
		}
		defer func() { _ = ks.Lock(account.Address) }()
		opts, err := bind.NewKeyStoreTransactorWithChainID(ks, account, chainID)
		if err != nil {
			return err
		}
		opts.Context = ctx
		return fn(opts)
	}
	return errNoWallet
}

func findAccount(ks *keystore.KeyStore, address string) (accounts.Account, error) {
	if address == "" {
		if len(ks.Accounts()) == 0 {
			return accounts.Account{}, errors.New("keystore empty")
		}
		return ks.Accounts()[0], nil
	}
	return ks.Find(accounts.Account{Address: common.HexToAddress(address)})
}

func zeroKey(key *ecdsa.PrivateKey) {
	if key == nil || key.D == nil {
		return
	}
	words := key.D.Bits()
	for i := range words {
		words[i] = 0
	}
}

// WalletSubmitter runs each submission under a scoped signer from wallet.
// A raw private key is consumed by the first submission.
type WalletSubmitter struct {
	client   ChainClient
	contract common.Address
	wallet   *genericconf.WalletConfig
	config   *SubmitterConfig
}

func NewWalletSubmitter(client ChainClient, contract common.Address, wallet *genericconf.WalletConfig, config *SubmitterConfig) *WalletSubmitter {
	return &WalletSubmitter{
		client:   client,
		contract: contract,
		wallet:   wallet,
		config:   config,
	}
}

// Submit signs and drives req to a terminal stage. Failing to obtain a signer
// is reported as a build failure.
func (w *WalletSubmitter) Submit(ctx context.Context, req *SubmitRequest) (*Result, error) {
	chainID, err := w.client.ChainID(ctx)
	if err != nil {
		return w.buildFailure(err)
	}
	var res *Result
	err = WithSigner(ctx, w.wallet, chainID, func(opts *bind.TransactOpts) error {
		var submitErr error
		res, submitErr = NewSubmitter(w.client, w.contract, opts, w.config).Submit(ctx, req)
		return submitErr
	})
	if res == nil {
		return w.buildFailure(err)
	}
	return res, err
}

func (w *WalletSubmitter) buildFailure(cause error) (*Result, error) {
	stageErr := newStageError(StageBuilt, cause)
	return &Result{Stage: StageBuilt, Err: stageErr}, stageErr
}
