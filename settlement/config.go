// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	flag "github.com/spf13/pflag"
)

type SubmitterConfig struct {
	URL                 string        `koanf:"url"`
	Contract            string        `koanf:"contract"`
	GasHeadroomPercent  uint64        `koanf:"gas-headroom-percent"`
	GasFeeCapGwei       float64       `koanf:"gas-fee-cap-gwei"`
	GasTipCapGwei       float64       `koanf:"gas-tip-cap-gwei"`
	ReceiptPollInterval time.Duration `koanf:"receipt-poll-interval"`
	ConfirmationTimeout time.Duration `koanf:"confirmation-timeout"`
}

var DefaultSubmitterConfig = SubmitterConfig{
	GasHeadroomPercent:  20,
	GasFeeCapGwei:       50,
	GasTipCapGwei:       1.5,
	ReceiptPollInterval: 2 * time.Second,
	ConfirmationTimeout: 5 * time.Minute,
}

func SubmitterConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".url", DefaultSubmitterConfig.URL, "L1 RPC endpoint the settlement contract lives on")
	f.String(prefix+".contract", DefaultSubmitterConfig.Contract, "settlement contract address")
	f.Uint64(prefix+".gas-headroom-percent", DefaultSubmitterConfig.GasHeadroomPercent, "percentage added on top of the gas estimate")
	f.Float64(prefix+".gas-fee-cap-gwei", DefaultSubmitterConfig.GasFeeCapGwei, "max fee per gas in gwei")
	f.Float64(prefix+".gas-tip-cap-gwei", DefaultSubmitterConfig.GasTipCapGwei, "max priority fee per gas in gwei")
	f.Duration(prefix+".receipt-poll-interval", DefaultSubmitterConfig.ReceiptPollInterval, "how often to poll for the receipt when head subscriptions are unavailable")
	f.Duration(prefix+".confirmation-timeout", DefaultSubmitterConfig.ConfirmationTimeout, "how long to wait for the settlement receipt (0 = until cancelled)")
}

func (c *SubmitterConfig) Validate() error {
	if c.URL == "" {
		return errors.New("--settlement.url is required")
	}
	if !common.IsHexAddress(c.Contract) {
		return fmt.Errorf("--settlement.contract %q is not a valid address", c.Contract)
	}
	if c.GasFeeCapGwei <= 0 {
		return errors.New("--settlement.gas-fee-cap-gwei must be positive")
	}
	if c.GasTipCapGwei < 0 || c.GasTipCapGwei > c.GasFeeCapGwei {
		return errors.New("--settlement.gas-tip-cap-gwei must be between 0 and the fee cap")
	}
	if c.ReceiptPollInterval <= 0 {
		return errors.New("--settlement.receipt-poll-interval must be positive")
	}
	return nil
}

func (c *SubmitterConfig) ContractAddress() common.Address {
	return common.HexToAddress(c.Contract)
}

func (c *SubmitterConfig) gasFeeCap() *big.Int {
	return gweiToWei(c.GasFeeCapGwei)
}

func (c *SubmitterConfig) gasTipCap() *big.Int {
	return gweiToWei(c.GasTipCapGwei)
}

// gasLimit adds the configured headroom to estimate.
func (c *SubmitterConfig) gasLimit(estimate uint64) uint64 {
	return estimate + estimate*c.GasHeadroomPercent/100
}

func gweiToWei(gwei float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(params.GWei)).Int(nil)
	return wei
}
