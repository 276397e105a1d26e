// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	flag "github.com/spf13/pflag"

	"github.com/1010adigupta/volition-da/bridge"
	"github.com/1010adigupta/volition-da/celestia"
	"github.com/1010adigupta/volition-da/cmd/genericconf"
	"github.com/1010adigupta/volition-da/cmd/util/confighelpers"
	"github.com/1010adigupta/volition-da/db"
	"github.com/1010adigupta/volition-da/settlement"
)

type VolitionConfig struct {
	Celestia   celestia.DAConfig          `koanf:"celestia"`
	Blobstream celestia.BlobstreamConfig  `koanf:"blobstream"`
	Settlement settlement.SubmitterConfig `koanf:"settlement"`
	Wallet     genericconf.WalletConfig   `koanf:"wallet"`
	Bridge     bridge.Config              `koanf:"bridge"`
	DB         db.Config                  `koanf:"db"`

	PayloadFile     string `koanf:"payload-file"`
	BlockNumber     uint64 `koanf:"block-number"`
	StateRoot       string `koanf:"state-root"`
	RollupBlockHash string `koanf:"rollup-block-hash"`
	ZkProofFile     string `koanf:"zk-proof-file"`

	Conf          genericconf.ConfConfig          `koanf:"conf"`
	LogLevel      string                          `koanf:"log-level"`
	LogType       string                          `koanf:"log-type"`
	FileLogging   genericconf.FileLoggingConfig   `koanf:"file-logging"`
	Metrics       bool                            `koanf:"metrics"`
	MetricsServer genericconf.MetricsServerConfig `koanf:"metrics-server"`
}

var DefaultVolitionConfig = VolitionConfig{
	Celestia:      celestia.DefaultDAConfig,
	Blobstream:    celestia.DefaultBlobstreamConfig,
	Settlement:    settlement.DefaultSubmitterConfig,
	Wallet:        genericconf.WalletConfigDefault,
	Bridge:        bridge.DefaultConfig,
	DB:            db.DefaultConfig,
	Conf:          genericconf.ConfConfigDefault,
	LogLevel:      "INFO",
	LogType:       "plaintext",
	FileLogging:   genericconf.DefaultFileLoggingConfig,
	Metrics:       false,
	MetricsServer: genericconf.MetricsServerConfigDefault,
}

func (c *VolitionConfig) Validate() error {
	if c.PayloadFile == "" {
		return errors.New("--payload-file is required")
	}
	if err := c.Celestia.Validate(); err != nil {
		return err
	}
	if err := c.Blobstream.Validate(); err != nil {
		return err
	}
	if c.Celestia.MerkleProofSource == celestia.MerkleSourceAttestation && !c.Blobstream.Enabled() {
		return errors.New("the attestation merkle proof source requires --blobstream.address")
	}
	if err := c.Settlement.Validate(); err != nil {
		return err
	}
	if err := c.Bridge.Validate(); err != nil {
		return err
	}
	if _, err := parseHash("state-root", c.StateRoot); err != nil {
		return err
	}
	if _, err := parseHash("rollup-block-hash", c.RollupBlockHash); err != nil {
		return err
	}
	return nil
}

// parseHash accepts an empty string as the zero hash.
func parseHash(name, s string) (common.Hash, error) {
	if s == "" {
		return common.Hash{}, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("--%s must be a 0x prefixed 32 byte hex string", name)
	}
	return common.BytesToHash(b), nil
}

// redactedConfig lists the keys blanked out by --conf.dump.
func redactedConfig() map[string]interface{} {
	redacted := map[string]interface{}{
		"celestia.auth-token": "",
	}
	for _, key := range genericconf.RedactedFields("wallet") {
		redacted[key] = ""
	}
	return redacted
}

func parseVolition(args []string) (*VolitionConfig, error) {
	f := flag.NewFlagSet("volition", flag.ContinueOnError)
	celestia.DAConfigAddOptions("celestia", f)
	celestia.BlobstreamConfigAddOptions("blobstream", f)
	settlement.SubmitterConfigAddOptions("settlement", f)
	genericconf.WalletConfigAddOptions("wallet", f, DefaultVolitionConfig.Wallet.Pathname)
	bridge.ConfigAddOptions("bridge", f)
	db.ConfigAddOptions("db", f)

	f.String("payload-file", DefaultVolitionConfig.PayloadFile, "file whose contents are posted to Celestia and settled")
	f.Uint64("block-number", DefaultVolitionConfig.BlockNumber, "rollup block number being settled (0 = the Celestia height the payload lands in)")
	f.String("state-root", DefaultVolitionConfig.StateRoot, "rollup state root after the block")
	f.String("rollup-block-hash", DefaultVolitionConfig.RollupBlockHash, "rollup block hash")
	f.String("zk-proof-file", DefaultVolitionConfig.ZkProofFile, "file holding the zk proof bytes passed to the contract")

	genericconf.ConfConfigAddOptions("conf", f)
	f.String("log-level", DefaultVolitionConfig.LogLevel, "log level, valid values are CRIT, ERROR, WARN, INFO, DEBUG, TRACE")
	f.String("log-type", DefaultVolitionConfig.LogType, "log type (plaintext or json)")
	genericconf.FileLoggingConfigAddOptions("file-logging", f)
	f.Bool("metrics", DefaultVolitionConfig.Metrics, "enable metrics")
	genericconf.MetricsServerAddOptions("metrics-server", f)

	k, err := confighelpers.BeginCommonParse(f, args)
	if err != nil {
		return nil, err
	}

	var config VolitionConfig
	if err := confighelpers.EndCommonParse(k, &config); err != nil {
		return nil, err
	}
	if config.Conf.Dump {
		c, err := confighelpers.DumpConfig(k, redactedConfig())
		if err != nil {
			return nil, err
		}
		fmt.Println(string(c))
		os.Exit(0)
	}
	return &config, nil
}
