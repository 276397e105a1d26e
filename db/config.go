// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package db

import (
	flag "github.com/spf13/pflag"
)

type Config struct {
	Path string `koanf:"path"`
}

var DefaultConfig = Config{
	Path: "",
}

func ConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".path", DefaultConfig.Path, "sqlite file recording submissions and their settlement outcome (empty disables the ledger)")
}

func (c *Config) Enabled() bool {
	return c.Path != ""
}
