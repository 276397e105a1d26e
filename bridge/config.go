// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package bridge

import (
	"errors"
	"time"

	flag "github.com/spf13/pflag"
)

type Config struct {
	HeaderWaitTimeout  time.Duration `koanf:"header-wait-timeout"`
	HeaderPollInterval time.Duration `koanf:"header-poll-interval"`
}

var DefaultConfig = Config{
	HeaderWaitTimeout:  2 * time.Minute,
	HeaderPollInterval: 3 * time.Second,
}

func ConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.Duration(prefix+".header-wait-timeout", DefaultConfig.HeaderWaitTimeout, "how long to wait for the header of the height a blob landed in")
	f.Duration(prefix+".header-poll-interval", DefaultConfig.HeaderPollInterval, "interval between header availability checks")
}

func (c *Config) Validate() error {
	if c.HeaderPollInterval <= 0 {
		return errors.New("bridge.header-poll-interval must be positive")
	}
	if c.HeaderWaitTimeout < 0 {
		return errors.New("bridge.header-wait-timeout must not be negative")
	}
	return nil
}
