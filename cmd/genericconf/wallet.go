// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package genericconf

import (
	flag "github.com/spf13/pflag"
)

const PASSWORD_NOT_SET = "PASSWORD_NOT_SET"

// WalletConfig locates the key that signs settlement transactions: either a
// raw private key or a keystore directory.
type WalletConfig struct {
	Pathname   string `koanf:"pathname"`
	Password   string `koanf:"password"`
	PrivateKey string `koanf:"private-key"`
	Account    string `koanf:"account"`
}

func (w *WalletConfig) Pwd() *string {
	if w.Password == PASSWORD_NOT_SET {
		return nil
	}
	return &w.Password
}

var WalletConfigDefault = WalletConfig{
	Pathname:   "",
	Password:   PASSWORD_NOT_SET,
	PrivateKey: "",
	Account:    "",
}

func WalletConfigAddOptions(prefix string, f *flag.FlagSet, defaultPathname string) {
	f.String(prefix+".pathname", defaultPathname, "pathname for wallet keystore")
	f.String(prefix+".password", WalletConfigDefault.Password, "wallet passphrase")
	f.String(prefix+".private-key", WalletConfigDefault.PrivateKey, "private key for wallet")
	f.String(prefix+".account", WalletConfigDefault.Account, "account to use (default is first account in keystore)")
}

// RedactedFields lists the config keys under prefix that must never be printed.
func RedactedFields(prefix string) []string {
	return []string{prefix + ".password", prefix + ".private-key"}
}
