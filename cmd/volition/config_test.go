// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package main

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/1010adigupta/volition-da/celestia"
)

func validArgs() []string {
	return []string{
		"--payload-file", "block.bin",
		"--celestia.rpc", "http://localhost:26658",
		"--celestia.namespace", "deafbeef",
		"--settlement.url", "http://localhost:8545",
		"--settlement.contract", "0x723464397829ce5ccF1AfAb0b49A59e04f299Fc6",
	}
}

func TestParseDefaults(t *testing.T) {
	config, err := parseVolition(validArgs())
	require.NoError(t, err)
	require.NoError(t, config.Validate())
	require.Equal(t, celestia.MerkleSourceCommitment, config.Celestia.MerkleProofSource)
	require.Equal(t, 2*time.Minute, config.Bridge.HeaderWaitTimeout)
	require.Equal(t, "INFO", config.LogLevel)
	require.False(t, config.Blobstream.Enabled())
}

func TestParseFromConfString(t *testing.T) {
	args := append(validArgs(),
		"--conf.string", `{"bridge":{"header-poll-interval":"500ms"},"db":{"path":"ledger.db"},"block-number":77}`,
	)
	config, err := parseVolition(args)
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, config.Bridge.HeaderPollInterval)
	require.Equal(t, "ledger.db", config.DB.Path)
	require.Equal(t, uint64(77), config.BlockNumber)
}

func TestValidateRejects(t *testing.T) {
	for name, extra := range map[string][]string{
		"attestation without blobstream": {"--celestia.merkle-proof-source", "attestation", "--celestia.tendermint-rpc", "http://localhost:26657"},
		"bad state root":                 {"--state-root", "0x1234"},
		"bad blobstream address":         {"--blobstream.address", "nope"},
	} {
		t.Run(name, func(t *testing.T) {
			config, err := parseVolition(append(validArgs(), extra...))
			require.NoError(t, err)
			require.Error(t, config.Validate())
		})
	}

	config, err := parseVolition(validArgs()[2:])
	require.NoError(t, err)
	require.Error(t, config.Validate())
}

func TestParseHash(t *testing.T) {
	h, err := parseHash("state-root", "")
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, h)

	want := common.HexToHash("0xaa")
	h, err = parseHash("state-root", want.Hex())
	require.NoError(t, err)
	require.Equal(t, want, h)
}

func TestRedactedConfig(t *testing.T) {
	redacted := redactedConfig()
	require.Contains(t, redacted, "wallet.private-key")
	require.Contains(t, redacted, "wallet.password")
	require.Contains(t, redacted, "celestia.auth-token")
}
