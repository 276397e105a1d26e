// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package util

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/metrics/exp"

	"github.com/1010adigupta/volition-da/cmd/genericconf"
)

// StartMetrics serves the expvar/prometheus endpoints and starts process
// metric collection. Metrics must already be switched on via --metrics.
func StartMetrics(enabled bool, server *genericconf.MetricsServerConfig) error {
	if !enabled {
		return nil
	}
	if !metrics.Enabled {
		return errors.New("metrics must be enabled via command line by adding --metrics, json config has no effect")
	}
	if server.Addr == "" {
		return errors.New("metrics is enabled, but missing --metrics-server.addr")
	}
	go metrics.CollectProcessMetrics(server.UpdateInterval)
	exp.Setup(fmt.Sprintf("%v:%v", server.Addr, server.Port))
	return nil
}
