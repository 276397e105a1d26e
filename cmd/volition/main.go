// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"

	"github.com/1010adigupta/volition-da/bridge"
	"github.com/1010adigupta/volition-da/celestia"
	"github.com/1010adigupta/volition-da/cmd/genericconf"
	"github.com/1010adigupta/volition-da/cmd/util"
	"github.com/1010adigupta/volition-da/cmd/util/confighelpers"
	"github.com/1010adigupta/volition-da/db"
	"github.com/1010adigupta/volition-da/settlement"
)

func main() {
	os.Exit(mainImpl())
}

func printSampleUsage(progname string) {
	fmt.Printf("\n")
	fmt.Printf("Sample usage:                  %s --help \n", progname)
	fmt.Printf("                               %s --conf.file volition.json --payload-file block.bin\n", progname)
}

func mainImpl() int {
	config, err := parseVolition(os.Args[1:])
	if err != nil {
		confighelpers.PrintErrorAndExit(err, printSampleUsage)
	}
	if err := config.Validate(); err != nil {
		confighelpers.PrintErrorAndExit(err, printSampleUsage)
	}
	if err := genericconf.InitLog(config.LogType, config.LogLevel, &config.FileLogging, genericconf.DefaultPathResolver("")); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return 1
	}
	defer func() { _ = genericconf.CloseLog() }()

	vcsRevision, vcsTime := confighelpers.GetVersion()
	log.Info("Running volition", "revision", vcsRevision, "vcs.time", vcsTime)

	if err := util.StartMetrics(config.Metrics, &config.MetricsServer); err != nil {
		log.Error("Error starting metrics", "err", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigint:
			log.Info("shutting down because of sigint")
			cancel()
		case <-ctx.Done():
		}
	}()

	report, err := run(ctx, config)
	if err != nil {
		log.Error("Settlement failed", "err", err)
		return 1
	}
	log.Info("Settlement confirmed", "height", report.Pointer.Span.Height, "block", report.BlockNumber, "nonce", report.Nonce, "tx", report.Settlement.TxHash, "submission", report.SubmissionID)
	return 0
}

func run(ctx context.Context, config *VolitionConfig) (*bridge.Report, error) {
	payload, err := os.ReadFile(config.PayloadFile)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	var zkProof []byte
	if config.ZkProofFile != "" {
		zkProof, err = os.ReadFile(config.ZkProofFile)
		if err != nil {
			return nil, fmt.Errorf("reading zk proof: %w", err)
		}
	}
	stateRoot, _ := parseHash("state-root", config.StateRoot)
	rollupBlockHash, _ := parseHash("rollup-block-hash", config.RollupBlockHash)

	ns, err := config.Celestia.ParsedNamespace()
	if err != nil {
		return nil, err
	}

	l1Client, err := ethclient.DialContext(ctx, config.Settlement.URL)
	if err != nil {
		return nil, fmt.Errorf("dialing settlement chain: %w", err)
	}
	defer l1Client.Close()

	nodeClient, err := celestia.NewNodeClient(ctx, config.Celestia.Rpc, config.Celestia.AuthToken)
	if err != nil {
		return nil, err
	}
	defer nodeClient.Close()
	da, err := celestia.NewHeaderCache(celestia.NewReaderTimeoutWrapper(nodeClient, config.Celestia.RequestTimeout), config.Celestia.HeaderCacheSize)
	if err != nil {
		return nil, err
	}

	var finder celestia.CommitmentFinder
	if config.Blobstream.Enabled() {
		blobstream, err := celestia.NewBlobstream(common.HexToAddress(config.Blobstream.Address), l1Client, config.Blobstream.LookbackBlocks)
		if err != nil {
			return nil, err
		}
		finder = blobstream
	}

	source, err := celestia.NewMerkleProofSource(&config.Celestia, da, ns, finder)
	if err != nil {
		return nil, err
	}
	prover := celestia.NewProver(da, ns, source)
	poster := celestia.NewPoster(da, ns, config.Celestia.GasPrice)
	submitter := settlement.NewWalletSubmitter(l1Client, config.Settlement.ContractAddress(), &config.Wallet, &config.Settlement)

	var ledger db.Ledger
	if config.DB.Enabled() {
		sqlite, err := db.NewDatabase(config.DB.Path)
		if err != nil {
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
		defer sqlite.Close()
		ledger = sqlite
	}

	b := bridge.New(&config.Bridge, poster, da, prover, finder, submitter, ledger)
	return b.Run(ctx, &bridge.Batch{
		Payload:         payload,
		BlockNumber:     config.BlockNumber,
		StateRoot:       stateRoot,
		RollupBlockHash: rollupBlockHash,
		ZkProof:         zkProof,
	})
}
