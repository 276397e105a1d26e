// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

// Package bridge runs a payload from Celestia to the settlement contract:
// post the blob, wait for its header, locate it, resolve the Blobstream nonce, assemble
// and pack the proof, settle it and record the outcome.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/1010adigupta/volition-da/celestia"
	"github.com/1010adigupta/volition-da/celestia/types"
	"github.com/1010adigupta/volition-da/db"
	"github.com/1010adigupta/volition-da/settlement"
)

var (
	runTimer        = metrics.NewRegisteredTimer("bridge/run", nil)
	headerWaitTimer = metrics.NewRegisteredTimer("bridge/headerwait", nil)
	failedCounter   = metrics.NewRegisteredCounter("bridge/failed", nil)
)

// BlobPoster pays for a payload and later resolves where it landed.
// Locate needs the header at height, so it only runs after the wait.
type BlobPoster interface {
	Submit(ctx context.Context, payload []byte) (height uint64, commitment []byte, err error)
	Locate(ctx context.Context, height uint64, commitment []byte) (*types.BlobPointer, error)
}

type HeaderSource interface {
	HeaderByHeight(ctx context.Context, height uint64) (*types.Header, error)
}

type ProofAssembler interface {
	Assemble(ctx context.Context, height uint64) (*types.VerificationData, error)
}

type Settler interface {
	Submit(ctx context.Context, req *settlement.SubmitRequest) (*settlement.Result, error)
}

// Batch is one rollup block's worth of data to make available and settle.
type Batch struct {
	Payload []byte
	// BlockNumber is the rollup block being settled. Zero means use the
	// Celestia height the payload lands in.
	BlockNumber     uint64
	StateRoot       common.Hash
	RollupBlockHash common.Hash
	ZkProof         []byte
}

// Report is everything a run produced, filled in as far as it got.
type Report struct {
	// Pointer has only height and commitment set until the blob is located.
	Pointer      *types.BlobPointer
	BlockNumber  uint64
	Nonce        uint64
	Verification *types.VerificationData
	Settlement   *settlement.Result
	SubmissionID int64
}

type Bridge struct {
	config  *Config
	poster  BlobPoster
	headers HeaderSource
	prover  ProofAssembler
	finder  celestia.CommitmentFinder
	settler Settler
	ledger  db.Ledger
}

// New wires a bridge. finder and ledger are optional: without a finder the
// block number doubles as the Blobstream nonce, without a ledger nothing is
// recorded.
func New(config *Config, poster BlobPoster, headers HeaderSource, prover ProofAssembler, finder celestia.CommitmentFinder, settler Settler, ledger db.Ledger) *Bridge {
	return &Bridge{
		config:  config,
		poster:  poster,
		headers: headers,
		prover:  prover,
		finder:  finder,
		settler: settler,
		ledger:  ledger,
	}
}

// Run pushes batch through every stage once. The returned report is never
// nil; on error it holds whatever was produced before the failing stage.
func (b *Bridge) Run(ctx context.Context, batch *Batch) (*Report, error) {
	start := time.Now()
	report := &Report{SubmissionID: -1}
	err := b.run(ctx, batch, report)
	if err != nil {
		failedCounter.Inc(1)
		log.Warn("bridge run failed", "height", heightOf(report), "err", err)
	} else {
		runTimer.UpdateSince(start)
	}
	b.record(report, err)
	return report, err
}

func (b *Bridge) run(ctx context.Context, batch *Batch, report *Report) error {
	height, commitment, err := b.poster.Submit(ctx, batch.Payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPost, err)
	}
	report.Pointer = &types.BlobPointer{Span: types.SequenceSpan{Height: height}}
	copy(report.Pointer.Commitment[:], commitment)
	report.BlockNumber = batch.BlockNumber
	if report.BlockNumber == 0 {
		report.BlockNumber = height
	}

	// paid for: recorded even when it cannot be located
	located, err := b.locate(ctx, height, commitment)
	if located != nil {
		report.Pointer = located
	}
	b.insert(report)
	if err != nil {
		return err
	}

	report.Nonce, err = b.nonce(ctx, height, report.BlockNumber)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNonce, err)
	}

	vd, err := b.prover.Assemble(ctx, height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	report.Verification = vd

	req := &settlement.SubmitRequest{
		BlockNumber:    new(big.Int).SetUint64(report.BlockNumber),
		CelestiaHeight: height,
		StartIndex:     vd.StartIndex,
		DataLen:        vd.DataLen,
		ProofData:      settlement.Pack(vd, batch.StateRoot, batch.RollupBlockHash, report.Nonce, batch.ZkProof),
	}
	res, err := b.settler.Submit(ctx, req)
	report.Settlement = res
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSettle, err)
	}
	log.Info("settled celestia blob", "height", height, "start", vd.StartIndex, "len", vd.DataLen, "nonce", report.Nonce, "tx", res.TxHash)
	return nil
}

func (b *Bridge) locate(ctx context.Context, height uint64, commitment []byte) (*types.BlobPointer, error) {
	if err := b.waitForHeader(ctx, height); err != nil {
		return nil, err
	}
	ptr, err := b.poster.Locate(ctx, height, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocate, err)
	}
	return ptr, nil
}

func (b *Bridge) insert(report *Report) {
	if b.ledger == nil {
		return
	}
	id, err := b.ledger.InsertSubmission(report.Pointer, report.BlockNumber)
	if err != nil {
		log.Error("failed to record submission", "height", report.Pointer.Span.Height, "err", err)
		return
	}
	report.SubmissionID = id
}

// waitForHeader polls until the node serves the header for height. Only
// ErrNotFound is retried.
func (b *Bridge) waitForHeader(ctx context.Context, height uint64) error {
	start := time.Now()
	if b.config.HeaderWaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.HeaderWaitTimeout)
		defer cancel()
	}
	ticker := time.NewTicker(b.config.HeaderPollInterval)
	defer ticker.Stop()
	for {
		_, err := b.headers.HeaderByHeight(ctx, height)
		if err == nil {
			headerWaitTimer.UpdateSince(start)
			return nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("%w: height %d: %w", ErrHeaderWait, height, err)
		}
		log.Debug("waiting for celestia header", "height", height)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: height %d: %w", ErrHeaderWait, height, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (b *Bridge) nonce(ctx context.Context, height uint64, blockNumber uint64) (uint64, error) {
	if b.finder == nil {
		return blockNumber, nil
	}
	commitment, err := b.finder.FindDataCommitment(ctx, height)
	if err != nil {
		return 0, err
	}
	return commitment.Nonce, nil
}

func (b *Bridge) record(report *Report, runErr error) {
	if b.ledger == nil || report.SubmissionID < 0 {
		return
	}
	outcome := &db.Outcome{Stage: "posted", Nonce: report.Nonce, Err: runErr}
	if report.Settlement != nil {
		outcome.Stage = report.Settlement.Stage.String()
		outcome.Confirmed = report.Settlement.Confirmed
		outcome.TxHash = report.Settlement.TxHash
	}
	if err := b.ledger.UpdateOutcome(report.SubmissionID, outcome); err != nil {
		log.Error("failed to record settlement outcome", "id", report.SubmissionID, "err", err)
	}
}

func heightOf(report *Report) uint64 {
	if report.Pointer == nil {
		return 0
	}
	return report.Pointer.Span.Height
}
