// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

var (
	simulationFailedCounter = metrics.NewRegisteredCounter("settlement/submit/simulation/failed", nil)
	estimationFailedCounter = metrics.NewRegisteredCounter("settlement/submit/estimation/failed", nil)
	sendFailedCounter       = metrics.NewRegisteredCounter("settlement/submit/send/failed", nil)
	confirmFailedCounter    = metrics.NewRegisteredCounter("settlement/submit/confirmation/failed", nil)
	buildFailedCounter      = metrics.NewRegisteredCounter("settlement/submit/build/failed", nil)
	revertedCounter         = metrics.NewRegisteredCounter("settlement/submit/reverted", nil)
	confirmedCounter        = metrics.NewRegisteredCounter("settlement/submit/confirmed", nil)
	gasEstimateGauge        = metrics.NewRegisteredGauge("settlement/submit/gasestimate", nil)
)

// ChainClient is the L1 access the submitter needs. *ethclient.Client
// satisfies it.
type ChainClient interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Result describes how far a submission got. Stage is the last stage
// reached, or the stage that could not be reached when Err is a StageError.
type Result struct {
	Stage     Stage
	Confirmed bool
	TxHash    common.Hash
	Receipt   *types.Receipt
	GasLimit  uint64
	Err       error

	sent bool
}

// FundsAtRisk reports whether a transaction was handed to the chain.
func (r *Result) FundsAtRisk() bool {
	return r.sent
}

// Submitter drives a single settlement transaction through
// Built, Simulated, GasEstimated, Sent and Confirmed. It never retries.
type Submitter struct {
	client   ChainClient
	contract common.Address
	opts     *bind.TransactOpts
	config   *SubmitterConfig
}

func NewSubmitter(client ChainClient, contract common.Address, opts *bind.TransactOpts, config *SubmitterConfig) *Submitter {
	return &Submitter{
		client:   client,
		contract: contract,
		opts:     opts,
		config:   config,
	}
}

func (s *Submitter) fail(res *Result, stage Stage, cause error) (*Result, error) {
	res.Stage = stage
	res.Err = newStageError(stage, cause)
	switch stage {
	case StageBuilt:
		buildFailedCounter.Inc(1)
	case StageSimulated:
		simulationFailedCounter.Inc(1)
	case StageGasEstimated:
		estimationFailedCounter.Inc(1)
	case StageSent:
		sendFailedCounter.Inc(1)
	default:
		confirmFailedCounter.Inc(1)
	}
	log.Warn("Settlement submission failed", "stage", stage, "tx", res.TxHash, "err", cause)
	return res, res.Err
}

// Submit sends submitProof(req) and waits for its receipt. A mined but
// reverted transaction yields Confirmed=false and an error wrapping
// ErrReverted.
func (s *Submitter) Submit(ctx context.Context, req *SubmitRequest) (*Result, error) {
	res := &Result{}

	// Built
	calldata, err := EncodeSubmitProof(req)
	if err != nil {
		return s.fail(res, StageBuilt, err)
	}
	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return s.fail(res, StageBuilt, fmt.Errorf("getting chain id: %w", err))
	}
	var nonce uint64
	if s.opts.Nonce != nil {
		nonce = s.opts.Nonce.Uint64()
	} else {
		nonce, err = s.client.PendingNonceAt(ctx, s.opts.From)
		if err != nil {
			return s.fail(res, StageBuilt, fmt.Errorf("getting pending nonce: %w", err))
		}
	}
	gasFeeCap := s.config.gasFeeCap()
	gasTipCap := s.config.gasTipCap()
	msg := ethereum.CallMsg{
		From:      s.opts.From,
		To:        &s.contract,
		Value:     s.value(),
		Data:      calldata,
		GasFeeCap: gasFeeCap,
		GasTipCap: gasTipCap,
	}
	res.Stage = StageBuilt

	// Simulated
	if _, err := s.client.CallContract(ctx, msg, nil); err != nil {
		return s.fail(res, StageSimulated, err)
	}
	res.Stage = StageSimulated

	// GasEstimated
	estimate, err := s.client.EstimateGas(ctx, msg)
	if err != nil {
		return s.fail(res, StageGasEstimated, err)
	}
	gasEstimateGauge.Update(int64(estimate))
	res.GasLimit = s.config.gasLimit(estimate)
	res.Stage = StageGasEstimated

	// Sent
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       res.GasLimit,
		To:        &s.contract,
		Value:     s.value(),
		Data:      calldata,
	})
	signed, err := s.opts.Signer(s.opts.From, tx)
	if err != nil {
		return s.fail(res, StageSent, fmt.Errorf("signing: %w", err))
	}
	res.TxHash = signed.Hash()
	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return s.fail(res, StageSent, err)
	}
	res.sent = true
	res.Stage = StageSent
	log.Info("Sent settlement transaction", "tx", res.TxHash, "nonce", nonce, "gas", res.GasLimit, "celestiaHeight", req.CelestiaHeight, "blockNumber", req.BlockNumber)

	// Confirmed
	waitCtx := ctx
	if s.config.ConfirmationTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.config.ConfirmationTimeout)
		defer cancel()
	}
	receipt, err := waitForReceipt(waitCtx, s.client, res.TxHash, s.config.ReceiptPollInterval)
	if err != nil {
		return s.fail(res, StageConfirmed, err)
	}
	res.Receipt = receipt
	res.Stage = StageConfirmed
	if receipt.Status != types.ReceiptStatusSuccessful {
		revertedCounter.Inc(1)
		msg.Gas = signed.Gas()
		detail := revertDetail(ctx, s.client, receipt, msg)
		res.Err = fmt.Errorf("%w: %v", ErrReverted, detail)
		log.Warn("Settlement transaction reverted", "tx", res.TxHash, "block", receipt.BlockNumber, "detail", detail)
		return res, res.Err
	}
	res.Confirmed = true
	confirmedCounter.Inc(1)
	log.Info("Settlement transaction confirmed", "tx", res.TxHash, "block", receipt.BlockNumber, "gasUsed", receipt.GasUsed)
	return res, nil
}

func (s *Submitter) value() *big.Int {
	if s.opts.Value == nil {
		return new(big.Int)
	}
	return s.opts.Value
}
