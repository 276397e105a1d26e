// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/pkg/errors"
)

type headSubscriber interface {
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
}

// waitForReceipt waits for txHash to be mined. It wakes up on new heads when
// the client supports subscriptions and otherwise polls every pollInterval.
func waitForReceipt(ctx context.Context, client ChainClient, txHash common.Hash, pollInterval time.Duration) (*types.Receipt, error) {
	if subscriber, ok := client.(headSubscriber); ok {
		heads := make(chan *types.Header, 1)
		sub, err := subscriber.SubscribeNewHead(ctx, heads)
		if err == nil {
			defer sub.Unsubscribe()
			return waitOnHeads(ctx, client, txHash, heads, sub)
		}
	}
	return pollForReceipt(ctx, client, txHash, pollInterval)
}

func waitOnHeads(ctx context.Context, client ChainClient, txHash common.Hash, heads <-chan *types.Header, sub ethereum.Subscription) (*types.Receipt, error) {
	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err := <-sub.Err():
			if err != nil {
				return nil, fmt.Errorf("head subscription error while waiting for tx: %w", err)
			}
			return nil, errors.New("head subscription closed unexpectedly")
		case <-heads:
		}
	}
}

func pollForReceipt(ctx context.Context, client ChainClient, txHash common.Hash, pollInterval time.Duration) (*types.Receipt, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// revertDetail replays a failed call at the receipt's block to explain the
// failure.
func revertDetail(ctx context.Context, client ChainClient, receipt *types.Receipt, msg ethereum.CallMsg) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if _, err := client.CallContract(ctx, msg, receipt.BlockNumber); err == nil {
		return fmt.Errorf("tx failed but call succeeded for tx hash %v", receipt.TxHash)
	}
	msg.Gas = 0
	_, err := client.CallContract(ctx, msg, receipt.BlockNumber)
	if err == nil {
		return fmt.Errorf("%w for tx hash %v", vm.ErrOutOfGas, receipt.TxHash)
	}
	return fmt.Errorf("replayed call got: %w for tx hash %v", err, receipt.TxHash)
}
