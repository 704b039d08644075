package capture

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"swapcap/internal/chain"
	"swapcap/internal/dex"
	"swapcap/internal/model"
	"swapcap/internal/storage"
)

const logBuffer = 256

// Subscriber registers a live log subscription. Implemented by
// *chain.Client.
type Subscriber interface {
	SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// RunConfig holds runtime settings for the capture loop.
type RunConfig struct {
	ContractAddress string
}

// Runner consumes one live Swap subscription sequentially: each event is
// decoded and persisted before the next one is fetched. The first error
// from any stage terminates the run; there are no retries and no
// reconnects.
type Runner struct {
	cfg        RunConfig
	subscriber Subscriber
	sink       storage.Storage
	logger     *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, subscriber Subscriber, sink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		subscriber: subscriber,
		sink:       sink,
		logger:     logger,
	}
}

// Run executes the capture loop until the stream ends or a stage fails.
// A closed subscription without error is a normal termination.
func (r *Runner) Run(ctx context.Context) error {
	if r.subscriber == nil {
		return fmt.Errorf("subscriber is nil")
	}
	if r.sink == nil {
		return fmt.Errorf("storage sink is nil")
	}

	query, err := dex.BuildSwapFilter(r.cfg.ContractAddress)
	if err != nil {
		return err
	}

	logsCh := make(chan types.Log, logBuffer)
	sub, err := r.subscriber.SubscribeLogs(ctx, query, logsCh)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	r.logger.Info("capture start", zap.String("address", r.cfg.ContractAddress))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			if err != nil {
				return fmt.Errorf("%w: subscription dropped: %v", chain.ErrConnection, err)
			}
			r.logger.Info("subscription closed")
			return nil
		case eventLog := <-logsCh:
			if err := r.processLog(ctx, eventLog); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) processLog(ctx context.Context, eventLog types.Log) error {
	record, err := buildSwapRecord(eventLog)
	if err != nil {
		return err
	}

	if err := r.sink.Append(ctx, record); err != nil {
		return err
	}

	row := record.Row()
	r.logger.Info("swap stored",
		zap.String("tx_hash", row.TxHash),
		zap.String("sender", row.SenderAddress),
		zap.String("receiver", row.ReceiverAddress),
		zap.String("amount0", row.Amount0),
		zap.String("amount1", row.Amount1),
		zap.String("sqrt_price", row.SqrtPrice),
		zap.String("liquidity", row.Liquidity),
		zap.Int32("tick", row.Tick),
	)
	return nil
}

// buildSwapRecord extracts sender/receiver from topics 1 and 2 and decodes
// the payload. The filter guarantees topic shape only externally, so the
// topic count is checked here instead of indexed blindly. A log without a
// transaction hash keeps the zero hash.
func buildSwapRecord(eventLog types.Log) (model.SwapRecord, error) {
	if len(eventLog.Topics) < 3 {
		return model.SwapRecord{}, fmt.Errorf("%w: expected at least 3 topics, got %d", dex.ErrDecode, len(eventLog.Topics))
	}

	payload, err := dex.DecodeSwapPayload(eventLog.Data)
	if err != nil {
		return model.SwapRecord{}, err
	}

	return model.SwapRecord{
		TxHash:   eventLog.TxHash,
		Sender:   common.BytesToAddress(eventLog.Topics[1].Bytes()),
		Receiver: common.BytesToAddress(eventLog.Topics[2].Bytes()),
		Payload:  payload,
	}, nil
}
