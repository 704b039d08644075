package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"swapcap/internal/capture"
	"swapcap/internal/chain"
	"swapcap/internal/config"
	"swapcap/internal/dex"
	"swapcap/internal/storage"
	"swapcap/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "swapcap",
		Short:        "Live pool swap capture",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the capture loop",
		RunE:  runCapture,
	}

	runCmd.Flags().String("rpc", "", "node WebSocket RPC URL")
	runCmd.Flags().String("address", "", "pool contract address")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	runCmd.Flags().String("out", "./data/swaps.jsonl", "output JSONL path (empty to disable)")
	runCmd.Flags().String("kafka-broker", "", "optional Kafka broker for mirror publishing")
	runCmd.Flags().String("kafka-topic", "swap-logs", "Kafka topic for mirror publishing")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCapture(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Address == "" {
		return fmt.Errorf("pool address is required")
	}
	if cfg.PgDSN == "" && cfg.Out == "" && cfg.KafkaBroker == "" {
		return fmt.Errorf("at least one sink is required (pg-dsn, out, or kafka-broker)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	var sinks []storage.Storage
	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return err
		}
		sinks = append(sinks, store)
	}
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlSink(cfg.Out))
	}
	if cfg.KafkaBroker != "" {
		sinks = append(sinks, storage.NewKafkaSink(cfg.KafkaBroker, cfg.KafkaTopic))
	}

	sink := storage.NewMultiSink(sinks...)
	defer sink.Close()

	if common.IsHexAddress(cfg.Address) {
		pool := common.HexToAddress(cfg.Address)
		if meta, err := dex.FetchPoolMeta(ctx, chainClient, pool); err != nil {
			logger.Warn("pool metadata unavailable", zap.Error(err))
		} else {
			logger.Info("pool metadata",
				zap.String("token0", meta.Token0.Hex()),
				zap.String("token1", meta.Token1.Hex()),
				zap.Uint32("fee", meta.Fee),
			)
		}
	}

	runner := capture.NewRunner(capture.RunConfig{
		ContractAddress: cfg.Address,
	}, chainClient, sink, logger)

	logger.Info("swapcap start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("address", cfg.Address),
		zap.Bool("postgres", cfg.PgDSN != ""),
		zap.String("out", cfg.Out),
		zap.Bool("kafka", cfg.KafkaBroker != ""),
	)

	return runner.Run(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
