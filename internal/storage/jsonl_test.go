package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"swapcap/internal/model"
)

func testRecord(txHash string, amount0 int64) model.SwapRecord {
	return model.SwapRecord{
		TxHash:   common.HexToHash(txHash),
		Sender:   common.HexToAddress("0xe592427a0aece92de3edee1f18e0157c05861564"),
		Receiver: common.HexToAddress("0x4b7d6c3cea01f4d54a9cad6587da106ea39da1e6"),
		Payload: model.SwapPayload{
			Amount0:      big.NewInt(amount0),
			Amount1:      big.NewInt(42),
			SqrtPriceX96: big.NewInt(79228162514264337),
			Liquidity:    big.NewInt(5000000),
			Tick:         -15,
		},
	}
}

func TestJsonlSinkAppendsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "swaps.jsonl")
	sink := NewJsonlSink(path)

	ctx := context.Background()
	if err := sink.Append(ctx, testRecord("0x01", -100)); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := sink.Append(ctx, testRecord("0x02", 200)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	var rows []model.SwapRow
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var row model.SwapRow
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan output: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Amount0 != "-100" || rows[1].Amount0 != "200" {
		t.Fatalf("rows out of order: %+v", rows)
	}
	if rows[0].SenderAddress != "0xe592427a0aece92de3edee1f18e0157c05861564" {
		t.Fatalf("sender mismatch: %s", rows[0].SenderAddress)
	}
	if rows[0].Tick != -15 {
		t.Fatalf("tick mismatch: %d", rows[0].Tick)
	}
}

type failingSink struct{}

func (failingSink) Append(context.Context, model.SwapRecord) error {
	return ErrPersistence
}

func (failingSink) Close() error { return nil }

func TestMultiSinkStopsOnFirstFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swaps.jsonl")
	multi := NewMultiSink(failingSink{}, NewJsonlSink(path))

	if err := multi.Append(context.Background(), testRecord("0x01", 1)); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("later sinks must not run after a failure")
	}
}
