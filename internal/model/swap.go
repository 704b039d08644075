package model

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SwapPayload holds the five non-indexed fields of a pool Swap event.
// Amounts are signed 256-bit, sqrt price fits uint160, liquidity uint128.
// Values stay as big integers end to end; floats would lose precision.
type SwapPayload struct {
	Amount0      *big.Int
	Amount1      *big.Int
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int32
}

// Equal reports whether two payloads carry the same values.
func (p SwapPayload) Equal(other SwapPayload) bool {
	return p.Amount0.Cmp(other.Amount0) == 0 &&
		p.Amount1.Cmp(other.Amount1) == 0 &&
		p.SqrtPriceX96.Cmp(other.SqrtPriceX96) == 0 &&
		p.Liquidity.Cmp(other.Liquidity) == 0 &&
		p.Tick == other.Tick
}

// SwapRecord combines transaction context with a decoded payload.
// A log without a transaction hash keeps the zero hash.
type SwapRecord struct {
	TxHash   common.Hash
	Sender   common.Address
	Receiver common.Address
	Payload  SwapPayload
}

// SwapRow is the canonical persisted form of a SwapRecord: hashes and
// addresses as lowercase 0x-prefixed hex at fixed width, big integers as
// base-10 strings. Field names match the logs table columns.
type SwapRow struct {
	TxHash          string `json:"tx_hash"`
	SenderAddress   string `json:"sender_address"`
	ReceiverAddress string `json:"receiver_address"`
	Amount0         string `json:"amount0"`
	Amount1         string `json:"amount1"`
	SqrtPrice       string `json:"sqrt_price"`
	Liquidity       string `json:"liquidity"`
	Tick            int32  `json:"tick"`
}

// Row converts the record into its canonical persisted form.
func (r SwapRecord) Row() SwapRow {
	return SwapRow{
		TxHash:          r.TxHash.Hex(),
		SenderAddress:   strings.ToLower(r.Sender.Hex()),
		ReceiverAddress: strings.ToLower(r.Receiver.Hex()),
		Amount0:         r.Payload.Amount0.String(),
		Amount1:         r.Payload.Amount1.String(),
		SqrtPrice:       r.Payload.SqrtPriceX96.String(),
		Liquidity:       r.Payload.Liquidity.String(),
		Tick:            r.Payload.Tick,
	}
}
