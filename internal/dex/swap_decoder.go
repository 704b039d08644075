package dex

import (
	"errors"
	"fmt"
	"math/big"

	"swapcap/internal/model"
)

// ErrDecode marks a malformed or wrong-length event payload.
var ErrDecode = errors.New("payload decode failure")

// Five 32-byte slots: amount0, amount1, sqrtPriceX96, liquidity, tick.
const swapPayloadLength = 5 * 32

var (
	maxUint160 = new(big.Int).Lsh(big.NewInt(1), 160)
	maxUint128 = new(big.Int).Lsh(big.NewInt(1), 128)
)

// DecodeSwapPayload decodes the non-indexed bytes of a Swap event into a
// SwapPayload. The decode is all-or-nothing: the input must be exactly
// five 32-byte slots and every field must fit its declared width.
func DecodeSwapPayload(data []byte) (model.SwapPayload, error) {
	if len(data) != swapPayloadLength {
		return model.SwapPayload{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrDecode, swapPayloadLength, len(data))
	}

	poolABI, err := PoolABI()
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := poolABI.Events["Swap"].Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("%w: unpack swap: %v", ErrDecode, err)
	}
	if len(values) != 5 {
		return model.SwapPayload{}, fmt.Errorf("%w: unexpected swap values: %d", ErrDecode, len(values))
	}

	amount0, err := asBigInt(values[0])
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("%w: amount0: %v", ErrDecode, err)
	}
	amount1, err := asBigInt(values[1])
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("%w: amount1: %v", ErrDecode, err)
	}
	sqrtPrice, err := asBigInt(values[2])
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("%w: sqrt price: %v", ErrDecode, err)
	}
	if sqrtPrice.Sign() < 0 || sqrtPrice.Cmp(maxUint160) >= 0 {
		return model.SwapPayload{}, fmt.Errorf("%w: sqrt price out of uint160 range", ErrDecode)
	}
	liquidity, err := asBigInt(values[3])
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("%w: liquidity: %v", ErrDecode, err)
	}
	if liquidity.Sign() < 0 || liquidity.Cmp(maxUint128) >= 0 {
		return model.SwapPayload{}, fmt.Errorf("%w: liquidity out of uint128 range", ErrDecode)
	}
	tickValue, err := asBigInt(values[4])
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("%w: tick: %v", ErrDecode, err)
	}
	tick, err := int24FromBig(tickValue)
	if err != nil {
		return model.SwapPayload{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return model.SwapPayload{
		Amount0:      amount0,
		Amount1:      amount1,
		SqrtPriceX96: sqrtPrice,
		Liquidity:    liquidity,
		Tick:         tick,
	}, nil
}

// EncodeSwapPayload re-encodes a payload into its ABI byte form.
func EncodeSwapPayload(payload model.SwapPayload) ([]byte, error) {
	poolABI, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	data, err := poolABI.Events["Swap"].Inputs.NonIndexed().Pack(
		payload.Amount0,
		payload.Amount1,
		payload.SqrtPriceX96,
		payload.Liquidity,
		big.NewInt(int64(payload.Tick)),
	)
	if err != nil {
		return nil, fmt.Errorf("pack swap: %w", err)
	}
	return data, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}
