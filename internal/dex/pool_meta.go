package dex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"swapcap/internal/chain"
)

// PoolMeta describes the immutable identity of a pool contract.
type PoolMeta struct {
	Token0 common.Address
	Token1 common.Address
	Fee    uint32
}

// FetchPoolMeta reads token0, token1 and fee from the pool contract.
// Used once at startup for the informational trace; failures here do not
// abort the capture run.
func FetchPoolMeta(ctx context.Context, chainClient *chain.Client, pool common.Address) (PoolMeta, error) {
	if chainClient == nil {
		return PoolMeta{}, fmt.Errorf("chain client is nil")
	}

	poolABI, err := PoolABI()
	if err != nil {
		return PoolMeta{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := callPoolMethod(ctx, chainClient, poolABI, pool, "token0")
	if err != nil {
		return PoolMeta{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return PoolMeta{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callPoolMethod(ctx, chainClient, poolABI, pool, "token1")
	if err != nil {
		return PoolMeta{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return PoolMeta{}, fmt.Errorf("token1: %w", err)
	}

	values, err = callPoolMethod(ctx, chainClient, poolABI, pool, "fee")
	if err != nil {
		return PoolMeta{}, err
	}
	fee, err := asBigInt(values[0])
	if err != nil {
		return PoolMeta{}, fmt.Errorf("fee: %w", err)
	}

	return PoolMeta{
		Token0: token0,
		Token1: token1,
		Fee:    uint32(fee.Uint64()),
	}, nil
}

func callPoolMethod(ctx context.Context, chainClient *chain.Client, poolABI abi.ABI, pool common.Address, name string) ([]interface{}, error) {
	input, err := poolABI.Pack(name)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", name, err)
	}

	output, err := chainClient.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("call %s: empty result", name)
	}

	values, err := poolABI.Unpack(name, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", name, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: no values", name)
	}
	return values, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}
