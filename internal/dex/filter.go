package dex

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress marks a malformed contract address input.
var ErrInvalidAddress = errors.New("invalid contract address")

// BuildSwapFilter builds a live subscription filter scoped to one pool
// address and the Swap event signature. No block range: the subscription
// is forward-only from the moment of registration.
func BuildSwapFilter(contractAddress string) (ethereum.FilterQuery, error) {
	if !common.IsHexAddress(contractAddress) {
		return ethereum.FilterQuery{}, fmt.Errorf("%w: %s", ErrInvalidAddress, contractAddress)
	}

	poolABI, err := PoolABI()
	if err != nil {
		return ethereum.FilterQuery{}, fmt.Errorf("parse pool abi: %w", err)
	}

	return ethereum.FilterQuery{
		Addresses: []common.Address{common.HexToAddress(contractAddress)},
		Topics:    [][]common.Hash{{poolABI.Events["Swap"].ID}},
	}, nil
}
