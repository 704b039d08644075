package dex

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"swapcap/internal/model"
)

const fixturePayload = "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffff0511b800000000000000000000000000000000000000000000000000240e540e2dc0042000000000000000000000000000000000000610413a1a7c814aa98ca36d09f8b000000000000000000000000000000000000000000000001c4846addbd259faf00000000000000000000000000000000000000000000000000000000000316ab"

func TestDecodeSwapPayloadFixture(t *testing.T) {
	data := hexutil.MustDecode(fixturePayload)

	payload, err := DecodeSwapPayload(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if got := payload.Amount0.String(); got != "-263120000" {
		t.Fatalf("amount0 mismatch: %s", got)
	}
	if got := payload.Amount1.String(); got != "162381653432074306" {
		t.Fatalf("amount1 mismatch: %s", got)
	}
	if got := payload.SqrtPriceX96.String(); got != "1967716719848838692609454179917707" {
		t.Fatalf("sqrt price mismatch: %s", got)
	}
	if got := payload.Liquidity.String(); got != "32607304702662909871" {
		t.Fatalf("liquidity mismatch: %s", got)
	}
	if payload.Tick != 202411 {
		t.Fatalf("tick mismatch: %d", payload.Tick)
	}
}

func TestDecodeSwapPayloadWrongLength(t *testing.T) {
	data := hexutil.MustDecode(fixturePayload)

	cases := [][]byte{
		nil,
		{},
		data[:32],
		data[:len(data)-1],
		append(append([]byte{}, data...), 0x00),
	}

	for _, input := range cases {
		if _, err := DecodeSwapPayload(input); !errors.Is(err, ErrDecode) {
			t.Fatalf("expected decode error for %d bytes, got %v", len(input), err)
		}
	}
}

func TestDecodeSwapPayloadRoundTrip(t *testing.T) {
	data := hexutil.MustDecode(fixturePayload)

	payload, err := DecodeSwapPayload(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	encoded, err := EncodeSwapPayload(payload)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if !bytes.Equal(encoded, data) {
		t.Fatalf("round-trip mismatch:\n%x\n%x", encoded, data)
	}
}

func TestEncodeDecodeNegativeValues(t *testing.T) {
	original := model.SwapPayload{
		Amount0:      big.NewInt(-1000),
		Amount1:      big.NewInt(2000),
		SqrtPriceX96: big.NewInt(123456789),
		Liquidity:    big.NewInt(987654321),
		Tick:         -15,
	}

	data, err := EncodeSwapPayload(original)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeSwapPayload(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !decoded.Equal(original) {
		t.Fatalf("payload mismatch: %+v != %+v", decoded, original)
	}
}
