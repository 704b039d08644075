package model

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func fixtureRecord() SwapRecord {
	sqrtPrice, _ := new(big.Int).SetString("1967716719848838692609454179917707", 10)
	liquidity, _ := new(big.Int).SetString("32607304702662909871", 10)

	return SwapRecord{
		TxHash:   common.HexToHash("0xe92955b4c46b38de18c1cdd58b06d49d45d6f9ca0906a86918f4cf20650683b4"),
		Sender:   common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564"),
		Receiver: common.HexToAddress("0x4B7D6c3CEa01F4d54a9cAd6587da106EA39DA1e6"),
		Payload: SwapPayload{
			Amount0:      big.NewInt(-263120000),
			Amount1:      big.NewInt(162381653432074306),
			SqrtPriceX96: sqrtPrice,
			Liquidity:    liquidity,
			Tick:         202411,
		},
	}
}

func TestSwapRecordRowCanonical(t *testing.T) {
	row := fixtureRecord().Row()

	if row.TxHash != "0xe92955b4c46b38de18c1cdd58b06d49d45d6f9ca0906a86918f4cf20650683b4" {
		t.Fatalf("tx hash mismatch: %s", row.TxHash)
	}
	if row.SenderAddress != "0xe592427a0aece92de3edee1f18e0157c05861564" {
		t.Fatalf("sender must be lowercase hex: %s", row.SenderAddress)
	}
	if row.ReceiverAddress != "0x4b7d6c3cea01f4d54a9cad6587da106ea39da1e6" {
		t.Fatalf("receiver must be lowercase hex: %s", row.ReceiverAddress)
	}
	if row.Amount0 != "-263120000" || row.Amount1 != "162381653432074306" {
		t.Fatalf("amount mismatch: %+v", row)
	}
	if row.SqrtPrice != "1967716719848838692609454179917707" {
		t.Fatalf("sqrt price mismatch: %s", row.SqrtPrice)
	}
	if row.Liquidity != "32607304702662909871" {
		t.Fatalf("liquidity mismatch: %s", row.Liquidity)
	}
	if row.Tick != 202411 {
		t.Fatalf("tick mismatch: %d", row.Tick)
	}
}

func TestSwapRecordRowZeroTxHash(t *testing.T) {
	record := fixtureRecord()
	record.TxHash = common.Hash{}

	row := record.Row()
	want := "0x0000000000000000000000000000000000000000000000000000000000000000"
	if row.TxHash != want {
		t.Fatalf("missing tx hash must persist as zero hash, got %s", row.TxHash)
	}
}

func TestSwapRowJSONStringFields(t *testing.T) {
	data, err := json.Marshal(fixtureRecord().Row())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"tx_hash", "sender_address", "receiver_address", "amount0", "amount1", "sqrt_price", "liquidity"} {
		if _, ok := decoded[key].(string); !ok {
			t.Fatalf("%s should be string", key)
		}
	}
	if _, ok := decoded["tick"].(float64); !ok {
		t.Fatalf("tick should be numeric")
	}
}
