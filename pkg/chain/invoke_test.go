package chain

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecast/pagecast/pkg/codec"
	"github.com/pagecast/pagecast/pkg/page"
)

var transferItem = &page.CallableItem{
	ID:       "transfer(to address,amount uint256)",
	Selector: "0xa9059cbb",
	Name:     "transfer",
	Inputs: []page.Param{
		{Name: "to", Type: "address"},
		{Name: "amount", Type: "uint256"},
	},
	Outputs:    []page.Param{{Name: "", Type: "bool"}},
	Mutability: page.MutabilityNonpayable,
}

func TestPackCallData_Transfer(t *testing.T) {
	to := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	data, err := PackCallData(transferItem, []string{to.Hex(), "1000"})
	require.NoError(t, err)

	require.Len(t, data, 4+32+32)
	assert.Equal(t, common.FromHex("0xa9059cbb"), data[:4])
	// Address is left-padded into the first word.
	assert.Equal(t, to.Bytes(), data[4+12:4+32])
	assert.Equal(t, big.NewInt(1000), new(big.Int).SetBytes(data[4+32:]))
}

// Small-width integers must reach the packer as their native Go types;
// a *big.Int for a uint8 parameter is rejected outright.
func TestPackCallData_SmallIntegerWidths(t *testing.T) {
	setFee := &page.CallableItem{
		ID:         "setFee(fee uint8)",
		Selector:   "0x69fe0e2d",
		Name:       "setFee",
		Inputs:     []page.Param{{Name: "fee", Type: "uint8"}},
		Mutability: page.MutabilityNonpayable,
	}
	data, err := PackCallData(setFee, []string{"5"})
	require.NoError(t, err)
	require.Len(t, data, 4+32)
	assert.Equal(t, byte(5), data[4+31])

	adjust := &page.CallableItem{
		ID:         "adjust(delta int16)",
		Selector:   "0x00000000",
		Name:       "adjust",
		Inputs:     []page.Param{{Name: "delta", Type: "int16"}},
		Mutability: page.MutabilityNonpayable,
	}
	data, err = PackCallData(adjust, []string{"-2"})
	require.NoError(t, err)
	require.Len(t, data, 4+32)
	// Two's complement, sign-extended across the word.
	assert.Equal(t, byte(0xfe), data[4+31])
	assert.Equal(t, byte(0xff), data[4+30])

	swap := &page.CallableItem{
		ID:         "swap(deadline uint64)",
		Selector:   "0x00000000",
		Name:       "swap",
		Inputs:     []page.Param{{Name: "deadline", Type: "uint64"}},
		Mutability: page.MutabilityNonpayable,
	}
	data, err = PackCallData(swap, []string{"1893456000"})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1893456000), new(big.Int).SetBytes(data[4:]))
}

func TestPackCallData_SmallIntegerArray(t *testing.T) {
	setTiers := &page.CallableItem{
		ID:         "setTiers(tiers uint8[])",
		Selector:   "0x00000000",
		Name:       "setTiers",
		Inputs:     []page.Param{{Name: "tiers", Type: "uint8[]"}},
		Mutability: page.MutabilityNonpayable,
	}
	data, err := PackCallData(setTiers, []string{"1, 2, 3"})
	require.NoError(t, err)
	// selector + offset word + length word + three element words
	require.Len(t, data, 4+32+32+3*32)
	assert.Equal(t, big.NewInt(3), new(big.Int).SetBytes(data[4+32:4+64]))
	assert.Equal(t, byte(1), data[4+64+31])
	assert.Equal(t, byte(2), data[4+96+31])
	assert.Equal(t, byte(3), data[4+128+31])
}

func TestPackCallData_RenamedItemKeepsDispatch(t *testing.T) {
	renamed := *transferItem
	renamed.Name = "Send Tokens"
	data, err := PackCallData(&renamed, []string{"", ""})
	require.NoError(t, err)
	assert.Equal(t, common.FromHex("0xa9059cbb"), data[:4])
}

func TestPackCallData_ArgumentCountMismatch(t *testing.T) {
	_, err := PackCallData(transferItem, []string{"0x0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes 2 arguments")
}

func TestPackCallData_EncodeErrorSurfaces(t *testing.T) {
	_, err := PackCallData(transferItem, []string{"", "not-a-number"})
	require.Error(t, err)
	var encErr *codec.EncodeError
	assert.True(t, errors.As(err, &encErr))
}

func TestUnpackResult_Bool(t *testing.T) {
	word := make([]byte, 32)
	word[31] = 1
	values, err := UnpackResult(transferItem, word)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, true, values[0])
}

func TestClassifyCallError(t *testing.T) {
	assert.NoError(t, classifyCallError(nil))

	err := classifyCallError(errors.New("insufficient funds for gas * price + value"))
	assert.True(t, IsInsufficientFunds(err))

	err = classifyCallError(errors.New("execution reverted: Ownable: caller is not the owner"))
	assert.False(t, IsInsufficientFunds(err))
}

func TestPrivateKeySigner(t *testing.T) {
	// Well-known test vector.
	signer, err := NewPrivateKeySigner("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x96216849c49358B10257cb55b28eA603c874b05E"), signer.Address())

	_, err = NewPrivateKeySigner("not-a-key")
	assert.Error(t, err)
}
