package scan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hexops/autogold"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecast/pagecast/pkg/page"
)

var erc20Raw = []RawItem{
	{Type: "constructor", Inputs: []page.Param{{Name: "supply", Type: "uint256"}}},
	{Type: "event", Name: "Transfer"},
	{
		Type: "function", Name: "balanceOf", StateMutability: "view",
		Inputs:  []page.Param{{Name: "account", Type: "address"}},
		Outputs: []page.Param{{Name: "", Type: "uint256"}},
	},
	{
		Type: "function", Name: "transfer", StateMutability: "nonpayable",
		Inputs:  []page.Param{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
		Outputs: []page.Param{{Name: "", Type: "bool"}},
	},
	{Type: "error", Name: "InsufficientBalance"},
}

func TestNormalize_FiltersToCallables(t *testing.T) {
	items := Normalize(erc20Raw)
	require.Len(t, items, 2)

	balanceOf, transfer := items[0], items[1]
	assert.Equal(t, "balanceOf", balanceOf.Name)
	assert.False(t, balanceOf.StateChanging())
	assert.False(t, balanceOf.Selected)
	assert.True(t, transfer.StateChanging())

	// Well-known ERC20 dispatch selectors.
	assert.Equal(t, "0x70a08231", balanceOf.Selector)
	assert.Equal(t, "0xa9059cbb", transfer.Selector)
	assert.NotEqual(t, balanceOf.ID, transfer.ID)
}

func TestNormalize_Deterministic(t *testing.T) {
	first := Normalize(erc20Raw)
	second := Normalize(erc20Raw)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Selector, second[i].Selector)
	}
}

func TestNormalize_OverloadsGetDistinctIDs(t *testing.T) {
	raw := []RawItem{
		{Type: "function", Name: "safeTransferFrom", StateMutability: "nonpayable",
			Inputs: []page.Param{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "tokenId", Type: "uint256"}}},
		{Type: "function", Name: "safeTransferFrom", StateMutability: "nonpayable",
			Inputs: []page.Param{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "tokenId", Type: "uint256"}, {Name: "data", Type: "bytes"}}},
	}
	items := Normalize(raw)
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.NotEqual(t, items[0].Selector, items[1].Selector)
}

func TestItemID_Golden(t *testing.T) {
	tests := []struct {
		name   string
		inputs []page.Param
		want   autogold.Value
	}{
		{
			name:   "balanceOf",
			inputs: []page.Param{{Name: "account", Type: "address"}},
			want:   autogold.Want("balanceOf id", "balanceOf(account address)"),
		},
		{
			name:   "totalSupply",
			inputs: nil,
			want:   autogold.Want("totalSupply id", "totalSupply()"),
		},
		{
			name:   "transfer",
			inputs: []page.Param{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
			want:   autogold.Want("transfer id", "transfer(to address,amount uint256)"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Equal(t, ItemID(tt.name, tt.inputs))
		})
	}
}

func explorerServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSource_FetchRawABI(t *testing.T) {
	abiJSON := `[{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}]`
	srv := explorerServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "contract", r.URL.Query().Get("module"))
		assert.Equal(t, "getabi", r.URL.Query().Get("action"))
		fmt.Fprintf(w, `{"status":"1","message":"OK","result":%q}`, abiJSON)
	})

	source := NewSource(srv.URL, "key", zerolog.Nop())
	raw, err := source.FetchRawABI(context.Background(), "0x1B8e12F839BD4e73A47adDF76cF7F0097d74c14C")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, "totalSupply", raw[0].Name)
}

func TestSource_FetchRawABI_NotFound(t *testing.T) {
	srv := explorerServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","message":"NOTOK","result":"Contract source code not verified"}`)
	})

	source := NewSource(srv.URL, "", zerolog.Nop())
	_, err := source.FetchRawABI(context.Background(), "0x0000000000000000000000000000000000000001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

type fakeSlotReader struct {
	slot     common.Hash
	slotErr  error
	callOut  []byte
	callErr  error
	lastData []byte
}

func (f *fakeSlotReader) StorageSlot(_ context.Context, _ common.Address, _ common.Hash) (common.Hash, error) {
	return f.slot, f.slotErr
}

func (f *fakeSlotReader) ReadCallRaw(_ context.Context, _ common.Address, data []byte) ([]byte, error) {
	f.lastData = data
	return f.callOut, f.callErr
}

func TestResolveImplementation(t *testing.T) {
	proxy := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	impl := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	// ERC1967 slot populated.
	reader := &fakeSlotReader{slot: common.BytesToHash(impl.Bytes())}
	got := ResolveImplementation(context.Background(), reader, proxy, zerolog.Nop())
	assert.Equal(t, impl, got)

	// Empty slot, implementation() call answers.
	reader = &fakeSlotReader{callOut: common.LeftPadBytes(impl.Bytes(), 32)}
	got = ResolveImplementation(context.Background(), reader, proxy, zerolog.Nop())
	assert.Equal(t, impl, got)
	assert.Equal(t, implementationCallData, reader.lastData)

	// Neither works: identity fallback.
	reader = &fakeSlotReader{slotErr: errors.New("no node"), callErr: errors.New("revert")}
	got = ResolveImplementation(context.Background(), reader, proxy, zerolog.Nop())
	assert.Equal(t, proxy, got)
}
