package publish

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecast/pagecast/pkg/page"
	"github.com/pagecast/pagecast/pkg/scan"
)

const erc20RawABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"Transfer",
   "inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}]}
]`

// Walks the full path a page takes: scan a verified contract, pick one
// function, publish, then read the published document back as a visitor
// would.
func TestScanComposePublishFetch(t *testing.T) {
	var raw []scan.RawItem
	require.NoError(t, json.Unmarshal([]byte(erc20RawABI), &raw))

	callables := scan.Normalize(raw)
	require.Len(t, callables, 3, "the event is not a callable item")

	composer := page.NewComposer(callables)
	require.NoError(t, composer.ToggleSelected("balanceOf(account address)"))

	doc := &page.Document{
		ChainID:         8453,
		ContractAddress: "0x00000000000000000000000000000000000000aa",
		Title:           "Token",
		Items:           composer.PublishSnapshot(),
	}

	store := newFakeStore()
	reg := &fakeRegistry{pageID: common.HexToHash("0x0123")}
	p, _ := testPublisher(store, reg)

	_, contentID, err := p.Create(context.Background(), stubSigner{}, doc, nil, nil)
	require.NoError(t, err)

	var fetched page.Document
	require.NoError(t, store.GetJSON(context.Background(), contentID, &fetched))
	require.Len(t, fetched.Items, 1, "only the selected function is published")

	item, ok := fetched.Items[0].(*page.CallableItem)
	require.True(t, ok)
	assert.Equal(t, "balanceOf", item.Name)
	assert.Equal(t, "0x70a08231", item.Selector, "dispatch fingerprint survives the round trip")
	assert.False(t, item.AutoInvokeOnOpen(), "a view with inputs waits for the visitor")
}

// A no-argument view runs as soon as the page opens; the same mutability
// with arguments, or any state-changing function, waits for input.
func TestPublishedPageAutoInvokeAsymmetry(t *testing.T) {
	var raw []scan.RawItem
	require.NoError(t, json.Unmarshal([]byte(erc20RawABI), &raw))

	composer := page.NewComposer(scan.Normalize(raw))
	composer.ToggleSelectAll()

	doc := &page.Document{Title: "Token", Items: composer.PublishSnapshot()}

	store := newFakeStore()
	reg := &fakeRegistry{}
	p, _ := testPublisher(store, reg)
	_, contentID, err := p.Create(context.Background(), stubSigner{}, doc, nil, nil)
	require.NoError(t, err)

	var fetched page.Document
	require.NoError(t, store.GetJSON(context.Background(), contentID, &fetched))
	require.Len(t, fetched.Items, 3)

	auto := map[string]bool{}
	for _, it := range fetched.Items {
		callable, ok := it.(*page.CallableItem)
		require.True(t, ok)
		auto[callable.Name] = callable.AutoInvokeOnOpen()
	}
	assert.True(t, auto["totalSupply"])
	assert.False(t, auto["balanceOf"])
	assert.False(t, auto["transfer"])
}
