package registry

import (
	"context"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/pagecast/pagecast/pkg/chain"
)

// ErrEventMissing marks a confirmed write whose receipt lacked the
// expected log. The chain write nominally succeeded but yielded no usable
// identifier, which is fatal for the operation: there is no other way to
// recover the id.
var ErrEventMissing = errors.New("expected event missing from receipt")

// Registry binds the on-chain pages contract: the pointer from page
// identifiers to document content ids, plus the reserved-name layer.
type Registry struct {
	client *chain.Client
	addr   common.Address
	abi    abi.ABI
	log    zerolog.Logger
}

// New parses the contract interface and binds it to an address.
func New(client *chain.Client, addr common.Address, log zerolog.Logger) (*Registry, error) {
	parsed, err := abi.JSON(strings.NewReader(pagesABI))
	if err != nil {
		return nil, errors.Wrap(err, "parsing pages contract interface")
	}
	return &Registry{
		client: client,
		addr:   addr,
		abi:    parsed,
		log:    log.With().Str("component", "registry").Str("contract", addr.Hex()).Logger(),
	}, nil
}

func (r *Registry) read(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "packing %s", method)
	}
	out, err := r.client.ReadCallRaw(ctx, r.addr, data)
	if err != nil {
		return nil, err
	}
	values, err := r.abi.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "unpacking %s", method)
	}
	return values, nil
}

func (r *Registry) write(ctx context.Context, signer chain.Signer, value *big.Int, method string, args ...any) (common.Hash, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "packing %s", method)
	}
	return r.client.SendRaw(ctx, signer, r.addr, data, value)
}

// CreatePage broadcasts a pointer creation for a contract address and
// document content reference. The new page id arrives in the receipt's
// PageCreated event, extracted separately once confirmed.
func (r *Registry) CreatePage(ctx context.Context, signer chain.Signer, contract common.Address, contentRef string) (common.Hash, error) {
	return r.write(ctx, signer, nil, "createPage", contract, []byte(contentRef))
}

// UpdateContentHash points an existing page at a new document version.
func (r *Registry) UpdateContentHash(ctx context.Context, signer chain.Signer, pageID common.Hash, contentRef string) (common.Hash, error) {
	return r.write(ctx, signer, nil, "updatePageContentHash", pageID, []byte(contentRef))
}

// DestroyPage removes the on-chain pointer.
func (r *Registry) DestroyPage(ctx context.Context, signer chain.Signer, pageID common.Hash) (common.Hash, error) {
	return r.write(ctx, signer, nil, "destroyPage", pageID)
}

// ReserveName maps a human-readable name to a page id for a number of
// months, attaching payment when one is given.
func (r *Registry) ReserveName(ctx context.Context, signer chain.Signer, pageID common.Hash, name string, months int64, payment *big.Int) (common.Hash, error) {
	return r.write(ctx, signer, payment, "reserveName", pageID, name, big.NewInt(months))
}

// ReleaseName removes a page's reserved name mapping.
func (r *Registry) ReleaseName(ctx context.Context, signer chain.Signer, pageID common.Hash) (common.Hash, error) {
	return r.write(ctx, signer, nil, "releaseName", pageID)
}

// Donate sends a voluntary contribution to the registry contract.
func (r *Registry) Donate(ctx context.Context, signer chain.Signer, amount *big.Int) (common.Hash, error) {
	return r.write(ctx, signer, amount, "donate")
}

// WaitForReceipt delegates to the chain client's bounded wait.
func (r *Registry) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return r.client.WaitForReceipt(ctx, txHash)
}

// PageIDFromReceipt pulls the new page identifier out of a confirmed
// creation receipt. A receipt without the event is ErrEventMissing, which
// is distinct from a reverted transaction.
func (r *Registry) PageIDFromReceipt(receipt *types.Receipt) (common.Hash, error) {
	return PageIDFromLogs(r.abi, r.addr, receipt.Logs)
}

// PageIDFromLogs scans logs for the registry's PageCreated event.
func PageIDFromLogs(parsed abi.ABI, registryAddr common.Address, logs []*types.Log) (common.Hash, error) {
	event, ok := parsed.Events["PageCreated"]
	if !ok {
		return common.Hash{}, errors.New("interface has no PageCreated event")
	}
	for _, l := range logs {
		if l.Address != registryAddr || len(l.Topics) < 2 || l.Topics[0] != event.ID {
			continue
		}
		return l.Topics[1], nil
	}
	return common.Hash{}, ErrEventMissing
}

// ContentHash resolves a page id to its document content reference.
func (r *Registry) ContentHash(ctx context.Context, pageID common.Hash) (string, error) {
	values, err := r.read(ctx, "pageContentHashes", pageID)
	if err != nil {
		return "", err
	}
	raw, ok := values[0].([]byte)
	if !ok {
		return "", errors.Newf("unexpected content hash shape %T", values[0])
	}
	return string(raw), nil
}

// PageContract resolves a page id to the contract the page fronts.
func (r *Registry) PageContract(ctx context.Context, pageID common.Hash) (common.Address, error) {
	values, err := r.read(ctx, "pageContractAddresses", pageID)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Newf("unexpected address shape %T", values[0])
	}
	return addr, nil
}

// ReservedPageID resolves a reserved name. The zero hash means the name
// is unmapped, hence available.
func (r *Registry) ReservedPageID(ctx context.Context, name string) (common.Hash, error) {
	values, err := r.read(ctx, "getReservedName", name)
	if err != nil {
		return common.Hash{}, err
	}
	id, ok := values[0].([32]byte)
	if !ok {
		return common.Hash{}, errors.Newf("unexpected page id shape %T", values[0])
	}
	return common.Hash(id), nil
}

// ReservationCost quotes the chain-computed price for a name and duration.
func (r *Registry) ReservationCost(ctx context.Context, months int64, name string) (*big.Int, error) {
	values, err := r.read(ctx, "calculateReservationCost", big.NewInt(months), name)
	if err != nil {
		return nil, err
	}
	cost, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Newf("unexpected cost shape %T", values[0])
	}
	return cost, nil
}

// ShortNameThreshold reads the chain-configured premium length cutoff.
func (r *Registry) ShortNameThreshold(ctx context.Context) (int, error) {
	values, err := r.read(ctx, "shortNameThreshold")
	if err != nil {
		return 0, err
	}
	threshold, ok := values[0].(*big.Int)
	if !ok {
		return 0, errors.Newf("unexpected threshold shape %T", values[0])
	}
	return int(threshold.Int64()), nil
}

// Owner reads the registry's privileged administrator account.
func (r *Registry) Owner(ctx context.Context) (common.Address, error) {
	values, err := r.read(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	owner, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Newf("unexpected owner shape %T", values[0])
	}
	return owner, nil
}
