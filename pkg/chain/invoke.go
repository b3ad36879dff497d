package chain

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/pagecast/pagecast/pkg/codec"
	"github.com/pagecast/pagecast/pkg/page"
)

// arguments builds the packer for a parameter list.
func arguments(params []page.Param) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(params))
	for _, p := range params {
		typ, err := abi.NewType(p.Type, "", nil)
		if err != nil {
			return nil, errors.Wrapf(err, "unsupported parameter type %q", p.Type)
		}
		args = append(args, abi.Argument{Name: p.Name, Type: typ})
	}
	return args, nil
}

// PackCallData coerces the raw string arguments and packs them behind the
// item's stored selector. Dispatch goes through the selector, never the
// display name, so cosmetic renames cannot redirect a call.
func PackCallData(item *page.CallableItem, rawArgs []string) ([]byte, error) {
	if len(rawArgs) != len(item.Inputs) {
		return nil, errors.Newf("%s takes %d arguments, got %d", item.ID, len(item.Inputs), len(rawArgs))
	}

	values := make([]any, 0, len(item.Inputs))
	for i, input := range item.Inputs {
		v, err := codec.Encode(input.Type, rawArgs[i])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	args, err := arguments(item.Inputs)
	if err != nil {
		return nil, err
	}
	packed, err := args.Pack(values...)
	if err != nil {
		return nil, errors.Wrapf(err, "packing arguments for %s", item.ID)
	}

	selector, err := hexutil.Decode(item.Selector)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding selector for %s", item.ID)
	}
	return append(selector, packed...), nil
}

// UnpackResult decodes a read result against the item's declared outputs.
func UnpackResult(item *page.CallableItem, data []byte) ([]any, error) {
	args, err := arguments(item.Outputs)
	if err != nil {
		return nil, err
	}
	values, err := args.Unpack(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unpacking result of %s", item.ID)
	}
	return values, nil
}

// ReadCall invokes a view or pure entry with user-supplied raw arguments
// and returns the decoded output values.
func (c *Client) ReadCall(ctx context.Context, addr common.Address, item *page.CallableItem, rawArgs []string) ([]any, error) {
	if item.StateChanging() {
		return nil, errors.Newf("%s changes state and needs a signed transaction", item.ID)
	}
	data, err := PackCallData(item, rawArgs)
	if err != nil {
		return nil, err
	}
	out, err := c.ReadCallRaw(ctx, addr, data)
	if err != nil {
		return nil, err
	}
	return UnpackResult(item, out)
}

// SimulateAndSend invokes a state-changing entry: coerce, pack, simulate,
// sign and broadcast. The returned hash is available as soon as the
// transaction is accepted by the node; confirmation is a separate wait.
func (c *Client) SimulateAndSend(ctx context.Context, signer Signer, addr common.Address, item *page.CallableItem, rawArgs []string, value *big.Int) (common.Hash, error) {
	if !item.StateChanging() {
		return common.Hash{}, errors.Newf("%s is a free read, use ReadCall", item.ID)
	}
	if value != nil && value.Sign() > 0 && !item.Payable() {
		return common.Hash{}, errors.Newf("%s is not payable", item.ID)
	}
	data, err := PackCallData(item, rawArgs)
	if err != nil {
		return common.Hash{}, err
	}
	return c.SendRaw(ctx, signer, addr, data, value)
}
