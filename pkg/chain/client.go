package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// DefaultConfirmTimeout bounds receipt waits. A transaction may still land
// after the timeout; the wait gives up on its behalf, it does not cancel it.
const DefaultConfirmTimeout = 2 * time.Minute

// DefaultPollInterval is how often a pending receipt is re-checked.
const DefaultPollInterval = 2 * time.Second

// ErrConfirmTimeout marks a receipt wait that exceeded the bounded timeout.
var ErrConfirmTimeout = errors.New("timed out waiting for confirmation")

// Client wraps an RPC connection with the typed read/write surface the
// page engine needs. One client serves one chain.
type Client struct {
	eth            *ethclient.Client
	chainID        *big.Int
	confirmTimeout time.Duration
	pollInterval   time.Duration
	log            zerolog.Logger
}

// Option adjusts client behavior.
type Option func(*Client)

// WithConfirmTimeout overrides the bounded confirmation wait.
func WithConfirmTimeout(d time.Duration) Option {
	return func(c *Client) { c.confirmTimeout = d }
}

// WithPollInterval overrides the receipt polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// Dial connects to an RPC endpoint and reads its chain id.
func Dial(ctx context.Context, rpcURL string, log zerolog.Logger, opts ...Option) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", rpcURL)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading chain id")
	}
	c := &Client{
		eth:            eth,
		chainID:        chainID,
		confirmTimeout: DefaultConfirmTimeout,
		pollInterval:   DefaultPollInterval,
		log:            log.With().Str("component", "chain").Str("chainId", chainID.String()).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// ChainID returns the connected chain's id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Code returns the deployed bytecode at an address. Empty code means no
// contract lives there.
func (c *Client) Code(ctx context.Context, addr common.Address) ([]byte, error) {
	code, err := c.eth.CodeAt(ctx, addr, nil)
	return code, errors.Wrapf(err, "reading code at %s", addr.Hex())
}

// ContractExists reports whether an address holds deployed code.
func (c *Client) ContractExists(ctx context.Context, addr common.Address) (bool, error) {
	code, err := c.Code(ctx, addr)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}

// StorageSlot reads a raw storage word.
func (c *Client) StorageSlot(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	word, err := c.eth.StorageAt(ctx, addr, slot, nil)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "reading storage slot at %s", addr.Hex())
	}
	return common.BytesToHash(word), nil
}

// ReadCallRaw executes a free read with pre-packed calldata.
func (c *Client) ReadCallRaw(ctx context.Context, addr common.Address, data []byte) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, classifyCallError(err)
	}
	return out, nil
}

// SendRaw simulates packed calldata from the signer's account, then signs
// and broadcasts it. The simulation runs first so a reverting call never
// costs gas.
func (c *Client) SendRaw(ctx context.Context, signer Signer, addr common.Address, data []byte, value *big.Int) (common.Hash, error) {
	from := signer.Address()
	msg := ethereum.CallMsg{From: from, To: &addr, Data: data, Value: value}

	if _, err := c.eth.CallContract(ctx, msg, nil); err != nil {
		return common.Hash{}, classifyCallError(err)
	}

	gas, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return common.Hash{}, classifyCallError(err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "suggesting gas price")
	}
	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "reading nonce")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &addr,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := signer.SignTx(tx, c.chainID)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "signing transaction")
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, classifyCallError(err)
	}

	c.log.Info().Str("txHash", signed.Hash().Hex()).Str("to", addr.Hex()).Msg("Broadcast transaction")
	return signed.Hash(), nil
}

// WaitForReceipt polls for a transaction receipt until the bounded
// confirmation timeout elapses. Once broadcast, a transaction cannot be
// aborted; a timeout here only stops the wait.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, errors.Newf("transaction %s reverted", txHash.Hex())
			}
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			c.log.Debug().Err(err).Str("txHash", txHash.Hex()).Msg("Receipt poll failed, retrying")
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ErrConfirmTimeout, "transaction %s", txHash.Hex())
		case <-ticker.C:
		}
	}
}
