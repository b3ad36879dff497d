package scan

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// erc1967ImplementationSlot is keccak256("eip1967.proxy.implementation") - 1.
var erc1967ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

// SlotReader is the narrow chain surface the proxy resolver needs.
type SlotReader interface {
	StorageSlot(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error)
	ReadCallRaw(ctx context.Context, addr common.Address, data []byte) ([]byte, error)
}

// implementationCallData is the 4-byte selector of implementation(),
// the pre-1967 proxy convention.
var implementationCallData = common.FromHex("0x5c60da1b")

// ResolveImplementation unwraps proxy contracts: first the ERC1967
// implementation slot, then a plain implementation() call, finally
// falling back to the given address when neither yields anything.
func ResolveImplementation(ctx context.Context, reader SlotReader, addr common.Address, log zerolog.Logger) common.Address {
	slot, err := reader.StorageSlot(ctx, addr, erc1967ImplementationSlot)
	if err == nil && slot != (common.Hash{}) {
		// The implementation address lives in the last 20 bytes of the word.
		impl := common.BytesToAddress(slot.Bytes())
		if impl != (common.Address{}) {
			log.Debug().Str("proxy", addr.Hex()).Str("implementation", impl.Hex()).Msg("Resolved ERC1967 implementation")
			return impl
		}
	}

	out, err := reader.ReadCallRaw(ctx, addr, implementationCallData)
	if err == nil && len(out) >= 32 {
		impl := common.BytesToAddress(out[len(out)-20:])
		if impl != (common.Address{}) {
			log.Debug().Str("proxy", addr.Hex()).Str("implementation", impl.Hex()).Msg("Resolved implementation() proxy")
			return impl
		}
	}

	return addr
}
