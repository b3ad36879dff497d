package scan

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pagecast/pagecast/pkg/page"
)

// RawItem is one entry of a raw interface description as returned by the
// interface source. Events, errors and constructors share the shape.
type RawItem struct {
	Type            string       `json:"type"`
	Name            string       `json:"name"`
	Inputs          []page.Param `json:"inputs"`
	Outputs         []page.Param `json:"outputs"`
	StateMutability string       `json:"stateMutability"`
}

// Normalize turns a raw interface description into the orderable callable
// item list. Non-callable entries (events, errors, constructors) are
// dropped. The result is deterministic: the same raw interface always
// produces the same ids and selectors, and overloads that share a name but
// differ in parameter types get distinct ids.
//
// An empty result means the contract has no callable entries or was not
// found upstream; callers distinguish the two through the source's
// not-found error, never through this function.
func Normalize(raw []RawItem) []*page.CallableItem {
	items := make([]*page.CallableItem, 0, len(raw))
	for _, r := range raw {
		if r.Type != "function" {
			continue
		}
		items = append(items, &page.CallableItem{
			Kind:       page.KindCallable,
			ID:         ItemID(r.Name, r.Inputs),
			Selector:   Selector(r.Name, r.Inputs),
			Name:       r.Name,
			Inputs:     r.Inputs,
			Outputs:    r.Outputs,
			Mutability: r.StateMutability,
			Selected:   false,
		})
	}
	return items
}

// ItemID derives the reproducible item id from the entry name and its
// ordered (name, type) parameter pairs. Parameter names are included so
// the id is human-scannable; reproducibility across fetches comes from the
// source reporting the same parameter names every time.
func ItemID(name string, inputs []page.Param) string {
	pairs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		pairs = append(pairs, fmt.Sprintf("%s %s", in.Name, in.Type))
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(pairs, ","))
}

// Selector hashes the canonical name(type,type,...) signature, parameter
// names excluded, and returns the 4-byte dispatch fingerprint. Cosmetic
// renaming of the display name never touches it.
func Selector(name string, inputs []page.Param) string {
	types := make([]string, 0, len(inputs))
	for _, in := range inputs {
		types = append(types, in.Type)
	}
	canonical := fmt.Sprintf("%s(%s)", name, strings.Join(types, ","))
	return hexutil.Encode(crypto.Keccak256([]byte(canonical))[:4])
}
