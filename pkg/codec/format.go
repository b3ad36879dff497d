package codec

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
)

// Format renders a call result in its natural string form. This is
// intentionally lossy: results are shown to people, not round-tripped.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *big.Int:
		return val.String()
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case []byte:
		return hexutil.Encode(val)
	case bool:
		return fmt.Sprintf("%t", val)
	case string:
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
	case reflect.Slice:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, Format(rv.Index(i).Interface()))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", v)
}

// ParseEther converts an ether-denominated decimal string into wei.
// Page authors type native-currency amounts as plain decimals.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return big.NewInt(0), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.Newf("invalid ether amount %q", s)
	}
	wei := new(big.Rat).Mul(r, new(big.Rat).SetInt(big.NewInt(params.Ether)))
	if !wei.IsInt() {
		// More precision than wei can carry, truncate.
		return new(big.Int).Quo(wei.Num(), wei.Denom()), nil
	}
	return wei.Num(), nil
}
