package codec

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
)

// EncodeError reports that a raw input string could not be coerced to its
// declared parameter type. It is reported per field and never aborts the
// rest of a form.
type EncodeError struct {
	Type string
	Raw  string
	Msg  string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode %q as %s: %s", e.Raw, e.Type, e.Msg)
}

func encodeErr(typ, raw, msg string) error {
	return &EncodeError{Type: typ, Raw: raw, Msg: msg}
}

// Encode converts a declared ABI parameter type and a user-supplied raw
// string into the runtime value a contract call requires. Values come back
// in the shapes go-ethereum's argument packer accepts: native sized
// integers for 8/16/32/64-bit widths and *big.Int for every other width,
// common.Address for addresses, [N]byte arrays for fixed byte types,
// []byte for dynamic bytes and typed slices for array types.
//
// Empty input is always legal: integers become zero, addresses become the
// zero address, bytes become empty. Unknown declared types fall through
// with the raw string unchanged so callers can still attempt the call.
func Encode(declaredType, raw string) (any, error) {
	switch {
	case strings.HasSuffix(declaredType, "[]"):
		return encodeSlice(declaredType, raw)
	case isIntegerType(declaredType):
		return encodeInteger(declaredType, raw)
	case declaredType == "bool":
		return strings.ToLower(raw) == "true", nil
	case declaredType == "address":
		if raw == "" {
			return common.Address{}, nil
		}
		// Pass-through, no checksum validation at this layer.
		return common.HexToAddress(raw), nil
	case declaredType == "string":
		return raw, nil
	case declaredType == "bytes":
		return encodeDynamicBytes(raw)
	case strings.HasPrefix(declaredType, "bytes"):
		return encodeFixedBytes(declaredType, raw)
	default:
		// Last-resort fallback, calls with unrecognized types are best effort.
		return raw, nil
	}
}

func isIntegerType(typ string) bool {
	base := strings.TrimPrefix(typ, "u")
	if !strings.HasPrefix(base, "int") {
		return false
	}
	width := strings.TrimPrefix(base, "int")
	if width == "" {
		return true
	}
	_, err := strconv.Atoi(width)
	return err == nil
}

func encodeInteger(typ, raw string) (any, error) {
	v := big.NewInt(0)
	if raw != "" {
		trimmed := strings.TrimSpace(raw)
		base := 10
		digits := trimmed
		negative := strings.HasPrefix(digits, "-")
		if negative {
			digits = digits[1:]
		}
		if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
			base = 16
			digits = digits[2:]
		}
		var ok bool
		v, ok = new(big.Int).SetString(digits, base)
		if !ok {
			return nil, encodeErr(typ, raw, "not an integer")
		}
		if negative {
			v.Neg(v)
		}
	}
	return sizedInteger(typ, raw, v)
}

// sizedInteger narrows the parsed value to the declared width's runtime
// type. The argument packer takes *big.Int only above 64 bits; the widths
// with an exact native Go counterpart (8, 16, 32, 64) must arrive as that
// type, while in-between widths like uint24 still pack as *big.Int.
func sizedInteger(typ, raw string, v *big.Int) (any, error) {
	unsigned := strings.HasPrefix(typ, "u")
	width := 256
	if digits := strings.TrimPrefix(strings.TrimPrefix(typ, "u"), "int"); digits != "" {
		width, _ = strconv.Atoi(digits)
	}
	switch width {
	case 8, 16, 32, 64:
	default:
		return v, nil
	}

	if unsigned {
		if v.Sign() < 0 || v.BitLen() > width {
			return nil, encodeErr(typ, raw, fmt.Sprintf("out of range for %d-bit unsigned", width))
		}
		u := v.Uint64()
		switch width {
		case 8:
			return uint8(u), nil
		case 16:
			return uint16(u), nil
		case 32:
			return uint32(u), nil
		default:
			return u, nil
		}
	}

	if !v.IsInt64() {
		return nil, encodeErr(typ, raw, fmt.Sprintf("out of range for %d-bit signed", width))
	}
	i := v.Int64()
	if width < 64 {
		limit := int64(1) << (width - 1)
		if i < -limit || i >= limit {
			return nil, encodeErr(typ, raw, fmt.Sprintf("out of range for %d-bit signed", width))
		}
	}
	switch width {
	case 8:
		return int8(i), nil
	case 16:
		return int16(i), nil
	case 32:
		return int32(i), nil
	default:
		return i, nil
	}
}

func encodeDynamicBytes(raw string) (any, error) {
	if raw == "" {
		return []byte{}, nil
	}
	payload := strings.TrimPrefix(raw, "0x")
	b, err := hex.DecodeString(payload)
	if err != nil {
		return nil, encodeErr("bytes", raw, "invalid hex payload")
	}
	return b, nil
}

// encodeFixedBytes right-pads the hex payload with zeros to the declared
// byte width, so "ab" as bytes32 becomes 0xab00...00 (64 hex digits).
func encodeFixedBytes(typ, raw string) (any, error) {
	width, err := strconv.Atoi(strings.TrimPrefix(typ, "bytes"))
	if err != nil || width < 1 || width > 32 {
		return raw, nil
	}
	payload := strings.TrimPrefix(raw, "0x")
	if len(payload) > width*2 {
		return nil, encodeErr(typ, raw, "payload longer than declared width")
	}
	padded := payload + strings.Repeat("0", width*2-len(payload))
	decoded, err := hex.DecodeString(padded)
	if err != nil {
		return nil, encodeErr(typ, raw, "invalid hex payload")
	}
	arr := reflect.New(reflect.ArrayOf(width, reflect.TypeOf(byte(0)))).Elem()
	reflect.Copy(arr, reflect.ValueOf(decoded))
	return arr.Interface(), nil
}

// encodeSlice splits on commas and recursively encodes each element against
// the element type. The recursion is depth-agnostic so nested array types
// work without special casing.
func encodeSlice(typ, raw string) (any, error) {
	elemType := strings.TrimSuffix(typ, "[]")

	// The element's zero value decides the concrete slice type.
	zero, err := Encode(elemType, "")
	if err != nil {
		return nil, errors.Wrapf(err, "deriving element type for %s", typ)
	}
	slice := reflect.MakeSlice(reflect.SliceOf(reflect.TypeOf(zero)), 0, 0)

	if strings.TrimSpace(raw) == "" {
		return slice.Interface(), nil
	}
	for _, part := range strings.Split(raw, ",") {
		v, err := Encode(elemType, strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		slice = reflect.Append(slice, reflect.ValueOf(v))
	}
	return slice.Interface(), nil
}
