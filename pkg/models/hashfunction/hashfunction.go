package hashfunction

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/go-faster/city"
	"github.com/spaolacci/murmur3"
)

type HashFunctionType int

/* Pre-defined hash functions */
const (
	HashFunctionIdent  = HashFunctionType(0)
	HashFunctionMurmur = HashFunctionType(1)
	HashFunctionCity   = HashFunctionType(2)
)

var errUnknownValueType = func(v any, hf HashFunctionType) error {
	return fmt.Errorf("unknown type of value that the hash will be calculated from: %T for %s hash type", v, ToString(hf))
}

// EncodeUInt64 encodes integer sharding values before hashing so that
// equal numbers written as different SQL literals land on the same node.
func EncodeUInt64(input uint64) []byte {
	const ENCODING_BYTES_BIG = binary.MaxVarintLen64
	const ENCODING_BYTES = 8
	const BOUND = 1 << 56 /* 72057594037927936 */

	sz := ENCODING_BYTES
	if input >= BOUND {
		sz = ENCODING_BYTES_BIG
	}

	buf := make([]byte, sz)
	binary.PutUvarint(buf, input)
	return buf
}

func hashInput(input any, hf HashFunctionType) ([]byte, error) {
	switch v := input.(type) {
	case int64:
		return EncodeUInt64(uint64(v)), nil
	case uint64:
		return EncodeUInt64(v), nil
	case int:
		return EncodeUInt64(uint64(v)), nil
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return EncodeUInt64(uint64(n)), nil
		}
		return []byte(v), nil
	case []byte:
		if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return EncodeUInt64(uint64(n)), nil
		}
		return v, nil
	default:
		return nil, errUnknownValueType(input, hf)
	}
}

func ApplyMurmurHashFunction(input any) (uint32, error) {
	buf, err := hashInput(input, HashFunctionMurmur)
	if err != nil {
		return 0, err
	}
	return murmur3.Sum32(buf), nil
}

func ApplyCityHashFunction(input any) (uint32, error) {
	buf, err := hashInput(input, HashFunctionCity)
	if err != nil {
		return 0, err
	}
	return city.Hash32(buf), nil
}

// applyIdentity interprets the value as an unsigned number; strings must
// hold a decimal integer.
func applyIdentity(input any) (uint64, error) {
	switch v := input.(type) {
	case int64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case int:
		return uint64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("identity hash requires an integer sharding value, got %q", v)
		}
		return uint64(n), nil
	default:
		return 0, errUnknownValueType(input, HashFunctionIdent)
	}
}

// ApplyHashFunction returns the hash of a sharding value.
func ApplyHashFunction(input any, hf HashFunctionType) (uint64, error) {
	switch hf {
	case HashFunctionIdent:
		return applyIdentity(input)
	case HashFunctionMurmur:
		v, err := ApplyMurmurHashFunction(input)
		return uint64(v), err
	case HashFunctionCity:
		v, err := ApplyCityHashFunction(input)
		return uint64(v), err
	default:
		return 0, fmt.Errorf("unknown hash function type: %d", hf)
	}
}

// HashFunctionByName returns the corresponding HashFunctionType based on the given hash function name.
// It accepts a string parameter `hfn` representing the hash function name.
// It returns the corresponding HashFunctionType and an error if the hash function name is not recognized.
//
// Parameters:
//   - hfn: The name of the hash function.
//
// Returns:
//   - HashFunctionType: The corresponding HashFunctionType.
//   - error: An error if the hash function name is not recognized.
func HashFunctionByName(hfn string) (HashFunctionType, error) {
	switch hfn {
	case "identity", "ident", "mod", "":
		return HashFunctionIdent, nil
	case "murmur":
		return HashFunctionMurmur, nil
	case "city":
		return HashFunctionCity, nil
	default:
		return 0, fmt.Errorf("unknown hash function type: %s", hfn)
	}
}

// ToString converts a HashFunctionType to its corresponding string representation.
func ToString(hf HashFunctionType) string {
	switch hf {
	case HashFunctionIdent:
		return "identity"
	case HashFunctionMurmur:
		return "murmur"
	case HashFunctionCity:
		return "city"
	}
	return ""
}
