package canonical

import (
	"errors"
	"math"
	"reflect"

	"github.com/modelops/contracts"
)

// Value is a node in a canonical value tree: null, bool, integer, finite
// float, string, ordered sequence, or string-keyed mapping. Values are
// immutable once produced and safe for concurrent use.
type Value interface {
	isValue()
}

// Null is the canonical null value.
type Null struct{}

// Bool is a canonical boolean.
type Bool bool

// Int is a canonical signed integer.
type Int int64

// Uint is a canonical unsigned integer. It exists so that full-range
// uint64 values (e.g. seeds up to 2^64-1) encode without loss.
type Uint uint64

// Float is a canonical finite float. Constructing a Float from a
// non-finite float64 is a caller error; Encode rejects it.
type Float float64

// String is a canonical string.
type String string

// Array is an ordered sequence of canonical values. Input order is
// preserved exactly.
type Array []Value

// Object is a mapping of string keys to canonical values. Iteration
// order is irrelevant; encoding always sorts keys.
type Object map[string]Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Uint) isValue()   {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Scalar canonicalizes a single scalar value: bool, integer, finite
// float, or string. Containers, nil, and any other type fail with
// KindUnsupportedType; non-finite floats fail with KindNonFiniteValue.
func Scalar(v any) (Value, error) {
	const op = "canonical.Scalar"

	switch t := v.(type) {
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(t), nil
	case int16:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(t), nil
	case uint16:
		return Int(t), nil
	case uint32:
		return Int(t), nil
	case uint:
		return Uint(t), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return scalarFloat(op, float64(t))
	case float64:
		return scalarFloat(op, t)
	case string:
		return String(t), nil
	case Bool, Int, Uint, String:
		return t.(Value), nil
	case Float:
		return scalarFloat(op, float64(t))
	default:
		return nil, contracts.NewUnsupportedTypeError(op, v)
	}
}

func scalarFloat(op string, f float64) (Value, error) {
	if !isFinite(f) {
		return nil, contracts.NewNonFiniteValueError(op, f)
	}
	return Float(f), nil
}

// Canonicalize recursively normalizes an arbitrary JSON-like Go value
// into a canonical Value tree. Supported inputs are nil, scalars,
// slices/arrays (except []byte), string-keyed maps, and already-built
// Value trees. Anything else fails with KindUnsupportedType.
func Canonicalize(v any) (Value, error) {
	const op = "canonical.Canonicalize"

	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Null:
		return t, nil
	case Array:
		out := make(Array, len(t))
		for i, elem := range t {
			c, err := Canonicalize(elem)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case Object:
		out := make(Object, len(t))
		for k, elem := range t {
			c, err := Canonicalize(elem)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make(Array, len(t))
		for i, elem := range t {
			c, err := Canonicalize(elem)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(Object, len(t))
		for k, elem := range t {
			c, err := Canonicalize(elem)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []byte:
		// Raw bytes have no canonical JSON form; hash them directly via
		// digest.Sum instead.
		return nil, contracts.NewUnsupportedTypeError(op, v)
	}

	if c, err := Scalar(v); err == nil {
		return c, nil
	} else if isNonFinite(err) {
		return nil, err
	}

	return canonicalizeReflect(op, v)
}

// canonicalizeReflect handles typed slices and string-keyed maps
// (e.g. []string, map[string]float64) that the fast paths miss.
func canonicalizeReflect(op string, v any) (Value, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			c, err := Canonicalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, contracts.NewUnsupportedTypeError(op, v)
		}
		out := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			c, err := Canonicalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = c
		}
		return out, nil
	default:
		return nil, contracts.NewUnsupportedTypeError(op, v)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isNonFinite(err error) bool {
	var ce *contracts.ContractError
	if errors.As(err, &ce) {
		return ce.Kind == contracts.KindNonFiniteValue
	}
	return false
}
