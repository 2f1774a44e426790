// Package attribute converts between native Go values and the DynamoDB
// attribute value wire format.
//
// Native values are strings, numbers, booleans, byte slices, nil, slices of
// native values and string-keyed maps of native values. Every other Go value
// is unrepresentable and is rejected before a request is built.
package attribute

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a single DynamoDB item in wire format.
type Item = map[string]types.AttributeValue

// Tag identifies the wire-level type of an attribute value.
type Tag string

const (
	TagNone      Tag = ""
	TagString    Tag = "S"
	TagNumber    Tag = "N"
	TagBinary    Tag = "B"
	TagBool      Tag = "BOOL"
	TagNull      Tag = "NULL"
	TagMap       Tag = "M"
	TagList      Tag = "L"
	TagStringSet Tag = "SS"
	TagNumberSet Tag = "NS"
	TagBinarySet Tag = "BS"
)

// IsSet reports whether the tag is one of the homogeneous set types.
func (t Tag) IsSet() bool {
	return t == TagStringSet || t == TagNumberSet || t == TagBinarySet
}

// setOf returns the set tag whose elements carry the provided scalar tag.
func setOf(t Tag) Tag {
	switch t {
	case TagString, TagNumber, TagBinary:
		return t + "S"
	default:
		return TagNone
	}
}

// Infer classifies a native value into a wire tag. TagNone is returned when
// the value cannot be represented on the wire.
//
// Empty slices infer to NULL since they carry no element type. Non-empty
// slices whose elements all share the S, N or B tag infer to the matching set
// tag; any other slice infers to L.
func Infer(value any) Tag {
	switch v := value.(type) {
	case nil:
		return TagNull
	case types.AttributeValue:
		return wireTag(v)
	case string:
		return TagString
	case bool:
		return TagBool
	case []byte:
		return TagBinary
	case json.Number:
		return TagNumber
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TagNumber
	case float32:
		return finite(float64(v))
	case float64:
		return finite(v)
	case []any:
		return inferSlice(len(v), func(i int) any { return v[i] })
	case map[string]any:
		return TagMap
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return TagString
	case reflect.Bool:
		return TagBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TagNumber
	case reflect.Float32, reflect.Float64:
		return finite(rv.Float())
	case reflect.Slice, reflect.Array:
		if isBytes(rv) {
			return TagBinary
		}
		return inferSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return TagMap
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return TagNull
		}
		return Infer(rv.Elem().Interface())
	}
	return TagNone
}

// wireTag reports the tag of a value that is already in wire form.
func wireTag(av types.AttributeValue) Tag {
	switch av.(type) {
	case *types.AttributeValueMemberS:
		return TagString
	case *types.AttributeValueMemberN:
		return TagNumber
	case *types.AttributeValueMemberB:
		return TagBinary
	case *types.AttributeValueMemberBOOL:
		return TagBool
	case *types.AttributeValueMemberNULL:
		return TagNull
	case *types.AttributeValueMemberM:
		return TagMap
	case *types.AttributeValueMemberL:
		return TagList
	case *types.AttributeValueMemberSS:
		return TagStringSet
	case *types.AttributeValueMemberNS:
		return TagNumberSet
	case *types.AttributeValueMemberBS:
		return TagBinarySet
	}
	return TagNone
}

func isBytes(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8
}

func finite(f float64) Tag {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return TagNone
	}
	return TagNumber
}

func inferSlice(n int, at func(int) any) Tag {
	if n == 0 {
		return TagNull
	}
	first := Infer(at(0))
	if first == TagNone {
		return TagNone
	}
	for i := 1; i < n; i++ {
		tag := Infer(at(i))
		if tag == TagNone {
			return TagNone
		}
		if tag != first {
			return TagList
		}
	}
	if set := setOf(first); set != TagNone {
		return set
	}
	return TagList
}
