package attribute

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Marshal converts a native value into its wire representation.
//
// Slices are always encoded as lists of individually wrapped elements, and
// empty slices are encoded as NULL. Use MarshalPlaceholder to produce the
// homogeneous set types. Values already in wire form are returned unchanged.
func Marshal(value any) (types.AttributeValue, error) {
	return marshal("", value, false)
}

// MarshalPlaceholder converts an expression placeholder value into its wire
// representation. It behaves like Marshal, except that a top level slice whose
// elements are all strings, all numbers or all byte slices is encoded as the
// matching SS, NS or BS set.
func MarshalPlaceholder(value any) (types.AttributeValue, error) {
	return marshal("", value, true)
}

// MarshalMap converts a native map into a wire item.
func MarshalMap(m map[string]any) (Item, error) {
	return marshalEach(m, Marshal)
}

// MarshalPlaceholders converts a map of expression placeholder values
// (":year" -> 2015) into wire values with MarshalPlaceholder.
func MarshalPlaceholders(values map[string]any) (Item, error) {
	return marshalEach(values, MarshalPlaceholder)
}

func marshalEach(m map[string]any, fn func(any) (types.AttributeValue, error)) (Item, error) {
	item := make(Item, len(m))
	for _, key := range sortedKeys(m) {
		av, err := fn(m[key])
		if err != nil {
			return nil, prefixPath(err, key)
		}
		item[key] = av
	}
	return item, nil
}

func marshal(path string, value any, sets bool) (types.AttributeValue, error) {
	if av, ok := value.(types.AttributeValue); ok && wireTag(av) != TagNone {
		return av, nil
	}

	tag := Infer(value)
	value = deref(value)

	if n, ok := value.(json.Number); ok {
		return &types.AttributeValueMemberN{Value: n.String()}, nil
	}

	rv := reflect.ValueOf(value)
	if tag != TagBinary && tag != TagNull && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		return marshalSlice(path, rv, tag, sets)
	}

	switch tag {
	case TagNull:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case TagString:
		return &types.AttributeValueMemberS{Value: rv.String()}, nil
	case TagBool:
		return &types.AttributeValueMemberBOOL{Value: rv.Bool()}, nil
	case TagNumber:
		return &types.AttributeValueMemberN{Value: formatNumber(rv)}, nil
	case TagBinary:
		return &types.AttributeValueMemberB{Value: rv.Bytes()}, nil
	case TagMap:
		return marshalMap(path, rv)
	}
	return nil, &UnrepresentableValueError{Path: path, Value: value}
}

func marshalMap(path string, rv reflect.Value) (types.AttributeValue, error) {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	m := make(map[string]types.AttributeValue, len(keys))
	for _, key := range keys {
		name := key.String()
		av, err := marshal(joinPath(path, name), rv.MapIndex(key).Interface(), false)
		if err != nil {
			return nil, err
		}
		m[name] = av
	}
	return &types.AttributeValueMemberM{Value: m}, nil
}

func marshalSlice(path string, rv reflect.Value, tag Tag, sets bool) (types.AttributeValue, error) {
	if rv.Len() == 0 {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}

	list := make([]types.AttributeValue, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		av, err := marshal(indexPath(path, i), rv.Index(i).Interface(), false)
		if err != nil {
			return nil, err
		}
		list = append(list, av)
	}

	if !sets {
		return &types.AttributeValueMemberL{Value: list}, nil
	}

	switch tag {
	case TagStringSet:
		values := make([]string, 0, len(list))
		for _, av := range list {
			values = append(values, av.(*types.AttributeValueMemberS).Value)
		}
		return &types.AttributeValueMemberSS{Value: unique(values, identity)}, nil
	case TagNumberSet:
		values := make([]string, 0, len(list))
		for _, av := range list {
			values = append(values, av.(*types.AttributeValueMemberN).Value)
		}
		return &types.AttributeValueMemberNS{Value: unique(values, identity)}, nil
	case TagBinarySet:
		values := make([][]byte, 0, len(list))
		for _, av := range list {
			values = append(values, av.(*types.AttributeValueMemberB).Value)
		}
		return &types.AttributeValueMemberBS{Value: unique(values, func(b []byte) string { return string(b) })}, nil
	}
	return &types.AttributeValueMemberL{Value: list}, nil
}

// unique drops repeated set members, keeping the first occurrence. The store
// rejects sets with duplicates.
func unique[T any](values []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func identity(s string) string { return s }

func formatNumber(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	default:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
}

// deref follows pointers until it reaches a non-pointer value or nil.
func deref(value any) any {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func prefixPath(err error, key string) error {
	if e, ok := err.(*UnrepresentableValueError); ok {
		if e.Path == "" {
			e.Path = key
		} else if e.Path[0] == '[' {
			e.Path = key + e.Path
		} else {
			e.Path = key + "." + e.Path
		}
	}
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
