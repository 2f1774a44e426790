package attribute

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UnmarshalMap converts a wire item into a native map. Nested maps and lists
// are converted recursively.
func UnmarshalMap(item Item) (map[string]any, error) {
	return unmarshalMap("", item)
}

// UnmarshalList converts a list of wire items into native maps, preserving
// order.
func UnmarshalList(items []Item) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, err := unmarshalMap(indexPath("", i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Unmarshal converts a single wire value into a native value.
//
// Numbers become int64 when they are integral and float64 otherwise. Members
// this package does not know about are returned unchanged so they survive a
// round trip back to the store.
func Unmarshal(av types.AttributeValue) (any, error) {
	return unmarshal("", av)
}

func unmarshalMap(path string, item Item) (map[string]any, error) {
	out := make(map[string]any, len(item))
	for key, av := range item {
		value, err := unmarshal(joinPath(path, key), av)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

func unmarshal(path string, av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return parseNumber(path, v.Value, TagNumber)
	case *types.AttributeValueMemberB:
		return v.Value, nil
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberSS:
		return v.Value, nil
	case *types.AttributeValueMemberBS:
		return v.Value, nil
	case *types.AttributeValueMemberNS:
		numbers := make([]any, 0, len(v.Value))
		for i, s := range v.Value {
			n, err := parseNumber(indexPath(path, i), s, TagNumberSet)
			if err != nil {
				return nil, err
			}
			numbers = append(numbers, n)
		}
		return numbers, nil
	case *types.AttributeValueMemberM:
		return unmarshalMap(path, v.Value)
	case *types.AttributeValueMemberL:
		list := make([]any, 0, len(v.Value))
		for i, elem := range v.Value {
			value, err := unmarshal(indexPath(path, i), elem)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	default:
		return av, nil
	}
}

func parseNumber(path, s string, tag Tag) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &MalformedValueError{Path: path, Tag: tag, Cause: err}
	}
	return f, nil
}
