package dynammo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/nisimpson/dynammo/attribute"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// ErrNoPayload is returned when unmarshaling a result whose response carried
// no item payload.
var ErrNoPayload = errors.New("response has no item payload")

// Result holds the raw response of a request together with its deserialized
// payload. Only the payload field that matches the request kind is ever set,
// and it stays nil when the response did not include it. When the payload
// cannot be decoded, Run returns the Result with Raw set alongside the error.
type Result[T any] struct {
	// Raw is the untouched response returned by the client.
	Raw T
	// Attributes holds the returned attributes of put, update and delete
	// requests.
	Attributes map[string]any
	// Item holds the item returned by get requests.
	Item map[string]any
	// Items holds the items returned by query and scan requests.
	Items []map[string]any

	item    Item
	items   []Item
	lastKey Item
}

type payloadKey int

const (
	attributesKey payloadKey = iota
	itemKey
	itemsKey
)

// adaptItem lifts a single item payload through the deserializer. The result
// keeps the raw response even when the payload cannot be decoded.
func adaptItem[T any](raw T, key payloadKey, payload Item) (*Result[T], error) {
	result := &Result[T]{Raw: raw, item: payload}
	if payload == nil {
		return result, nil
	}
	value, err := attribute.UnmarshalMap(payload)
	if err != nil {
		return result, err
	}
	if key == attributesKey {
		result.Attributes = value
	} else {
		result.Item = value
	}
	return result, nil
}

// adaptItems lifts a list payload through the deserializer, preserving order.
func adaptItems[T any](raw T, payload []Item, lastKey Item) (*Result[T], error) {
	result := &Result[T]{Raw: raw, items: payload, lastKey: lastKey}
	if payload == nil {
		return result, nil
	}
	values, err := attribute.UnmarshalList(payload)
	if err != nil {
		return result, err
	}
	result.Items = values
	return result, nil
}

// Unmarshal decodes the single item payload into out using the attributevalue
// decoder.
func (r *Result[T]) Unmarshal(out any) error {
	if r.item == nil {
		return ErrNoPayload
	}
	return attributevalue.UnmarshalMap(r.item, out)
}

// UnmarshalItems decodes the item list payload into out, which must be a
// pointer to a slice.
func (r *Result[T]) UnmarshalItems(out any) error {
	if r.items == nil {
		return ErrNoPayload
	}
	return attributevalue.UnmarshalListOfMaps(r.items, out)
}

// HasNext reports whether the store returned a key to continue from.
func (r *Result[T]) HasNext() bool {
	return r.lastKey != nil
}

// LastEvaluatedKey returns the deserialized key to continue from, or nil when
// the last page was reached. It can be handed straight to ExclusiveStartKey.
func (r *Result[T]) LastEvaluatedKey() (map[string]any, error) {
	if r.lastKey == nil {
		return nil, nil
	}
	return attribute.UnmarshalMap(r.lastKey)
}

// LastStartToken converts the key to continue from into an opaque token.
// An empty token is returned on the last page.
func (r *Result[T]) LastStartToken(ctx context.Context, provider StartKeyTokenProvider) (string, error) {
	return GetStartKeyToken(ctx, provider, r.lastKey)
}

// execute sends the input unless a serialization error was recorded. Client
// errors are returned unchanged.
func execute[In, Out any](ctx context.Context, r *request, op string, table *string,
	input *In, call func(context.Context, *In, ...func(*dynamodb.Options)) (*Out, error),
	options []func(*dynamodb.Options)) (*Out, error) {
	if r.err != nil {
		return nil, r.err
	}

	log := r.logger.With(
		zap.String("operation", op),
		zap.Stringp("table", table),
		zap.String("request_id", ulid.Make().String()),
	)

	log.Debug("sending request")
	out, err := call(ctx, input, options...)
	if err != nil {
		log.Debug("request failed", zap.String("code", ErrorCode(err)), zap.Error(err))
		return nil, err
	}
	log.Debug("request completed")
	if out == nil {
		out = new(Out)
	}
	return out, nil
}
