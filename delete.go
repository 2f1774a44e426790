package dynammo

import (
	"context"
	"maps"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DeleteItemBuilder builds a delete item request.
type DeleteItemBuilder struct {
	request
	api   Deleter
	input dynamodb.DeleteItemInput
}

func newDeleteItem(api Deleter, r request, table string) *DeleteItemBuilder {
	b := &DeleteItemBuilder{request: r, api: api}
	b.input.TableName = r.name(table)
	return b
}

// Key sets the primary key of the item to delete.
func (b *DeleteItemBuilder) Key(key map[string]any) *DeleteItemBuilder {
	b.input.Key = b.marshalMap(key)
	return b
}

// Condition sets the condition expression and merges its placeholders.
func (b *DeleteItemBuilder) Condition(expr string, values map[string]any, names map[string]string) *DeleteItemBuilder {
	b.input.ConditionExpression = aws.String(expr)
	b.merge(b.placeholders(), values, names)
	return b
}

// WithExpression applies the condition of an expression built with the
// expression package.
func (b *DeleteItemBuilder) WithExpression(expr expression.Expression) *DeleteItemBuilder {
	if cond := expr.Condition(); cond != nil {
		b.input.ConditionExpression = cond
	}
	b.mergeExpression(b.placeholders(), expr)
	return b
}

// ReturnValues sets which item attributes are returned: NONE or ALL_OLD.
func (b *DeleteItemBuilder) ReturnValues(val string) *DeleteItemBuilder {
	b.input.ReturnValues = types.ReturnValue(strings.ToUpper(val))
	return b
}

// ReturnConsumedCapacity sets the capacity reporting level: INDEXES, TOTAL or NONE.
func (b *DeleteItemBuilder) ReturnConsumedCapacity(val string) *DeleteItemBuilder {
	b.input.ReturnConsumedCapacity = types.ReturnConsumedCapacity(strings.ToUpper(val))
	return b
}

// ReturnItemCollectionMetrics sets the collection metrics level: SIZE or NONE.
func (b *DeleteItemBuilder) ReturnItemCollectionMetrics(val string) *DeleteItemBuilder {
	b.input.ReturnItemCollectionMetrics = types.ReturnItemCollectionMetrics(strings.ToUpper(val))
	return b
}

// Params returns a copy of the request input.
func (b *DeleteItemBuilder) Params() (*dynamodb.DeleteItemInput, error) {
	if b.err != nil {
		return nil, b.err
	}
	input := b.input
	input.Key = maps.Clone(input.Key)
	input.ExpressionAttributeValues = maps.Clone(input.ExpressionAttributeValues)
	input.ExpressionAttributeNames = maps.Clone(input.ExpressionAttributeNames)
	return &input, nil
}

// Run sends the request. The returned attributes, if any, are exposed as
// Result.Attributes.
func (b *DeleteItemBuilder) Run(ctx context.Context, options ...func(*dynamodb.Options)) (*Result[*dynamodb.DeleteItemOutput], error) {
	input, err := b.Params()
	if err != nil {
		return nil, err
	}
	out, err := execute(ctx, &b.request, "DeleteItem", input.TableName, input, b.api.DeleteItem, options)
	if err != nil {
		return nil, err
	}
	return adaptItem(out, attributesKey, out.Attributes)
}

func (b *DeleteItemBuilder) placeholders() placeholders {
	return placeholders{
		values: &b.input.ExpressionAttributeValues,
		names:  &b.input.ExpressionAttributeNames,
	}
}
