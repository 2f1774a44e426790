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

// PutItemBuilder builds a put item request.
type PutItemBuilder struct {
	request
	api   Putter
	input dynamodb.PutItemInput
}

func newPutItem(api Putter, r request, table string) *PutItemBuilder {
	b := &PutItemBuilder{request: r, api: api}
	b.input.TableName = r.name(table)
	return b
}

// Item sets the item to write.
func (b *PutItemBuilder) Item(item map[string]any) *PutItemBuilder {
	b.input.Item = b.marshalMap(item)
	return b
}

// Condition sets the condition expression and merges its placeholders.
func (b *PutItemBuilder) Condition(expr string, values map[string]any, names map[string]string) *PutItemBuilder {
	b.input.ConditionExpression = aws.String(expr)
	b.merge(b.placeholders(), values, names)
	return b
}

// WithExpression applies the condition of an expression built with the
// expression package.
func (b *PutItemBuilder) WithExpression(expr expression.Expression) *PutItemBuilder {
	if cond := expr.Condition(); cond != nil {
		b.input.ConditionExpression = cond
	}
	b.mergeExpression(b.placeholders(), expr)
	return b
}

// ReturnValues sets which item attributes are returned: NONE or ALL_OLD.
func (b *PutItemBuilder) ReturnValues(val string) *PutItemBuilder {
	b.input.ReturnValues = types.ReturnValue(strings.ToUpper(val))
	return b
}

// ReturnConsumedCapacity sets the capacity reporting level: INDEXES, TOTAL or NONE.
func (b *PutItemBuilder) ReturnConsumedCapacity(val string) *PutItemBuilder {
	b.input.ReturnConsumedCapacity = types.ReturnConsumedCapacity(strings.ToUpper(val))
	return b
}

// ReturnItemCollectionMetrics sets the collection metrics level: SIZE or NONE.
func (b *PutItemBuilder) ReturnItemCollectionMetrics(val string) *PutItemBuilder {
	b.input.ReturnItemCollectionMetrics = types.ReturnItemCollectionMetrics(strings.ToUpper(val))
	return b
}

// Params returns a copy of the request input.
func (b *PutItemBuilder) Params() (*dynamodb.PutItemInput, error) {
	if b.err != nil {
		return nil, b.err
	}
	input := b.input
	input.Item = maps.Clone(input.Item)
	input.ExpressionAttributeValues = maps.Clone(input.ExpressionAttributeValues)
	input.ExpressionAttributeNames = maps.Clone(input.ExpressionAttributeNames)
	return &input, nil
}

// Run sends the request. The returned attributes, if any, are exposed as
// Result.Attributes.
func (b *PutItemBuilder) Run(ctx context.Context, options ...func(*dynamodb.Options)) (*Result[*dynamodb.PutItemOutput], error) {
	input, err := b.Params()
	if err != nil {
		return nil, err
	}
	out, err := execute(ctx, &b.request, "PutItem", input.TableName, input, b.api.PutItem, options)
	if err != nil {
		return nil, err
	}
	return adaptItem(out, attributesKey, out.Attributes)
}

func (b *PutItemBuilder) placeholders() placeholders {
	return placeholders{
		values: &b.input.ExpressionAttributeValues,
		names:  &b.input.ExpressionAttributeNames,
	}
}
