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

// UpdateItemBuilder builds an update item request.
type UpdateItemBuilder struct {
	request
	api   Updater
	input dynamodb.UpdateItemInput
}

func newUpdateItem(api Updater, r request, table string) *UpdateItemBuilder {
	b := &UpdateItemBuilder{request: r, api: api}
	b.input.TableName = r.name(table)
	return b
}

// Key sets the primary key of the item to update.
func (b *UpdateItemBuilder) Key(key map[string]any) *UpdateItemBuilder {
	b.input.Key = b.marshalMap(key)
	return b
}

// Update sets the update expression and merges its placeholders.
func (b *UpdateItemBuilder) Update(expr string, values map[string]any, names map[string]string) *UpdateItemBuilder {
	b.input.UpdateExpression = aws.String(expr)
	b.merge(b.placeholders(), values, names)
	return b
}

// Condition sets the condition expression and merges its placeholders.
func (b *UpdateItemBuilder) Condition(expr string, values map[string]any, names map[string]string) *UpdateItemBuilder {
	b.input.ConditionExpression = aws.String(expr)
	b.merge(b.placeholders(), values, names)
	return b
}

// WithExpression applies the update and condition of an expression built with
// the expression package.
func (b *UpdateItemBuilder) WithExpression(expr expression.Expression) *UpdateItemBuilder {
	if update := expr.Update(); update != nil {
		b.input.UpdateExpression = update
	}
	if cond := expr.Condition(); cond != nil {
		b.input.ConditionExpression = cond
	}
	b.mergeExpression(b.placeholders(), expr)
	return b
}

// ReturnValues sets which item attributes are returned: NONE, ALL_OLD,
// UPDATED_OLD, ALL_NEW or UPDATED_NEW.
func (b *UpdateItemBuilder) ReturnValues(val string) *UpdateItemBuilder {
	b.input.ReturnValues = types.ReturnValue(strings.ToUpper(val))
	return b
}

// ReturnConsumedCapacity sets the capacity reporting level: INDEXES, TOTAL or NONE.
func (b *UpdateItemBuilder) ReturnConsumedCapacity(val string) *UpdateItemBuilder {
	b.input.ReturnConsumedCapacity = types.ReturnConsumedCapacity(strings.ToUpper(val))
	return b
}

// ReturnItemCollectionMetrics sets the collection metrics level: SIZE or NONE.
func (b *UpdateItemBuilder) ReturnItemCollectionMetrics(val string) *UpdateItemBuilder {
	b.input.ReturnItemCollectionMetrics = types.ReturnItemCollectionMetrics(strings.ToUpper(val))
	return b
}

// Params returns a copy of the request input.
func (b *UpdateItemBuilder) Params() (*dynamodb.UpdateItemInput, error) {
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
func (b *UpdateItemBuilder) Run(ctx context.Context, options ...func(*dynamodb.Options)) (*Result[*dynamodb.UpdateItemOutput], error) {
	input, err := b.Params()
	if err != nil {
		return nil, err
	}
	out, err := execute(ctx, &b.request, "UpdateItem", input.TableName, input, b.api.UpdateItem, options)
	if err != nil {
		return nil, err
	}
	return adaptItem(out, attributesKey, out.Attributes)
}

func (b *UpdateItemBuilder) placeholders() placeholders {
	return placeholders{
		values: &b.input.ExpressionAttributeValues,
		names:  &b.input.ExpressionAttributeNames,
	}
}
