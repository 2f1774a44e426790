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

// GetItemBuilder builds a get item request.
type GetItemBuilder struct {
	request
	api   Getter
	input dynamodb.GetItemInput
}

func newGetItem(api Getter, r request, table string) *GetItemBuilder {
	b := &GetItemBuilder{request: r, api: api}
	b.input.TableName = r.name(table)
	return b
}

// Key sets the primary key of the item to fetch.
func (b *GetItemBuilder) Key(key map[string]any) *GetItemBuilder {
	b.input.Key = b.marshalMap(key)
	return b
}

// Projection sets the attributes to fetch. Names aliases reserved words used
// by the expression and may be nil.
func (b *GetItemBuilder) Projection(expr string, names map[string]string) *GetItemBuilder {
	b.input.ProjectionExpression = aws.String(expr)
	mergeNames(&b.input.ExpressionAttributeNames, names)
	return b
}

// WithExpression applies the projection of an expression built with the
// expression package.
func (b *GetItemBuilder) WithExpression(expr expression.Expression) *GetItemBuilder {
	if proj := expr.Projection(); proj != nil {
		b.input.ProjectionExpression = proj
	}
	mergeNames(&b.input.ExpressionAttributeNames, expr.Names())
	return b
}

// ConsistentRead requests a strongly consistent read.
func (b *GetItemBuilder) ConsistentRead(consistent bool) *GetItemBuilder {
	b.input.ConsistentRead = aws.Bool(consistent)
	return b
}

// ReturnConsumedCapacity sets the capacity reporting level: INDEXES, TOTAL or NONE.
func (b *GetItemBuilder) ReturnConsumedCapacity(val string) *GetItemBuilder {
	b.input.ReturnConsumedCapacity = types.ReturnConsumedCapacity(strings.ToUpper(val))
	return b
}

// Params returns a copy of the request input.
func (b *GetItemBuilder) Params() (*dynamodb.GetItemInput, error) {
	if b.err != nil {
		return nil, b.err
	}
	input := b.input
	input.Key = maps.Clone(input.Key)
	input.ExpressionAttributeNames = maps.Clone(input.ExpressionAttributeNames)
	return &input, nil
}

// Run sends the request. The item, if found, is exposed as Result.Item.
func (b *GetItemBuilder) Run(ctx context.Context, options ...func(*dynamodb.Options)) (*Result[*dynamodb.GetItemOutput], error) {
	input, err := b.Params()
	if err != nil {
		return nil, err
	}
	out, err := execute(ctx, &b.request, "GetItem", input.TableName, input, b.api.GetItem, options)
	if err != nil {
		return nil, err
	}
	return adaptItem(out, itemKey, out.Item)
}
