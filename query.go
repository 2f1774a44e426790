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

// AllAttributes is the wildcard accepted by Select.
const AllAttributes = "*"

func selectValue(val string) types.Select {
	if val == AllAttributes {
		val = string(types.SelectAllAttributes)
	}
	return types.Select(strings.ToUpper(val))
}

// QueryBuilder builds a query request.
type QueryBuilder struct {
	request
	api   Querier
	input dynamodb.QueryInput
}

func newQuery(api Querier, r request, table string) *QueryBuilder {
	b := &QueryBuilder{request: r, api: api}
	b.input.TableName = r.name(table)
	return b
}

// Condition sets the key condition expression and merges its placeholders.
func (b *QueryBuilder) Condition(expr string, values map[string]any, names map[string]string) *QueryBuilder {
	b.input.KeyConditionExpression = aws.String(expr)
	b.merge(b.placeholders(), values, names)
	return b
}

// Filter sets the filter expression and merges its placeholders.
func (b *QueryBuilder) Filter(expr string, values map[string]any, names map[string]string) *QueryBuilder {
	b.input.FilterExpression = aws.String(expr)
	b.merge(b.placeholders(), values, names)
	return b
}

// Projection sets the attributes to fetch. Names may be nil.
func (b *QueryBuilder) Projection(expr string, names map[string]string) *QueryBuilder {
	b.input.ProjectionExpression = aws.String(expr)
	b.merge(b.placeholders(), nil, names)
	return b
}

// WithExpression applies the key condition, filter and projection of an
// expression built with the expression package.
func (b *QueryBuilder) WithExpression(expr expression.Expression) *QueryBuilder {
	if cond := expr.KeyCondition(); cond != nil {
		b.input.KeyConditionExpression = cond
	}
	if filter := expr.Filter(); filter != nil {
		b.input.FilterExpression = filter
	}
	if proj := expr.Projection(); proj != nil {
		b.input.ProjectionExpression = proj
	}
	b.mergeExpression(b.placeholders(), expr)
	return b
}

// Select sets the attributes returned: ALL_ATTRIBUTES (or "*"),
// ALL_PROJECTED_ATTRIBUTES, SPECIFIC_ATTRIBUTES or COUNT.
func (b *QueryBuilder) Select(val string) *QueryBuilder {
	b.input.Select = selectValue(val)
	return b
}

// ConsistentRead requests a strongly consistent read.
func (b *QueryBuilder) ConsistentRead(consistent bool) *QueryBuilder {
	b.input.ConsistentRead = aws.Bool(consistent)
	return b
}

// IndexName queries a secondary index. The table prefix is applied.
func (b *QueryBuilder) IndexName(name string) *QueryBuilder {
	b.input.IndexName = b.name(name)
	return b
}

// ExclusiveStartKey sets the key to continue from.
func (b *QueryBuilder) ExclusiveStartKey(key map[string]any) *QueryBuilder {
	b.input.ExclusiveStartKey = b.marshalMap(key)
	return b
}

// StartFromToken sets the key to continue from using an opaque token.
func (b *QueryBuilder) StartFromToken(ctx context.Context, token string, provider StartKeyProvider) *QueryBuilder {
	if b.err != nil {
		return b
	}
	key, err := GetStartKey(ctx, provider, token)
	if err != nil {
		b.fail(err)
		return b
	}
	b.input.ExclusiveStartKey = key
	return b
}

// Limit sets the maximum number of items to evaluate.
func (b *QueryBuilder) Limit(limit int32) *QueryBuilder {
	b.input.Limit = aws.Int32(limit)
	return b
}

// Forward sets the index traversal order; false reads in descending order.
func (b *QueryBuilder) Forward(forward bool) *QueryBuilder {
	b.input.ScanIndexForward = aws.Bool(forward)
	return b
}

// ReturnConsumedCapacity sets the capacity reporting level: INDEXES, TOTAL or NONE.
func (b *QueryBuilder) ReturnConsumedCapacity(val string) *QueryBuilder {
	b.input.ReturnConsumedCapacity = types.ReturnConsumedCapacity(strings.ToUpper(val))
	return b
}

// Params returns a copy of the request input.
func (b *QueryBuilder) Params() (*dynamodb.QueryInput, error) {
	if b.err != nil {
		return nil, b.err
	}
	input := b.input
	input.ExclusiveStartKey = maps.Clone(input.ExclusiveStartKey)
	input.ExpressionAttributeValues = maps.Clone(input.ExpressionAttributeValues)
	input.ExpressionAttributeNames = maps.Clone(input.ExpressionAttributeNames)
	return &input, nil
}

// Run sends the request. The matching items are exposed as Result.Items.
func (b *QueryBuilder) Run(ctx context.Context, options ...func(*dynamodb.Options)) (*Result[*dynamodb.QueryOutput], error) {
	input, err := b.Params()
	if err != nil {
		return nil, err
	}
	out, err := execute(ctx, &b.request, "Query", input.TableName, input, b.api.Query, options)
	if err != nil {
		return nil, err
	}
	return adaptItems(out, out.Items, out.LastEvaluatedKey)
}

func (b *QueryBuilder) placeholders() placeholders {
	return placeholders{
		values: &b.input.ExpressionAttributeValues,
		names:  &b.input.ExpressionAttributeNames,
	}
}
