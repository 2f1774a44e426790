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

// ScanBuilder builds a scan request.
type ScanBuilder struct {
	request
	api   Scanner
	input dynamodb.ScanInput
}

func newScan(api Scanner, r request, table string) *ScanBuilder {
	b := &ScanBuilder{request: r, api: api}
	b.input.TableName = r.name(table)
	return b
}

// Filter sets the filter expression and merges its placeholders.
func (b *ScanBuilder) Filter(expr string, values map[string]any, names map[string]string) *ScanBuilder {
	b.input.FilterExpression = aws.String(expr)
	b.merge(b.placeholders(), values, names)
	return b
}

// Projection sets the attributes to fetch. Names may be nil.
func (b *ScanBuilder) Projection(expr string, names map[string]string) *ScanBuilder {
	b.input.ProjectionExpression = aws.String(expr)
	b.merge(b.placeholders(), nil, names)
	return b
}

// WithExpression applies the filter and projection of an expression built
// with the expression package.
func (b *ScanBuilder) WithExpression(expr expression.Expression) *ScanBuilder {
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
func (b *ScanBuilder) Select(val string) *ScanBuilder {
	b.input.Select = selectValue(val)
	return b
}

// ConsistentRead requests a strongly consistent read.
func (b *ScanBuilder) ConsistentRead(consistent bool) *ScanBuilder {
	b.input.ConsistentRead = aws.Bool(consistent)
	return b
}

// IndexName scans a secondary index. The table prefix is applied.
func (b *ScanBuilder) IndexName(name string) *ScanBuilder {
	b.input.IndexName = b.name(name)
	return b
}

// ExclusiveStartKey sets the key to continue from.
func (b *ScanBuilder) ExclusiveStartKey(key map[string]any) *ScanBuilder {
	b.input.ExclusiveStartKey = b.marshalMap(key)
	return b
}

// StartFromToken sets the key to continue from using an opaque token.
func (b *ScanBuilder) StartFromToken(ctx context.Context, token string, provider StartKeyProvider) *ScanBuilder {
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
func (b *ScanBuilder) Limit(limit int32) *ScanBuilder {
	b.input.Limit = aws.Int32(limit)
	return b
}

// Segment sets the segment this worker scans in a parallel scan.
func (b *ScanBuilder) Segment(segment int32) *ScanBuilder {
	b.input.Segment = aws.Int32(segment)
	return b
}

// TotalSegments sets the number of segments of a parallel scan.
func (b *ScanBuilder) TotalSegments(total int32) *ScanBuilder {
	b.input.TotalSegments = aws.Int32(total)
	return b
}

// ReturnConsumedCapacity sets the capacity reporting level: INDEXES, TOTAL or NONE.
func (b *ScanBuilder) ReturnConsumedCapacity(val string) *ScanBuilder {
	b.input.ReturnConsumedCapacity = types.ReturnConsumedCapacity(strings.ToUpper(val))
	return b
}

// Params returns a copy of the request input.
func (b *ScanBuilder) Params() (*dynamodb.ScanInput, error) {
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
func (b *ScanBuilder) Run(ctx context.Context, options ...func(*dynamodb.Options)) (*Result[*dynamodb.ScanOutput], error) {
	input, err := b.Params()
	if err != nil {
		return nil, err
	}
	out, err := execute(ctx, &b.request, "Scan", input.TableName, input, b.api.Scan, options)
	if err != nil {
		return nil, err
	}
	return adaptItems(out, out.Items, out.LastEvaluatedKey)
}

func (b *ScanBuilder) placeholders() placeholders {
	return placeholders{
		values: &b.input.ExpressionAttributeValues,
		names:  &b.input.ExpressionAttributeNames,
	}
}
