package dynammo

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nisimpson/dynammo/attribute"
)

// placeholders points at the expression attribute maps of a request input.
// The maps stay nil until the first placeholder is merged so that requests
// without placeholders omit them entirely.
type placeholders struct {
	values *map[string]types.AttributeValue
	names  *map[string]string
}

// merge serializes the placeholder values and adds them, along with the
// placeholder names, to the request maps. Existing keys are overwritten.
func (r *request) merge(p placeholders, values map[string]any, names map[string]string) {
	if r.err != nil {
		return
	}
	if len(values) > 0 {
		item, err := attribute.MarshalPlaceholders(values)
		if err != nil {
			r.fail(err)
			return
		}
		mergeValues(p.values, item)
	}
	mergeNames(p.names, names)
}

// mergeExpression adds the already serialized placeholders of an expression
// built with the expression package.
func (r *request) mergeExpression(p placeholders, expr expression.Expression) {
	if r.err != nil {
		return
	}
	mergeValues(p.values, expr.Values())
	mergeNames(p.names, expr.Names())
}

func mergeValues(dst *map[string]types.AttributeValue, src map[string]types.AttributeValue) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]types.AttributeValue, len(src))
	}
	for k, v := range src {
		(*dst)[k] = v
	}
}

func mergeNames(dst *map[string]string, src map[string]string) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		(*dst)[k] = v
	}
}
