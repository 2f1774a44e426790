package attribute_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nisimpson/dynammo/attribute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	type testcase struct {
		name  string
		value types.AttributeValue
		want  any
	}

	unknown := &types.UnknownUnionMember{Tag: "X", Value: []byte("raw")}

	for _, tc := range []testcase{
		{name: "integer", value: &types.AttributeValueMemberN{Value: "2015"}, want: int64(2015)},
		{name: "float", value: &types.AttributeValueMemberN{Value: "8.5"}, want: 8.5},
		{name: "string", value: &types.AttributeValueMemberS{Value: "X"}, want: "X"},
		{name: "bool", value: &types.AttributeValueMemberBOOL{Value: true}, want: true},
		{name: "null", value: &types.AttributeValueMemberNULL{Value: true}, want: nil},
		{name: "binary", value: &types.AttributeValueMemberB{Value: []byte("b")}, want: []byte("b")},
		{name: "string set", value: &types.AttributeValueMemberSS{Value: []string{"a"}}, want: []string{"a"}},
		{name: "binary set", value: &types.AttributeValueMemberBS{Value: [][]byte{{1}}}, want: [][]byte{{1}}},
		{
			name:  "number set keeps order",
			value: &types.AttributeValueMemberNS{Value: []string{"3", "1.5", "2"}},
			want:  []any{int64(3), 1.5, int64(2)},
		},
		{
			name: "list",
			value: &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: "a"},
				&types.AttributeValueMemberN{Value: "1"},
			}},
			want: []any{"a", int64(1)},
		},
		{name: "unknown member passes through", value: unknown, want: unknown},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := attribute.Unmarshal(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("malformed number", func(t *testing.T) {
		_, err := attribute.UnmarshalMap(attribute.Item{
			"score": &types.AttributeValueMemberN{Value: "ten"},
		})
		assert.ErrorIs(t, err, attribute.ErrMalformed)

		var target *attribute.MalformedValueError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "score", target.Path)
		assert.Equal(t, attribute.TagNumber, target.Tag)
	})
}

// Nested maps are converted recursively rather than handed back as raw
// attribute values.
func TestUnmarshalMapIsRecursive(t *testing.T) {
	got, err := attribute.UnmarshalMap(attribute.Item{
		"info": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"rating": &types.AttributeValueMemberN{Value: "7"},
			"plot":   &types.AttributeValueMemberS{Value: "..."},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"info": map[string]any{"rating": int64(7), "plot": "..."},
	}, got)
}

func TestUnmarshalList(t *testing.T) {
	got, err := attribute.UnmarshalList([]attribute.Item{
		{"year": &types.AttributeValueMemberN{Value: "2015"}},
		{"year": &types.AttributeValueMemberN{Value: "2016"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"year": int64(2015)}, {"year": int64(2016)}}, got)

	_, err = attribute.UnmarshalList([]attribute.Item{
		{"year": &types.AttributeValueMemberN{Value: "x"}},
	})
	var target *attribute.MalformedValueError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "[0].year", target.Path)
}

func TestRoundTrip(t *testing.T) {
	in := map[string]any{
		"year":   2015,
		"title":  "The Force Awakens",
		"score":  8.5,
		"active": true,
		"genres": []any{"Science fiction", "Action"},
		"info":   map[string]any{"rank": 2},
	}

	item, err := attribute.MarshalMap(in)
	require.NoError(t, err)

	out, err := attribute.UnmarshalMap(item)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"year":   int64(2015),
		"title":  "The Force Awakens",
		"score":  8.5,
		"active": true,
		"genres": []any{"Science fiction", "Action"},
		"info":   map[string]any{"rank": int64(2)},
	}, out)
}
