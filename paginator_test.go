package dynammo

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pageStore implements the put and get calls of API on an in-memory map.
type pageStore struct {
	API
	mock.Mock
	pages map[string]Item
}

func (s *pageStore) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.Called(*params.TableName)
	id := params.Item["id"].(*types.AttributeValueMemberS).Value
	s.pages[id] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (s *pageStore) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	s.Called(*params.TableName)
	id := params.Key["id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: s.pages[id]}, nil
}

func newPageStore() *pageStore {
	s := &pageStore{pages: map[string]Item{}}
	s.On("PutItem", "app_pages")
	s.On("GetItem", "app_pages")
	return s
}

func TestPaginator(t *testing.T) {
	ctx := context.Background()
	startKey := Item{
		"id":   &types.AttributeValueMemberS{Value: "tt0113277"},
		"year": &types.AttributeValueMemberN{Value: "1995"},
	}

	t.Run("round trips the start key", func(t *testing.T) {
		store := newPageStore()
		p := New(store, WithPrefix("app_")).Paginator("pages")

		token, err := p.GetStartKeyToken(ctx, startKey)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.NotContains(t, store.pages[token], pageExpiresAttribute)

		got, err := p.GetStartKey(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, startKey, got)
		store.AssertExpectations(t)
	})

	t.Run("keeps numbers beyond float precision", func(t *testing.T) {
		store := newPageStore()
		p := New(store, WithPrefix("app_")).Paginator("pages")
		key := Item{
			"id":    &types.AttributeValueMemberN{Value: "123456789012345678901234567890"},
			"score": &types.AttributeValueMemberN{Value: "0.12345678901234567890123456789"},
		}

		token, err := p.GetStartKeyToken(ctx, key)
		require.NoError(t, err)

		got, err := p.GetStartKey(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, key, got)
	})

	t.Run("skips empty keys and tokens", func(t *testing.T) {
		store := newPageStore()
		p := New(store).Paginator("pages")

		token, err := p.GetStartKeyToken(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, token)

		key, err := p.GetStartKey(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, key)
		store.AssertNotCalled(t, "PutItem", mock.Anything)
		store.AssertNotCalled(t, "GetItem", mock.Anything)
	})

	t.Run("unknown tokens restart from the first page", func(t *testing.T) {
		store := newPageStore()
		p := New(store, WithPrefix("app_")).Paginator("pages")

		key, err := p.GetStartKey(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
		require.NoError(t, err)
		assert.Nil(t, key)
	})

	t.Run("expired pages restart from the first page", func(t *testing.T) {
		store := newPageStore()
		now := time.Unix(1700000000, 0)
		p := New(store, WithPrefix("app_")).Paginator("pages")
		p.TTL = time.Hour
		p.now = func() time.Time { return now }

		token, err := p.GetStartKeyToken(ctx, startKey)
		require.NoError(t, err)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "1700003600"}, store.pages[token][pageExpiresAttribute])

		key, err := p.GetStartKey(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, startKey, key)

		now = now.Add(2 * time.Hour)
		key, err = p.GetStartKey(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, key)
	})
}

// tokenProvider records the calls made through the provider helpers.
type tokenProvider struct {
	mock.Mock
}

func (m *tokenProvider) GetStartKeyToken(ctx context.Context, startKey Item) (string, error) {
	args := m.Called(ctx, startKey)
	return args.String(0), args.Error(1)
}

func (m *tokenProvider) GetStartKey(ctx context.Context, token string) (Item, error) {
	args := m.Called(ctx, token)
	key, _ := args.Get(0).(Item)
	return key, args.Error(1)
}

func TestGetStartKeyToken(t *testing.T) {
	provider := &tokenProvider{}
	provider.On("GetStartKeyToken", mock.Anything, mock.Anything).Return("token", nil)

	startKey := Item{
		"id":   &types.AttributeValueMemberS{Value: "tt0111161"},
		"year": &types.AttributeValueMemberN{Value: "1994"},
	}

	token, err := GetStartKeyToken(context.Background(), provider, startKey)
	require.NoError(t, err)
	assert.Equal(t, "token", token)

	token, err = GetStartKeyToken(context.Background(), provider, nil)
	require.NoError(t, err)
	assert.Equal(t, "", token)

	provider.AssertNumberOfCalls(t, "GetStartKeyToken", 1)
}

func TestGetStartKey(t *testing.T) {
	provider := &tokenProvider{}
	provider.On("GetStartKey", mock.Anything, "token").Return(Item{
		"id": &types.AttributeValueMemberS{Value: "tt0111161"},
	}, nil)

	startKey, err := GetStartKey(context.Background(), provider, "token")
	require.NoError(t, err)
	assert.Equal(t, Item{
		"id": &types.AttributeValueMemberS{Value: "tt0111161"},
	}, startKey)

	startKey, err = GetStartKey(context.Background(), provider, "")
	require.NoError(t, err)
	assert.Nil(t, startKey)

	provider.AssertNumberOfCalls(t, "GetStartKey", 1)
}
