package dynammo

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/oklog/ulid/v2"
)

const (
	pageIDAttribute       = "id"
	pageStartKeyAttribute = "start_key"
	pageExpiresAttribute  = "expires_at"
)

// StartKeyTokenProvider turns the LastEvaluatedKey of a page into a token
// that callers can hand back later to fetch the next page.
type StartKeyTokenProvider interface {
	GetStartKeyToken(ctx context.Context, startKey Item) (string, error)
}

// StartKeyProvider resolves a token issued by a StartKeyTokenProvider back
// into an ExclusiveStartKey.
type StartKeyProvider interface {
	GetStartKey(ctx context.Context, token string) (Item, error)
}

// GetStartKeyToken returns the token for startKey, or "" on the last page
// without calling the provider.
func GetStartKeyToken(ctx context.Context, provider StartKeyTokenProvider, startKey Item) (string, error) {
	if startKey == nil {
		return "", nil
	}
	return provider.GetStartKeyToken(ctx, startKey)
}

// GetStartKey returns the key for token. The empty token means the first page
// and resolves to a nil key without calling the provider.
func GetStartKey(ctx context.Context, provider StartKeyProvider, token string) (Item, error) {
	if token == "" {
		return nil, nil
	}
	return provider.GetStartKey(ctx, token)
}

// Paginator stores start keys in a table and hands out their generated ids as
// tokens. Keys are stored in wire form, so numbers keep their full precision. It implements both StartKeyTokenProvider and StartKeyProvider. The
// table needs a string partition key named "id".
type Paginator struct {
	db    *DB
	table string
	// TTL, when set, stamps each page with an "expires_at" epoch attribute
	// suitable for the table's time to live setting.
	TTL time.Duration
	now func() time.Time
}

var (
	_ StartKeyTokenProvider = (*Paginator)(nil)
	_ StartKeyProvider      = (*Paginator)(nil)
)

// Paginator returns a Paginator that keeps its pages in table.
func (db *DB) Paginator(table string) *Paginator {
	return &Paginator{db: db, table: table, now: time.Now}
}

// GetStartKeyToken stores the key and returns the id of the stored page.
func (p *Paginator) GetStartKeyToken(ctx context.Context, startKey Item) (string, error) {
	if len(startKey) == 0 {
		return "", nil
	}
	id := ulid.Make().String()
	page := map[string]any{
		pageIDAttribute:       id,
		pageStartKeyAttribute: &types.AttributeValueMemberM{Value: maps.Clone(startKey)},
	}
	if p.TTL > 0 {
		page[pageExpiresAttribute] = p.now().Add(p.TTL).Unix()
	}

	if _, err := p.db.PutItem(p.table).Item(page).Run(ctx); err != nil {
		return "", fmt.Errorf("get start key token: %w", err)
	}
	return id, nil
}

// GetStartKey loads the key stored under token. Unknown or expired tokens
// yield a nil key, which restarts from the first page.
func (p *Paginator) GetStartKey(ctx context.Context, token string) (Item, error) {
	if token == "" {
		return nil, nil
	}
	res, err := p.db.GetItem(p.table).
		Key(map[string]any{pageIDAttribute: token}).
		ConsistentRead(true).
		Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("get start key '%s': %w", token, err)
	}
	if res.Item == nil {
		return nil, nil
	}
	if expires, ok := res.Item[pageExpiresAttribute].(int64); ok && p.now().Unix() >= expires {
		return nil, nil
	}

	key, ok := res.Raw.Item[pageStartKeyAttribute].(*types.AttributeValueMemberM)
	if !ok {
		return nil, fmt.Errorf("get start key '%s': page has no start key", token)
	}
	return key.Value, nil
}
