// Package dynammo builds DynamoDB requests from native Go values.
//
// Each builder accumulates the parameters of a single request through chained
// setters, serializing items, keys and expression placeholder values into the
// DynamoDB attribute value format as they are supplied. Running a builder sends
// the request through an injected client and deserializes the returned items
// back into native maps.
//
//	db := dynammo.New(client, dynammo.WithPrefix("app_"))
//
//	res, err := db.Query("movies").
//		Condition("#y = :year", map[string]any{":year": 2015}, map[string]string{"#y": "year"}).
//		ReturnConsumedCapacity("indexes").
//		Run(ctx)
package dynammo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nisimpson/dynammo/attribute"
	"go.uber.org/zap"
)

// Item is a single DynamoDB item in wire format.
type Item = map[string]types.AttributeValue

// Options configures a DB.
type Options struct {
	// Prefix is prepended to every table and index name.
	Prefix string
	// Logger receives debug logs for each request. Defaults to a no-op logger.
	Logger *zap.Logger
	// Endpoint overrides the dynamodb endpoint. Only used by NewFromConfig.
	Endpoint string
	// ConfigOptions are passed to config.LoadDefaultConfig by NewFromConfig.
	ConfigOptions []func(*config.LoadOptions) error
}

// Apply applies opts in order.
func (o *Options) Apply(opts []func(*Options)) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithPrefix sets the table and index name prefix.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) { o.Prefix = prefix }
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) func(*Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithEndpoint points the client created by NewFromConfig at a custom
// endpoint, such as DynamoDB Local.
func WithEndpoint(url string) func(*Options) {
	return func(o *Options) { o.Endpoint = url }
}

// WithConfigOptions adds options used when loading the AWS configuration.
func WithConfigOptions(opts ...func(*config.LoadOptions) error) func(*Options) {
	return func(o *Options) { o.ConfigOptions = append(o.ConfigOptions, opts...) }
}

func newOptions(opts []func(*Options)) Options {
	options := Options{}
	options.Apply(opts)
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return options
}

// DB creates request builders bound to a dynamodb client.
type DB struct {
	api     API
	options Options
}

// New returns a DB that sends requests through the provided client.
func New(api API, opts ...func(*Options)) *DB {
	return &DB{api: api, options: newOptions(opts)}
}

// NewFromConfig loads the default AWS configuration and returns a DB backed by
// a new dynamodb client.
func NewFromConfig(ctx context.Context, opts ...func(*Options)) (*DB, error) {
	options := newOptions(opts)
	cfg, err := config.LoadDefaultConfig(ctx, options.ConfigOptions...)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
	})
	return &DB{api: client, options: options}, nil
}

// Prefix returns the prefix applied to table and index names.
func (db *DB) Prefix() string {
	return db.options.Prefix
}

// PutItem starts a put item request against the table.
func (db *DB) PutItem(table string) *PutItemBuilder {
	return newPutItem(db.api, db.request(), table)
}

// UpdateItem starts an update item request against the table.
func (db *DB) UpdateItem(table string) *UpdateItemBuilder {
	return newUpdateItem(db.api, db.request(), table)
}

// DeleteItem starts a delete item request against the table.
func (db *DB) DeleteItem(table string) *DeleteItemBuilder {
	return newDeleteItem(db.api, db.request(), table)
}

// GetItem starts a get item request against the table.
func (db *DB) GetItem(table string) *GetItemBuilder {
	return newGetItem(db.api, db.request(), table)
}

// Query starts a query request against the table.
func (db *DB) Query(table string) *QueryBuilder {
	return newQuery(db.api, db.request(), table)
}

// Scan starts a scan request against the table.
func (db *DB) Scan(table string) *ScanBuilder {
	return newScan(db.api, db.request(), table)
}

func (db *DB) request() request {
	return request{prefix: db.options.Prefix, logger: db.options.Logger}
}

// request holds the state shared by every builder: the name prefix, the
// logger and the first serialization error encountered.
type request struct {
	prefix string
	logger *zap.Logger
	err    error
}

func (r *request) name(s string) *string {
	return aws.String(r.prefix + s)
}

func (r *request) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// marshalMap serializes an item or key field, recording any failure.
func (r *request) marshalMap(m map[string]any) Item {
	if r.err != nil {
		return nil
	}
	item, err := attribute.MarshalMap(m)
	if err != nil {
		r.fail(err)
		return nil
	}
	return item
}
