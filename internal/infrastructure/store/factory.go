package store

import (
	"context"

	"github.com/pkg/errors"
)

// Options selects and configures a KVStore backend.
type Options struct {
	Kind      string // memory | file | postgres | redis | dynamodb
	Path      string // file
	DSN       string // postgres DSN or redis URL
	Table     string // dynamodb
	Region    string // dynamodb
	Endpoint  string // dynamodb, optional
	KeyPrefix string // redis, optional
}

const DefaultDynamoTable = "storefront_kv"

// New constructs a KVStore by kind.
func New(ctx context.Context, opts Options) (KVStore, error) {
	switch opts.Kind {
	case "", "memory", "mem":
		return NewMemoryStore(), nil
	case "file":
		if opts.Path == "" {
			return nil, errors.New("file path required for file store")
		}
		return NewFileStore(opts.Path)
	case "postgres", "pg":
		if opts.DSN == "" {
			return nil, ErrDSNRequired
		}
		db, err := ConnectPostgres(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil
	case "redis":
		if opts.DSN == "" {
			return nil, ErrDSNRequired
		}
		client, err := ConnectRedis(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.KeyPrefix), nil
	case "dynamodb", "dynamo":
		table := opts.Table
		if table == "" {
			table = DefaultDynamoTable
		}
		client, err := NewDynamoClient(ctx, opts.Region, opts.Endpoint)
		if err != nil {
			return nil, err
		}
		return NewDynamoStore(client, table), nil
	default:
		return nil, errors.Wrap(ErrUnknownKind, opts.Kind)
	}
}
