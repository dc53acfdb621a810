package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ClientOption configures Client.
type ClientOption func(*ClientConfig)

// ClientConfig holds MongoDB connection settings.
type ClientConfig struct {
	URI         string
	Database    string
	AppName     string
	Timeout     time.Duration
	MaxPoolSize uint64
}

// WithURI sets the connection string.
func WithURI(uri string) ClientOption {
	return func(c *ClientConfig) {
		c.URI = uri
	}
}

// WithDatabase sets the database every collection is read from.
func WithDatabase(name string) ClientOption {
	return func(c *ClientConfig) {
		c.Database = name
	}
}

// WithTimeout bounds connect, ping and per-operation calls.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = d
	}
}

// WithMaxPoolSize caps the driver connection pool.
func WithMaxPoolSize(n uint64) ClientOption {
	return func(c *ClientConfig) {
		c.MaxPoolSize = n
	}
}

// Client wraps a connected driver client bound to one database.
type Client struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// NewClient connects and pings the primary.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	cfg := &ClientConfig{
		AppName:     "marketdash",
		Timeout:     10 * time.Second,
		MaxPoolSize: 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database is required")
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(cfg.AppName).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Client{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: cfg.Timeout,
	}, nil
}

// Collection returns a handle on name in the configured database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Timeout is the per-operation deadline repositories should apply.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Health pings the primary.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
