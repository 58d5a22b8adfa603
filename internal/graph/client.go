package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dengue-kg/backend/pkg/config"
	"github.com/dengue-kg/backend/pkg/logger"
	"github.com/dengue-kg/backend/pkg/retry"
)

// WriteSummary reports the counters of a single write. RelationshipsCreated
// is zero when a MERGE matched an existing pattern, which is how repeat runs
// stay idempotent.
type WriteSummary struct {
	NodesCreated         int
	RelationshipsCreated int
	PropertiesSet        int
}

// Executor is the query-execution surface the rest of the engine depends on.
// It is a pass-through over rows of named fields; result semantics belong to
// the caller.
type Executor interface {
	Read(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	Write(ctx context.Context, query string, params map[string]any) (WriteSummary, error)
}

type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewClient opens a driver and verifies connectivity under the configured
// retry policy. Connection failure after retry exhaustion is fatal and maps
// to ErrStoreUnavailable.
func NewClient(ctx context.Context, cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create driver: %v", ErrStoreUnavailable, err)
	}

	retryCfg := retry.Config{
		MaxAttempts:  cfg.ConnectRetries,
		InitialDelay: time.Duration(cfg.RetryIntervalSec) * time.Second,
		Multiplier:   1.0,
		Logger:       logger.GetLogger(),
	}

	err = retry.Do(ctx, retryCfg, func() error {
		return driver.VerifyConnectivity(ctx)
	})
	if err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	logger.Info("Neo4j client initialized", zap.String("uri", cfg.URI))

	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}

	return &Client{
		driver:   driver,
		database: database,
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Client) Read(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	var rows []map[string]any
	for result.Next(ctx) {
		rows = append(rows, result.Record().AsMap())
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating results: %v", ErrQuery, err)
	}

	return rows, nil
}

func (c *Client) Write(ctx context.Context, query string, params map[string]any) (WriteSummary, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return WriteSummary{}, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	summary, err := result.Consume(ctx)
	if err != nil {
		return WriteSummary{}, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	counters := summary.Counters()
	return WriteSummary{
		NodesCreated:         counters.NodesCreated(),
		RelationshipsCreated: counters.RelationshipsCreated(),
		PropertiesSet:        counters.PropertiesSet(),
	}, nil
}

// Ping runs a trivial query, used by health checks.
func (c *Client) Ping(ctx context.Context) error {
	rows, err := c.Read(ctx, "RETURN 1 AS n", nil)
	if err != nil {
		return err
	}
	if len(rows) != 1 {
		return fmt.Errorf("%w: unexpected ping result", ErrQuery)
	}
	return nil
}
