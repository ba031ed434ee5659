package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/fundgraph/internal/platform/envutil"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

type Client struct {
	Driver    neo4j.DriverWithContext
	Database  string
	TxTimeout time.Duration
	log       *logger.Logger
}

// Summary is the subset of the driver's result summary the pipeline reports on.
type Summary struct {
	NodesCreated         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

type Result struct {
	Records []map[string]any
	Summary Summary
}

func NewFromEnv(log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}

	uri := envutil.String("NEO4J_URI", "")
	if uri == "" {
		return nil, fmt.Errorf("neo4jdb: NEO4J_URI not set")
	}
	user := envutil.String("NEO4J_USER", "neo4j")
	password := envutil.String("NEO4J_PASSWORD", "")
	database := envutil.String("NEO4J_DATABASE", "")

	connectTimeout := envutil.Seconds("NEO4J_TIMEOUT_SECONDS", 10*time.Second)
	txTimeout := envutil.Seconds("NEO4J_TX_TIMEOUT_SECONDS", 30*time.Second)
	maxPool := envutil.Int("NEO4J_MAX_POOL_SIZE", 50)
	if maxPool <= 0 {
		maxPool = 50
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""), func(cfg *neo4j.Config) {
		cfg.MaxConnectionPoolSize = maxPool
		cfg.SocketConnectTimeout = connectTimeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	log.Info("neo4j connected", "uri", uri, "database", database, "tx_timeout", txTimeout.String())
	return &Client{
		Driver:    driver,
		Database:  database,
		TxTimeout: txTimeout,
		log:       log.With("client", "Neo4jDB"),
	}, nil
}

// Run executes one statement in a managed write transaction bounded by TxTimeout and
// collects every record. Timeouts surface as errors; nothing is retried.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) (*Result, error) {
	return c.run(ctx, neo4j.AccessModeWrite, cypher, params)
}

// Read is Run in a read transaction, used by the query assistant.
func (c *Client) Read(ctx context.Context, cypher string, params map[string]any) (*Result, error) {
	return c.run(ctx, neo4j.AccessModeRead, cypher, params)
}

func (c *Client) run(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) (*Result, error) {
	if c == nil || c.Driver == nil {
		return nil, fmt.Errorf("neo4jdb: client not connected")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: c.Database,
	})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		out := &Result{Records: make([]map[string]any, 0, len(records))}
		for _, rec := range records {
			out.Records = append(out.Records, rec.AsMap())
		}
		if summary != nil {
			counters := summary.Counters()
			out.Summary = Summary{
				NodesCreated:         counters.NodesCreated(),
				RelationshipsCreated: counters.RelationshipsCreated(),
				RelationshipsDeleted: counters.RelationshipsDeleted(),
				PropertiesSet:        counters.PropertiesSet(),
			}
		}
		return out, nil
	}

	var (
		raw any
		err error
	)
	timeout := neo4j.WithTxTimeout(c.TxTimeout)
	if mode == neo4j.AccessModeRead {
		raw, err = session.ExecuteRead(ctx, work, timeout)
	} else {
		raw, err = session.ExecuteWrite(ctx, work, timeout)
	}
	if err != nil {
		return nil, err
	}
	return raw.(*Result), nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
