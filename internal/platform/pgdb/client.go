package pgdb

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yungbote/fundgraph/internal/platform/envutil"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

// SourceTables are the relational tables the migration reads from.
var SourceTables = []string{
	"tenants",
	"users",
	"user_entities",
	"user_funds",
	"subscriptions",
	"user_fund_navs",
	"user_fund_movements",
	"user_fund_transactions",
}

type Client struct {
	Pool *pgxpool.Pool
	log  *logger.Logger
}

func DSNFromEnv() string {
	if dsn := envutil.String("POSTGRES_DSN", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envutil.String("POSTGRES_USER", "postgres"),
		envutil.String("POSTGRES_PASSWORD", ""),
		envutil.String("POSTGRES_HOST", "localhost"),
		envutil.String("POSTGRES_PORT", "5432"),
		envutil.String("POSTGRES_NAME", "investments"),
		envutil.String("POSTGRES_SSLMODE", "disable"),
	)
}

func NewFromEnv(ctx context.Context, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("pgdb: logger required")
	}
	cfg, err := pgxpool.ParseConfig(DSNFromEnv())
	if err != nil {
		return nil, fmt.Errorf("pgdb: parse dsn: %w", err)
	}
	cfg.MaxConns = int32(envutil.Int("POSTGRES_MAX_CONNS", 4))
	cfg.ConnConfig.ConnectTimeout = envutil.Seconds("POSTGRES_CONNECT_TIMEOUT_SECONDS", 10*time.Second)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgdb: open pool: %w", err)
	}
	c := &Client{Pool: pool, log: log.With("client", "PostgresSource")}
	if err := c.TestConnection(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

// Query runs a read statement and returns each row as a column-name keyed map.
func (c *Client) Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	rows, err := c.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

func (c *Client) TestConnection(ctx context.Context) error {
	var one int
	if err := c.Pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("pgdb: test connection: %w", err)
	}
	return nil
}

// TableCounts reports the row count of every source table.
func (c *Client) TableCounts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(SourceTables))
	for _, table := range SourceTables {
		var n int64
		// table names come from the fixed SourceTables list
		if err := c.Pool.QueryRow(ctx, "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n); err != nil {
			return nil, fmt.Errorf("pgdb: count %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}

func (c *Client) Close() {
	if c == nil || c.Pool == nil {
		return
	}
	c.Pool.Close()
}
