package graph

import (
	"context"
	"fmt"

	"github.com/yungbote/fundgraph/internal/platform/neo4jdb"
)

// Runner is the graph sink contract every writer and reader in this package depends on.
// *neo4jdb.Client satisfies it.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (*neo4jdb.Result, error)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// upsert runs one UNWIND statement over rows; empty batches are skipped.
func upsert(ctx context.Context, r Runner, cypher string, rows []map[string]any) (neo4jdb.Summary, error) {
	if len(rows) == 0 {
		return neo4jdb.Summary{}, nil
	}
	res, err := r.Run(ctx, cypher, map[string]any{"rows": rows})
	if err != nil {
		return neo4jdb.Summary{}, err
	}
	return res.Summary, nil
}
