package migrate

import (
	"context"

	"github.com/yungbote/fundgraph/internal/consolidate"
	"github.com/yungbote/fundgraph/internal/data/graph"
	"github.com/yungbote/fundgraph/internal/data/source"
	"github.com/yungbote/fundgraph/internal/domain"
	"github.com/yungbote/fundgraph/internal/platform/neo4jdb"
	"github.com/yungbote/fundgraph/internal/reconcile"
)

const (
	StageSchema        = "schema"
	StageTenants       = "tenants"
	StageUsers         = "users"
	StageUserEntities  = "user_entities"
	StageUserFunds     = "user_funds"
	StageSubscriptions = "subscriptions"
	StageTimeSeries    = "time_series"
	StageReconcile     = "reconcile"
	StageVerify        = "verify"
)

type stageResult struct {
	rows    int
	summary neo4jdb.Summary
}

// stage is one step of a run. Resumable stages write a completion marker and are skipped
// on resume.
type stage struct {
	name      string
	resumable bool
	run       func(ctx context.Context) (stageResult, error)
}

func (o *Orchestrator) stages(opts Options, rep *Report) []stage {
	f := opts.filter()
	size := opts.BatchSize
	return []stage{
		{name: StageSchema, run: func(ctx context.Context) (stageResult, error) {
			return stageResult{rows: graph.EnsureSchema(ctx, o.graph, o.log)}, nil
		}},
		{name: StageTenants, resumable: true, run: func(ctx context.Context) (stageResult, error) {
			return copyNodes(ctx, o.source.Tenants, f, size, o.graph, graph.UpsertTenants)
		}},
		{name: StageUsers, resumable: true, run: func(ctx context.Context) (stageResult, error) {
			return copyNodes(ctx, o.source.Users, f, size, o.graph, graph.UpsertUsers)
		}},
		{name: StageUserEntities, resumable: true, run: func(ctx context.Context) (stageResult, error) {
			return copyNodes(ctx, o.source.UserEntities, f, size, o.graph, graph.UpsertUserEntities)
		}},
		{name: StageUserFunds, resumable: true, run: func(ctx context.Context) (stageResult, error) {
			return copyNodes(ctx, o.source.UserFunds, f, size, o.graph, graph.UpsertUserFunds)
		}},
		{name: StageSubscriptions, resumable: true, run: func(ctx context.Context) (stageResult, error) {
			return copyNodes(ctx, o.source.Subscriptions, f, size, o.graph, graph.UpsertSubscriptions)
		}},
		{name: StageTimeSeries, resumable: true, run: func(ctx context.Context) (stageResult, error) {
			return o.consolidateSeries(ctx, f, size)
		}},
		{name: StageReconcile, resumable: true, run: func(ctx context.Context) (stageResult, error) {
			rc := reconcile.New(o.graph, o.log, reconcile.Options{
				BatchSize:   size,
				Parallelism: opts.Parallelism,
				RepairEdges: opts.RepairEdges,
			})
			r, err := rc.Run(ctx, opts.TenantID)
			rep.Reconcile = r
			if err != nil {
				return stageResult{}, err
			}
			return stageResult{rows: r.Created}, nil
		}},
		{name: StageVerify, run: func(ctx context.Context) (stageResult, error) {
			return o.verify(ctx, opts.TenantID, rep)
		}},
	}
}

// copyNodes reads one source table and upserts it in fixed-size batches.
func copyNodes[T any](
	ctx context.Context,
	read func(context.Context, source.Filter) ([]T, error),
	f source.Filter,
	size int,
	r graph.Runner,
	write func(context.Context, graph.Runner, []T) (neo4jdb.Summary, error),
) (stageResult, error) {
	rows, err := read(ctx, f)
	if err != nil {
		return stageResult{}, err
	}
	sum, err := writeBatches(ctx, rows, size, func(ctx context.Context, batch []T) (neo4jdb.Summary, error) {
		return write(ctx, r, batch)
	})
	return stageResult{rows: len(rows), summary: sum}, err
}

func writeBatches[T any](ctx context.Context, rows []T, size int, write func(context.Context, []T) (neo4jdb.Summary, error)) (neo4jdb.Summary, error) {
	var total neo4jdb.Summary
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		s, err := write(ctx, rows[start:end])
		if err != nil {
			return total, err
		}
		total = addSummary(total, s)
	}
	return total, nil
}

func addSummary(a, b neo4jdb.Summary) neo4jdb.Summary {
	return neo4jdb.Summary{
		NodesCreated:         a.NodesCreated + b.NodesCreated,
		RelationshipsCreated: a.RelationshipsCreated + b.RelationshipsCreated,
		RelationshipsDeleted: a.RelationshipsDeleted + b.RelationshipsDeleted,
		PropertiesSet:        a.PropertiesSet + b.PropertiesSet,
	}
}

// consolidateSeries rebuilds every NAV and Movements node in scope from a full read of
// the observation tables.
func (o *Orchestrator) consolidateSeries(ctx context.Context, f source.Filter, size int) (stageResult, error) {
	navRows, err := o.source.NAVs(ctx, f)
	if err != nil {
		return stageResult{}, err
	}
	movements, err := o.source.Movements(ctx, f)
	if err != nil {
		return stageResult{}, err
	}
	transactions, err := o.source.Transactions(ctx, f)
	if err != nil {
		return stageResult{}, err
	}

	navs := consolidate.ConsolidateNAV(navRows)
	series := consolidate.ConsolidateMovements(movements, transactions)
	o.log.Info("time series consolidated",
		"nav_rows", len(navRows),
		"nav_nodes", len(navs),
		"movement_rows", len(movements)+len(transactions),
		"movement_nodes", len(series),
	)

	res := stageResult{rows: len(navRows) + len(movements) + len(transactions)}
	navSum, err := writeBatches(ctx, navs, size, func(ctx context.Context, b []domain.ConsolidatedNAV) (neo4jdb.Summary, error) {
		return graph.UpsertNAV(ctx, o.graph, b)
	})
	res.summary = navSum
	if err != nil {
		return res, err
	}
	mvSum, err := writeBatches(ctx, series, size, func(ctx context.Context, b []domain.ConsolidatedMovements) (neo4jdb.Summary, error) {
		return graph.UpsertMovements(ctx, o.graph, b)
	})
	res.summary = addSummary(res.summary, mvSum)
	return res, err
}

// verify counts nodes in scope and edges globally. Counts are reported, never enforced.
func (o *Orchestrator) verify(ctx context.Context, tenantID string, rep *Report) (stageResult, error) {
	nodes, err := graph.CountNodes(ctx, o.graph, tenantID)
	if err != nil {
		return stageResult{}, err
	}
	edges, err := graph.CountEdges(ctx, o.graph)
	if err != nil {
		return stageResult{}, err
	}
	rep.NodeCounts, rep.EdgeCounts = nodes, edges

	kv := make([]any, 0, 2*(len(nodes)+len(edges)))
	for label, n := range nodes {
		kv = append(kv, "nodes_"+label, n)
	}
	for rel, n := range edges {
		kv = append(kv, "edges_"+rel, n)
	}
	o.log.Info("verification counts", kv...)
	return stageResult{}, nil
}
