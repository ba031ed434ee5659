package reconcile

import (
	"context"
	"fmt"

	"github.com/yungbote/fundgraph/internal/data/graph"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

// maxLoggedOrphans caps how many orphaned subscriptions are listed in the log.
const maxLoggedOrphans = 20

type Options struct {
	BatchSize   int
	Parallelism int
	RepairEdges bool
}

type Report struct {
	Planned           map[string]int
	Created           int
	StaleInterest     int
	DuplicatesRemoved int
	Coverage          Coverage
}

type Reconciler struct {
	graph graph.Runner
	log   *logger.Logger
	opts  Options
}

func New(r graph.Runner, log *logger.Logger, opts Options) *Reconciler {
	return &Reconciler{graph: r, log: log.With("component", "Reconciler"), opts: opts}
}

// Run loads the node keys in scope, derives the edge set and writes it. tenantID "" runs
// across every tenant.
func (rc *Reconciler) Run(ctx context.Context, tenantID string) (*Report, error) {
	snap, err := LoadSnapshot(ctx, rc.graph, tenantID)
	if err != nil {
		return nil, err
	}
	rc.log.Info("reconcile snapshot loaded",
		"tenant_id", tenantID,
		"tenants", len(snap.Tenants),
		"entities", len(snap.Entities),
		"funds", len(snap.Funds),
		"subscriptions", len(snap.Subscriptions),
		"navs", len(snap.NAVs),
		"movements", len(snap.Movements),
	)

	plan := Derive(snap)
	rep := &Report{Planned: plan.CountByType(), Coverage: plan.Coverage}

	rep.Created, rep.StaleInterest, err = Persist(ctx, rc.graph, plan, tenantID, rc.opts.BatchSize, rc.opts.Parallelism)
	if err != nil {
		return rep, err
	}

	if rc.opts.RepairEdges {
		if rep.DuplicatesRemoved, err = RepairDuplicates(ctx, rc.graph, tenantID); err != nil {
			return rep, err
		}
		if rep.DuplicatesRemoved > 0 {
			rc.log.Warn("duplicate edges removed", "count", rep.DuplicatesRemoved)
		}
	}

	rc.logCoverage(plan.Coverage)
	rc.log.Info("reconcile complete",
		"planned", rep.Planned,
		"created", rep.Created,
		"stale_interest_removed", rep.StaleInterest,
	)
	return rep, nil
}

func (rc *Reconciler) logCoverage(c Coverage) {
	rc.log.Info("subscription coverage",
		"subscriptions", c.Subscriptions,
		"linked", c.Linked,
		"orphaned", c.Orphaned,
		"coverage", fmt.Sprintf("%.1f%%", c.Ratio()*100),
	)
	if c.Ambiguous > 0 {
		rc.log.Warn("subscriptions joined to duplicate fund names", "count", c.Ambiguous)
	}
	for i, o := range c.Orphans {
		if i == maxLoggedOrphans {
			rc.log.Warn("orphaned subscriptions truncated", "remaining", len(c.Orphans)-i)
			break
		}
		rc.log.Warn("orphaned subscription",
			"subscription_id", o.SubscriptionID,
			"tenant_id", o.TenantID,
			"fund_name", o.FundName,
			"investment_entity", o.InvestmentEntity,
			"missing_entity", o.MissingEntity,
			"missing_fund", o.MissingFund,
		)
	}
}
