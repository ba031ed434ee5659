package reconcile

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/fundgraph/internal/data/graph"
	"github.com/yungbote/fundgraph/internal/domain"
)

type group struct {
	typ       string
	fromLabel string
	toLabel   string
}

// mergeCypher merges one edge per (source id, type, target id). The pattern carries no
// relationship properties, so MERGE matches any existing edge of that type between the
// pair and never adds a second one. Tenant nodes have no tenant_id, hence the coalesce.
func (g group) mergeCypher() string {
	return fmt.Sprintf(`
UNWIND $rows AS r
MATCH (a:%s {id: r.from_id})
MATCH (b:%s {id: r.to_id})
WHERE coalesce(a.tenant_id, a.id) = coalesce(b.tenant_id, b.id)
MERGE (a)-[:%s]->(b)
`, g.fromLabel, g.toLabel, g.typ)
}

// staleInterestCypher removes INTEREST edges from funds that have since gained a subscription.
const staleInterestCypher = `
MATCH (:Tenant)-[i:INTEREST]->(f:UserFund)
WHERE ($tenant_id = '' OR f.tenant_id = $tenant_id)
  AND EXISTS { MATCH (f)-[:HAS_SUBSCRIPTION]->(:Subscription) }
DELETE i
`

func groupEdges(edges []Edge) ([]group, map[group][]Edge) {
	byGroup := make(map[group][]Edge)
	for _, e := range edges {
		g := group{typ: e.Type, fromLabel: e.FromLabel, toLabel: e.ToLabel}
		byGroup[g] = append(byGroup[g], e)
	}
	order := make([]group, 0, len(byGroup))
	for g := range byGroup {
		order = append(order, g)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.typ != b.typ {
			return a.typ < b.typ
		}
		if a.fromLabel != b.fromLabel {
			return a.fromLabel < b.fromLabel
		}
		return a.toLabel < b.toLabel
	})
	return order, byGroup
}

func writeGroup(ctx context.Context, r graph.Runner, g group, edges []Edge, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = len(edges)
	}
	created := 0
	cypher := g.mergeCypher()
	for start := 0; start < len(edges); start += batchSize {
		end := min(start+batchSize, len(edges))
		rows := make([]map[string]any, 0, end-start)
		for _, e := range edges[start:end] {
			rows = append(rows, map[string]any{"from_id": e.FromID, "to_id": e.ToID})
		}
		res, err := r.Run(ctx, cypher, map[string]any{"rows": rows})
		if err != nil {
			return created, fmt.Errorf("merge %s (%s->%s): %w", g.typ, g.fromLabel, g.toLabel, err)
		}
		created += res.Summary.RelationshipsCreated
	}
	return created, nil
}

// Persist writes the plan. Groups other than INTEREST are independent and run with up to
// parallelism writers; INTEREST is written only after they all finish, followed by removal
// of INTEREST edges made stale by new subscriptions. Returns edges created and stale edges removed.
func Persist(ctx context.Context, r graph.Runner, plan Plan, tenantID string, batchSize, parallelism int) (created int, staleRemoved int, err error) {
	order, byGroup := groupEdges(plan.Edges)
	if parallelism <= 0 {
		parallelism = 1
	}

	counts := make([]int, len(order))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for i, g := range order {
		if g.typ == domain.RelInterest {
			continue
		}
		eg.Go(func() error {
			n, err := writeGroup(egCtx, r, g, byGroup[g], batchSize)
			counts[i] = n
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return sum(counts), 0, err
	}

	for i, g := range order {
		if g.typ != domain.RelInterest {
			continue
		}
		n, err := writeGroup(ctx, r, g, byGroup[g], batchSize)
		counts[i] = n
		if err != nil {
			return sum(counts), 0, err
		}
	}

	res, err := r.Run(ctx, staleInterestCypher, map[string]any{"tenant_id": tenantID})
	if err != nil {
		return sum(counts), 0, fmt.Errorf("remove stale interest edges: %w", err)
	}
	return sum(counts), res.Summary.RelationshipsDeleted, nil
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
