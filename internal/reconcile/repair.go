package reconcile

import (
	"context"
	"fmt"

	"github.com/yungbote/fundgraph/internal/data/graph"
	"github.com/yungbote/fundgraph/internal/domain"
)

// repairCypher keeps the first edge of every (source, type, target) triple and deletes
// the rest.
const repairCypher = `
MATCH (a)-[rel]->(b)
WHERE type(rel) IN $types
  AND ($tenant_id = '' OR a.tenant_id = $tenant_id OR a.id = $tenant_id)
WITH a, type(rel) AS rel_type, b, collect(rel) AS rels
WHERE size(rels) > 1
WITH rels[1..] AS extra
FOREACH (dup IN extra | DELETE dup)
RETURN sum(size(extra)) AS removed
`

// RepairDuplicates removes duplicate edges left by earlier runs. Merges in Persist never
// create duplicates, so on a graph written only by this package it removes nothing.
func RepairDuplicates(ctx context.Context, r graph.Runner, tenantID string) (int, error) {
	res, err := r.Run(ctx, repairCypher, map[string]any{
		"types":     domain.RelationshipTypes,
		"tenant_id": tenantID,
	})
	if err != nil {
		return 0, fmt.Errorf("repair duplicate edges: %w", err)
	}
	if res.Summary.RelationshipsDeleted > 0 {
		return res.Summary.RelationshipsDeleted, nil
	}
	if len(res.Records) > 0 {
		if n, ok := res.Records[0]["removed"].(int64); ok {
			return int(n), nil
		}
	}
	return 0, nil
}
