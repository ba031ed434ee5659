package graph

import (
	"context"
	"fmt"

	"github.com/yungbote/fundgraph/internal/domain"
)

// CountNodes counts nodes per label. With a tenant id only that tenant's nodes are counted
// (the Tenant label matches on id).
func CountNodes(ctx context.Context, r Runner, tenantID string) (map[string]int64, error) {
	out := make(map[string]int64, len(domain.NodeLabels))
	for _, label := range domain.NodeLabels {
		cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS n", label)
		params := map[string]any{}
		if tenantID != "" {
			key := "tenant_id"
			if label == domain.LabelTenant {
				key = "id"
			}
			cypher = fmt.Sprintf("MATCH (n:%s {%s: $tenant_id}) RETURN count(n) AS n", label, key)
			params["tenant_id"] = tenantID
		}
		res, err := r.Run(ctx, cypher, params)
		if err != nil {
			return nil, fmt.Errorf("count %s nodes: %w", label, err)
		}
		out[label] = firstInt(res.Records, "n")
	}
	return out, nil
}

// CountEdges counts relationships per type across the whole graph.
func CountEdges(ctx context.Context, r Runner) (map[string]int64, error) {
	out := make(map[string]int64, len(domain.RelationshipTypes))
	for _, rel := range domain.RelationshipTypes {
		res, err := r.Run(ctx, fmt.Sprintf("MATCH ()-[e:%s]->() RETURN count(e) AS n", rel), nil)
		if err != nil {
			return nil, fmt.Errorf("count %s edges: %w", rel, err)
		}
		out[rel] = firstInt(res.Records, "n")
	}
	return out, nil
}

func firstInt(records []map[string]any, key string) int64 {
	if len(records) == 0 {
		return 0
	}
	return toInt64(records[0][key])
}
