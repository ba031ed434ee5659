package graph

import (
	"context"

	"github.com/yungbote/fundgraph/internal/platform/logger"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT tenant_id_unique IF NOT EXISTS FOR (n:Tenant) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (n:User) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT user_entity_key_unique IF NOT EXISTS FOR (n:UserEntity) REQUIRE (n.tenant_id, n.investment_entity) IS UNIQUE`,
	`CREATE CONSTRAINT user_fund_id_unique IF NOT EXISTS FOR (n:UserFund) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT subscription_id_unique IF NOT EXISTS FOR (n:Subscription) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT nav_id_unique IF NOT EXISTS FOR (n:NAV) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT movements_id_unique IF NOT EXISTS FOR (n:Movements) REQUIRE n.id IS UNIQUE`,
	`CREATE INDEX user_tenant_idx IF NOT EXISTS FOR (n:User) ON (n.tenant_id)`,
	`CREATE INDEX user_fund_name_idx IF NOT EXISTS FOR (n:UserFund) ON (n.tenant_id, n.fund_name)`,
	`CREATE INDEX subscription_key_idx IF NOT EXISTS FOR (n:Subscription) ON (n.tenant_id, n.fund_name, n.investment_entity)`,
	`CREATE INDEX nav_key_idx IF NOT EXISTS FOR (n:NAV) ON (n.tenant_id, n.fund_name, n.investment_entity)`,
	`CREATE INDEX movements_key_idx IF NOT EXISTS FOR (n:Movements) ON (n.tenant_id, n.fund_name, n.investment_entity)`,
}

// EnsureSchema applies constraints and indexes. A failing statement (already exists under
// another name, restricted user) is logged and the rest still run. Returns how many applied.
func EnsureSchema(ctx context.Context, r Runner, log *logger.Logger) int {
	applied := 0
	for _, stmt := range schemaStatements {
		if _, err := r.Run(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema statement failed (continuing)", "statement", stmt, "error", err)
			}
			continue
		}
		applied++
	}
	return applied
}
