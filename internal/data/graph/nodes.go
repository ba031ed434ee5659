package graph

import (
	"context"
	"fmt"

	"github.com/yungbote/fundgraph/internal/domain"
	"github.com/yungbote/fundgraph/internal/platform/neo4jdb"
)

// Node upserts merge on the natural key and overwrite every property, so re-running a
// migration converges on the same node set.

const upsertTenantsCypher = `
UNWIND $rows AS r
MERGE (n:Tenant {id: r.id})
SET n += r
`

const upsertUsersCypher = `
UNWIND $rows AS r
MERGE (n:User {id: r.id})
SET n += r
`

const upsertUserEntitiesCypher = `
UNWIND $rows AS r
MERGE (n:UserEntity {tenant_id: r.tenant_id, investment_entity: r.investment_entity})
SET n += r
`

const upsertUserFundsCypher = `
UNWIND $rows AS r
MERGE (n:UserFund {id: r.id})
SET n += r
`

const upsertSubscriptionsCypher = `
UNWIND $rows AS r
MERGE (n:Subscription {id: r.id})
SET n += r
`

// Consolidated nodes are replaced wholesale: SET n = r drops anything a previous build
// left behind.
const upsertNAVCypher = `
UNWIND $rows AS r
MERGE (n:NAV {id: r.id})
SET n = r
`

const upsertMovementsCypher = `
UNWIND $rows AS r
MERGE (n:Movements {id: r.id})
SET n = r
`

func UpsertTenants(ctx context.Context, r Runner, batch []domain.Tenant) (neo4jdb.Summary, error) {
	rows := make([]map[string]any, 0, len(batch))
	for _, t := range batch {
		rows = append(rows, TenantProps(t))
	}
	return upsert(ctx, r, upsertTenantsCypher, rows)
}

func UpsertUsers(ctx context.Context, r Runner, batch []domain.User) (neo4jdb.Summary, error) {
	rows := make([]map[string]any, 0, len(batch))
	for _, u := range batch {
		rows = append(rows, UserProps(u))
	}
	return upsert(ctx, r, upsertUsersCypher, rows)
}

func UpsertUserEntities(ctx context.Context, r Runner, batch []domain.UserEntity) (neo4jdb.Summary, error) {
	rows := make([]map[string]any, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, UserEntityProps(e))
	}
	return upsert(ctx, r, upsertUserEntitiesCypher, rows)
}

func UpsertUserFunds(ctx context.Context, r Runner, batch []domain.UserFund) (neo4jdb.Summary, error) {
	rows := make([]map[string]any, 0, len(batch))
	for _, f := range batch {
		rows = append(rows, UserFundProps(f))
	}
	return upsert(ctx, r, upsertUserFundsCypher, rows)
}

func UpsertSubscriptions(ctx context.Context, r Runner, batch []domain.Subscription) (neo4jdb.Summary, error) {
	rows := make([]map[string]any, 0, len(batch))
	for _, s := range batch {
		rows = append(rows, SubscriptionProps(s))
	}
	return upsert(ctx, r, upsertSubscriptionsCypher, rows)
}

func UpsertNAV(ctx context.Context, r Runner, batch []domain.ConsolidatedNAV) (neo4jdb.Summary, error) {
	rows := make([]map[string]any, 0, len(batch))
	for _, n := range batch {
		props, err := NAVProps(n)
		if err != nil {
			return neo4jdb.Summary{}, fmt.Errorf("encode nav %s: %w", n.ID, err)
		}
		rows = append(rows, props)
	}
	return upsert(ctx, r, upsertNAVCypher, rows)
}

func UpsertMovements(ctx context.Context, r Runner, batch []domain.ConsolidatedMovements) (neo4jdb.Summary, error) {
	rows := make([]map[string]any, 0, len(batch))
	for _, m := range batch {
		props, err := MovementsProps(m)
		if err != nil {
			return neo4jdb.Summary{}, fmt.Errorf("encode movements %s: %w", m.ID, err)
		}
		rows = append(rows, props)
	}
	return upsert(ctx, r, upsertMovementsCypher, rows)
}
