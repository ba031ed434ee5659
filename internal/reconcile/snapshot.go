package reconcile

import (
	"context"
	"fmt"

	"github.com/yungbote/fundgraph/internal/data/graph"
	"github.com/yungbote/fundgraph/internal/domain"
)

type TenantRef struct {
	ID string
}

type UserRef struct {
	ID       string
	TenantID string
}

type EntityRef struct {
	ID               string
	TenantID         string
	InvestmentEntity string
}

type FundRef struct {
	ID       string
	TenantID string
	FundName string
}

type SubscriptionRef struct {
	ID               string
	TenantID         string
	FundName         string
	InvestmentEntity string
}

type SeriesRef struct {
	ID  string
	Key domain.SeriesKey
}

// Snapshot holds the natural keys of every node the derivation passes join on.
type Snapshot struct {
	Tenants       []TenantRef
	Users         []UserRef
	Entities      []EntityRef
	Funds         []FundRef
	Subscriptions []SubscriptionRef
	NAVs          []SeriesRef
	Movements     []SeriesRef
}

func scoped(label, fields string) string {
	key := "tenant_id"
	if label == domain.LabelTenant {
		key = "id"
	}
	return fmt.Sprintf("MATCH (n:%s) WHERE $tenant_id = '' OR n.%s = $tenant_id RETURN %s ORDER BY n.id", label, key, fields)
}

// LoadSnapshot reads node keys from the graph. tenantID "" loads every tenant.
func LoadSnapshot(ctx context.Context, r graph.Runner, tenantID string) (*Snapshot, error) {
	params := map[string]any{"tenant_id": tenantID}
	read := func(label, fields string) ([]map[string]any, error) {
		res, err := r.Run(ctx, scoped(label, fields), params)
		if err != nil {
			return nil, fmt.Errorf("load %s keys: %w", label, err)
		}
		return res.Records, nil
	}

	s := &Snapshot{}

	rows, err := read(domain.LabelTenant, "n.id AS id")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		s.Tenants = append(s.Tenants, TenantRef{ID: str(row["id"])})
	}

	if rows, err = read(domain.LabelUser, "n.id AS id, n.tenant_id AS tenant_id"); err != nil {
		return nil, err
	}
	for _, row := range rows {
		s.Users = append(s.Users, UserRef{ID: str(row["id"]), TenantID: str(row["tenant_id"])})
	}

	if rows, err = read(domain.LabelUserEntity, "n.id AS id, n.tenant_id AS tenant_id, n.investment_entity AS investment_entity"); err != nil {
		return nil, err
	}
	for _, row := range rows {
		s.Entities = append(s.Entities, EntityRef{
			ID:               str(row["id"]),
			TenantID:         str(row["tenant_id"]),
			InvestmentEntity: str(row["investment_entity"]),
		})
	}

	if rows, err = read(domain.LabelUserFund, "n.id AS id, n.tenant_id AS tenant_id, n.fund_name AS fund_name"); err != nil {
		return nil, err
	}
	for _, row := range rows {
		s.Funds = append(s.Funds, FundRef{ID: str(row["id"]), TenantID: str(row["tenant_id"]), FundName: str(row["fund_name"])})
	}

	keyFields := "n.id AS id, n.tenant_id AS tenant_id, n.fund_name AS fund_name, n.investment_entity AS investment_entity"
	if rows, err = read(domain.LabelSubscription, keyFields); err != nil {
		return nil, err
	}
	for _, row := range rows {
		s.Subscriptions = append(s.Subscriptions, SubscriptionRef{
			ID:               str(row["id"]),
			TenantID:         str(row["tenant_id"]),
			FundName:         str(row["fund_name"]),
			InvestmentEntity: str(row["investment_entity"]),
		})
	}

	if rows, err = read(domain.LabelNAV, keyFields); err != nil {
		return nil, err
	}
	s.NAVs = seriesRefs(rows)

	if rows, err = read(domain.LabelMovements, keyFields); err != nil {
		return nil, err
	}
	s.Movements = seriesRefs(rows)

	return s, nil
}

func seriesRefs(rows []map[string]any) []SeriesRef {
	out := make([]SeriesRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, SeriesRef{
			ID: str(row["id"]),
			Key: domain.SeriesKey{
				FundName:         str(row["fund_name"]),
				InvestmentEntity: str(row["investment_entity"]),
				TenantID:         str(row["tenant_id"]),
			},
		})
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
