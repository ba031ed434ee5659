// Package reconcile derives graph relationships between independently migrated node sets
// by re-joining on natural keys (tenant id, entity name, fund name), then writes them so
// that at most one edge exists per (source, type, target).
package reconcile

import (
	"github.com/yungbote/fundgraph/internal/domain"
)

type Edge struct {
	Type      string
	FromLabel string
	FromID    string
	ToLabel   string
	ToID      string
}

type edgeKey Edge

// Orphan is a subscription whose entity or fund has no match in its tenant.
type Orphan struct {
	SubscriptionID   string
	TenantID         string
	FundName         string
	InvestmentEntity string
	MissingEntity    bool
	MissingFund      bool
}

// Coverage summarises subscription linkage. Ambiguous counts linked subscriptions whose
// fund name matched more than one fund.
type Coverage struct {
	Subscriptions int
	Linked        int
	Orphaned      int
	Ambiguous     int
	Orphans       []Orphan
}

// Ratio is the share of subscriptions with a matching entity and fund; 1 when there are none.
func (c Coverage) Ratio() float64 {
	if c.Subscriptions == 0 {
		return 1
	}
	return float64(c.Linked) / float64(c.Subscriptions)
}

type Plan struct {
	Edges    []Edge
	Coverage Coverage
}

// CountByType tallies the planned edges per relationship type.
func (p Plan) CountByType() map[string]int {
	out := make(map[string]int, len(domain.RelationshipTypes))
	for _, e := range p.Edges {
		out[e.Type]++
	}
	return out
}

type nameKey struct {
	tenantID string
	name     string
}

// planBuilder collects edges in pass order and drops repeats of the same
// (source, type, target), so the plan itself never contains a duplicate.
type planBuilder struct {
	seen  map[edgeKey]struct{}
	edges []Edge
}

func (b *planBuilder) add(e Edge) bool {
	if _, ok := b.seen[edgeKey(e)]; ok {
		return false
	}
	b.seen[edgeKey(e)] = struct{}{}
	b.edges = append(b.edges, e)
	return true
}

// Derive computes every derived edge for the snapshot. Passes run in a fixed order and
// INTEREST is computed last, from the HAS_SUBSCRIPTION edges produced before it.
// Every join includes tenant id equality, so no derived edge crosses tenants.
func Derive(s *Snapshot) Plan {
	b := &planBuilder{seen: make(map[edgeKey]struct{})}

	tenants := make(map[string]bool, len(s.Tenants))
	for _, t := range s.Tenants {
		tenants[t.ID] = true
	}
	entitiesByName := make(map[nameKey][]EntityRef)
	for _, e := range s.Entities {
		k := nameKey{e.TenantID, e.InvestmentEntity}
		entitiesByName[k] = append(entitiesByName[k], e)
	}
	// Fund names repeat within a tenant; a name join fans out to every fund carrying it.
	fundsByName := make(map[nameKey][]FundRef)
	for _, f := range s.Funds {
		k := nameKey{f.TenantID, f.FundName}
		fundsByName[k] = append(fundsByName[k], f)
	}
	navByKey := make(map[domain.SeriesKey][]SeriesRef)
	for _, n := range s.NAVs {
		navByKey[n.Key] = append(navByKey[n.Key], n)
	}
	movementsByKey := make(map[domain.SeriesKey][]SeriesRef)
	for _, m := range s.Movements {
		movementsByKey[m.Key] = append(movementsByKey[m.Key], m)
	}

	// BELONGS_TO
	for _, u := range s.Users {
		if tenants[u.TenantID] {
			b.add(Edge{domain.RelBelongsTo, domain.LabelUser, u.ID, domain.LabelTenant, u.TenantID})
		}
	}

	// MANAGES
	for _, e := range s.Entities {
		if tenants[e.TenantID] {
			b.add(Edge{domain.RelManages, domain.LabelTenant, e.TenantID, domain.LabelUserEntity, e.ID})
		}
	}
	for _, f := range s.Funds {
		if tenants[f.TenantID] {
			b.add(Edge{domain.RelManages, domain.LabelTenant, f.TenantID, domain.LabelUserFund, f.ID})
		}
	}

	// INVESTED_IN, through the subscription that is the only evidence of the link.
	cov := Coverage{Subscriptions: len(s.Subscriptions)}
	for _, sub := range s.Subscriptions {
		entities := entitiesByName[nameKey{sub.TenantID, sub.InvestmentEntity}]
		funds := fundsByName[nameKey{sub.TenantID, sub.FundName}]
		if len(entities) == 0 || len(funds) == 0 {
			cov.Orphaned++
			cov.Orphans = append(cov.Orphans, Orphan{
				SubscriptionID:   sub.ID,
				TenantID:         sub.TenantID,
				FundName:         sub.FundName,
				InvestmentEntity: sub.InvestmentEntity,
				MissingEntity:    len(entities) == 0,
				MissingFund:      len(funds) == 0,
			})
			continue
		}
		cov.Linked++
		if len(funds) > 1 {
			cov.Ambiguous++
		}
		for _, e := range entities {
			for _, f := range funds {
				b.add(Edge{domain.RelInvestedIn, domain.LabelUserEntity, e.ID, domain.LabelUserFund, f.ID})
			}
		}
	}

	// HAS_SUBSCRIPTION
	subscribed := make(map[string]bool)
	for _, sub := range s.Subscriptions {
		for _, f := range fundsByName[nameKey{sub.TenantID, sub.FundName}] {
			b.add(Edge{domain.RelHasSubscription, domain.LabelUserFund, f.ID, domain.LabelSubscription, sub.ID})
			subscribed[f.ID] = true
		}
		for _, e := range entitiesByName[nameKey{sub.TenantID, sub.InvestmentEntity}] {
			b.add(Edge{domain.RelHasSubscription, domain.LabelUserEntity, e.ID, domain.LabelSubscription, sub.ID})
		}
	}

	// HAS_NAV, HAS_MOVEMENTS
	for _, sub := range s.Subscriptions {
		key := domain.SeriesKey{FundName: sub.FundName, InvestmentEntity: sub.InvestmentEntity, TenantID: sub.TenantID}
		for _, n := range navByKey[key] {
			b.add(Edge{domain.RelHasNAV, domain.LabelSubscription, sub.ID, domain.LabelNAV, n.ID})
		}
		for _, m := range movementsByKey[key] {
			b.add(Edge{domain.RelHasMovements, domain.LabelSubscription, sub.ID, domain.LabelMovements, m.ID})
		}
	}

	// INTEREST: funds tracked by a tenant with no subscription yet.
	for _, f := range s.Funds {
		if !subscribed[f.ID] && tenants[f.TenantID] {
			b.add(Edge{domain.RelInterest, domain.LabelTenant, f.TenantID, domain.LabelUserFund, f.ID})
		}
	}

	return Plan{Edges: b.edges, Coverage: cov}
}
