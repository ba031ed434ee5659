package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/fundgraph/internal/domain"
)

func acmeSnapshot() *Snapshot {
	key := domain.SeriesKey{FundName: "Growth Fund", InvestmentEntity: "Acme LLC", TenantID: "T1"}
	return &Snapshot{
		Tenants:       []TenantRef{{ID: "T1"}},
		Users:         []UserRef{{ID: "u1", TenantID: "T1"}},
		Entities:      []EntityRef{{ID: "e1", TenantID: "T1", InvestmentEntity: "Acme LLC"}},
		Funds:         []FundRef{{ID: "f1", TenantID: "T1", FundName: "Growth Fund"}},
		Subscriptions: []SubscriptionRef{{ID: "s1", TenantID: "T1", FundName: "Growth Fund", InvestmentEntity: "Acme LLC"}},
		NAVs:          []SeriesRef{{ID: "nav_T1_Growth_Fund_Acme_LLC", Key: key}},
		Movements:     []SeriesRef{{ID: "movements_T1_Growth_Fund_Acme_LLC", Key: key}},
	}
}

func hasEdge(edges []Edge, typ, from, to string) bool {
	for _, e := range edges {
		if e.Type == typ && e.FromID == from && e.ToID == to {
			return true
		}
	}
	return false
}

func edgesOfType(edges []Edge, typ string) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestDeriveEndToEndScenario(t *testing.T) {
	plan := Derive(acmeSnapshot())

	assert.True(t, hasEdge(plan.Edges, domain.RelInvestedIn, "e1", "f1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelHasSubscription, "f1", "s1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelHasSubscription, "e1", "s1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelBelongsTo, "u1", "T1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelManages, "T1", "e1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelManages, "T1", "f1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelHasNAV, "s1", "nav_T1_Growth_Fund_Acme_LLC"))
	assert.True(t, hasEdge(plan.Edges, domain.RelHasMovements, "s1", "movements_T1_Growth_Fund_Acme_LLC"))
	assert.Empty(t, edgesOfType(plan.Edges, domain.RelInterest))

	assert.Equal(t, 1, plan.Coverage.Subscriptions)
	assert.Equal(t, 1, plan.Coverage.Linked)
	assert.Equal(t, 0, plan.Coverage.Orphaned)
	assert.Equal(t, 1.0, plan.Coverage.Ratio())
}

func TestDeriveInterestForUnsubscribedFunds(t *testing.T) {
	s := acmeSnapshot()
	s.Funds = append(s.Funds, FundRef{ID: "f2", TenantID: "T1", FundName: "Watchlist Fund"})

	plan := Derive(s)
	interest := edgesOfType(plan.Edges, domain.RelInterest)
	require.Len(t, interest, 1)
	assert.Equal(t, Edge{domain.RelInterest, domain.LabelTenant, "T1", domain.LabelUserFund, "f2"}, interest[0])

	// INTEREST comes after every HAS_SUBSCRIPTION edge in the plan.
	lastSub, firstInterest := -1, -1
	for i, e := range plan.Edges {
		if e.Type == domain.RelHasSubscription {
			lastSub = i
		}
		if e.Type == domain.RelInterest && firstInterest < 0 {
			firstInterest = i
		}
	}
	assert.Less(t, lastSub, firstInterest)
}

func TestDeriveOrphanedSubscription(t *testing.T) {
	s := acmeSnapshot()
	s.Subscriptions = append(s.Subscriptions,
		SubscriptionRef{ID: "s2", TenantID: "T1", FundName: "Growth Fund", InvestmentEntity: "Ghost LLC"},
		SubscriptionRef{ID: "s3", TenantID: "T1", FundName: "Missing Fund", InvestmentEntity: "Acme LLC"},
	)

	plan := Derive(s)
	assert.Equal(t, 3, plan.Coverage.Subscriptions)
	assert.Equal(t, 1, plan.Coverage.Linked)
	assert.Equal(t, 2, plan.Coverage.Orphaned)
	require.Len(t, plan.Coverage.Orphans, 2)
	assert.Equal(t, "s2", plan.Coverage.Orphans[0].SubscriptionID)
	assert.True(t, plan.Coverage.Orphans[0].MissingEntity)
	assert.False(t, plan.Coverage.Orphans[0].MissingFund)
	assert.True(t, plan.Coverage.Orphans[1].MissingFund)

	invested := edgesOfType(plan.Edges, domain.RelInvestedIn)
	require.Len(t, invested, 1)
	assert.Equal(t, "e1", invested[0].FromID)
	assert.Equal(t, "f1", invested[0].ToID)
}

func TestDeriveTenantIsolation(t *testing.T) {
	s := acmeSnapshot()
	s.Tenants = append(s.Tenants, TenantRef{ID: "T2"})
	// Same names in another tenant must not link across.
	s.Entities = append(s.Entities, EntityRef{ID: "e2", TenantID: "T2", InvestmentEntity: "Acme LLC"})
	s.Funds = append(s.Funds, FundRef{ID: "f9", TenantID: "T2", FundName: "Growth Fund"})

	plan := Derive(s)
	tenantOf := map[string]string{"T1": "T1", "T2": "T2", "u1": "T1", "e1": "T1", "e2": "T2", "f1": "T1", "f9": "T2", "s1": "T1",
		"nav_T1_Growth_Fund_Acme_LLC": "T1", "movements_T1_Growth_Fund_Acme_LLC": "T1"}
	for _, e := range plan.Edges {
		assert.Equal(t, tenantOf[e.FromID], tenantOf[e.ToID], "%+v", e)
	}
	assert.False(t, hasEdge(plan.Edges, domain.RelInvestedIn, "e2", "f1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelInterest, "T2", "f9"))
}

func TestDeriveNeverPlansDuplicateEdges(t *testing.T) {
	s := acmeSnapshot()
	// Two subscriptions for the same entity and fund (e.g. a top-up).
	s.Subscriptions = append(s.Subscriptions, SubscriptionRef{ID: "s1b", TenantID: "T1", FundName: "Growth Fund", InvestmentEntity: "Acme LLC"})
	s.Users = append(s.Users, UserRef{ID: "u1", TenantID: "T1"})

	plan := Derive(s)
	seen := map[Edge]int{}
	for _, e := range plan.Edges {
		seen[e]++
	}
	for e, n := range seen {
		assert.Equal(t, 1, n, "%+v", e)
	}
	assert.Len(t, edgesOfType(plan.Edges, domain.RelInvestedIn), 1)
	assert.Len(t, edgesOfType(plan.Edges, domain.RelHasSubscription), 4)
}

func TestDeriveDuplicateFundNamesFanOut(t *testing.T) {
	s := acmeSnapshot()
	s.Funds = append(s.Funds, FundRef{ID: "f1-dup", TenantID: "T1", FundName: "Growth Fund"})

	plan := Derive(s)
	assert.True(t, hasEdge(plan.Edges, domain.RelInvestedIn, "e1", "f1"))
	assert.True(t, hasEdge(plan.Edges, domain.RelInvestedIn, "e1", "f1-dup"))
	assert.Empty(t, edgesOfType(plan.Edges, domain.RelInterest))
	assert.Equal(t, 1, plan.Coverage.Ambiguous)
}

func TestDeriveIsDeterministic(t *testing.T) {
	assert.Equal(t, Derive(acmeSnapshot()), Derive(acmeSnapshot()))
}

func TestDeriveSkipsMissingTenant(t *testing.T) {
	s := acmeSnapshot()
	s.Tenants = nil
	plan := Derive(s)
	assert.Empty(t, edgesOfType(plan.Edges, domain.RelBelongsTo))
	assert.Empty(t, edgesOfType(plan.Edges, domain.RelManages))
	assert.Empty(t, edgesOfType(plan.Edges, domain.RelInterest))
	assert.True(t, hasEdge(plan.Edges, domain.RelInvestedIn, "e1", "f1"))
}
