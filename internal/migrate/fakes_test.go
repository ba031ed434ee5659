package migrate

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/fundgraph/internal/data/source"
	"github.com/yungbote/fundgraph/internal/domain"
	"github.com/yungbote/fundgraph/internal/platform/neo4jdb"
)

type fakeSource struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
	last  source.Filter

	tenants       []domain.Tenant
	users         []domain.User
	entities      []domain.UserEntity
	funds         []domain.UserFund
	subscriptions []domain.Subscription
	navs          []domain.NAVRow
	movements     []domain.MovementRow
	transactions  []domain.MovementRow
}

func (s *fakeSource) hit(table string, f source.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[table]++
	s.last = f
	return s.fail[table]
}

func (s *fakeSource) Tenants(_ context.Context, f source.Filter) ([]domain.Tenant, error) {
	return s.tenants, s.hit("tenants", f)
}

func (s *fakeSource) Users(_ context.Context, f source.Filter) ([]domain.User, error) {
	return s.users, s.hit("users", f)
}

func (s *fakeSource) UserEntities(_ context.Context, f source.Filter) ([]domain.UserEntity, error) {
	return s.entities, s.hit("user_entities", f)
}

func (s *fakeSource) UserFunds(_ context.Context, f source.Filter) ([]domain.UserFund, error) {
	return s.funds, s.hit("user_funds", f)
}

func (s *fakeSource) Subscriptions(_ context.Context, f source.Filter) ([]domain.Subscription, error) {
	return s.subscriptions, s.hit("subscriptions", f)
}

func (s *fakeSource) NAVs(_ context.Context, f source.Filter) ([]domain.NAVRow, error) {
	return s.navs, s.hit("navs", f)
}

func (s *fakeSource) Movements(_ context.Context, f source.Filter) ([]domain.MovementRow, error) {
	return s.movements, s.hit("movements", f)
}

func (s *fakeSource) Transactions(_ context.Context, f source.Filter) ([]domain.MovementRow, error) {
	return s.transactions, s.hit("transactions", f)
}

var (
	upsertLabel = regexp.MustCompile(`MERGE \(n:(\w+) \{`)
	matchLabel  = regexp.MustCompile(`^MATCH \(n:(\w+)`)
	mergeEdge   = regexp.MustCompile(`MERGE \(a\)-\[:(\w+)\]->\(b\)`)
	countEdge   = regexp.MustCompile(`MATCH \(\)-\[e:(\w+)\]->\(\)`)
)

type edge struct {
	from, typ, to string
}

// memGraph answers the statements the pipeline issues against an in-memory node and
// edge set, closely enough to run a whole migration.
type memGraph struct {
	mu    sync.Mutex
	nodes map[string]map[string]map[string]any
	edges map[edge]bool
	stmts []string
}

func newMemGraph() *memGraph {
	return &memGraph{nodes: map[string]map[string]map[string]any{}, edges: map[edge]bool{}}
}

func (g *memGraph) Run(_ context.Context, cypher string, params map[string]any) (*neo4jdb.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stmts = append(g.stmts, cypher)
	cypher = strings.TrimSpace(cypher)
	tenantID, _ := params["tenant_id"].(string)

	switch {
	case strings.HasPrefix(cypher, "CREATE"):
		return &neo4jdb.Result{}, nil

	case mergeEdge.MatchString(cypher):
		typ := mergeEdge.FindStringSubmatch(cypher)[1]
		created := 0
		for _, row := range params["rows"].([]map[string]any) {
			e := edge{row["from_id"].(string), typ, row["to_id"].(string)}
			if !g.edges[e] {
				g.edges[e] = true
				created++
			}
		}
		return &neo4jdb.Result{Summary: neo4jdb.Summary{RelationshipsCreated: created}}, nil

	case upsertLabel.MatchString(cypher):
		label := upsertLabel.FindStringSubmatch(cypher)[1]
		if g.nodes[label] == nil {
			g.nodes[label] = map[string]map[string]any{}
		}
		created := 0
		for _, row := range params["rows"].([]map[string]any) {
			id := row["id"].(string)
			if g.nodes[label][id] == nil {
				created++
			}
			g.nodes[label][id] = row
		}
		return &neo4jdb.Result{Summary: neo4jdb.Summary{NodesCreated: created}}, nil

	case countEdge.MatchString(cypher):
		typ := countEdge.FindStringSubmatch(cypher)[1]
		n := int64(0)
		for e := range g.edges {
			if e.typ == typ {
				n++
			}
		}
		return &neo4jdb.Result{Records: []map[string]any{{"n": n}}}, nil

	case matchLabel.MatchString(cypher):
		label := matchLabel.FindStringSubmatch(cypher)[1]
		rows := g.scoped(label, tenantID)
		if strings.Contains(cypher, "count(n)") {
			return &neo4jdb.Result{Records: []map[string]any{{"n": int64(len(rows))}}}, nil
		}
		return &neo4jdb.Result{Records: rows}, nil
	}
	// stale interest cleanup, duplicate repair
	return &neo4jdb.Result{}, nil
}

func (g *memGraph) scoped(label, tenantID string) []map[string]any {
	ids := make([]string, 0, len(g.nodes[label]))
	for id := range g.nodes[label] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []map[string]any
	for _, id := range ids {
		n := g.nodes[label][id]
		owner, _ := n["tenant_id"].(string)
		if label == domain.LabelTenant {
			owner = id
		}
		if tenantID != "" && owner != tenantID {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (g *memGraph) has(from, typ, to string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges[edge{from, typ, to}]
}

func (g *memGraph) count(prefix string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, s := range g.stmts {
		if strings.Contains(s, prefix) {
			n++
		}
	}
	return n
}
