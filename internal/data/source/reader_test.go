package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/fundgraph/internal/consolidate"
	"github.com/yungbote/fundgraph/internal/domain"
)

type fakeQuerier struct {
	rows    []map[string]any
	err     error
	gotSQL  string
	gotArgs []any
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) ([]map[string]any, error) {
	f.gotSQL = sql
	f.gotArgs = args
	return f.rows, f.err
}

func TestSelectSQLTenantAndLimit(t *testing.T) {
	sql, args := selectSQL("SELECT 1 FROM x", "tenant_id", "id", Filter{TenantID: "T1", Limit: 50})
	assert.Equal(t, "SELECT 1 FROM x\nWHERE tenant_id::text = $1\nORDER BY id\nLIMIT $2", sql)
	assert.Equal(t, []any{"T1", 50}, args)

	sql, args = selectSQL("SELECT 1 FROM x", "tenant_id", "id", Filter{})
	assert.Equal(t, "SELECT 1 FROM x\nORDER BY id", sql)
	assert.Empty(t, args)
}

func TestSelectKeyedSQLLimitsKeysNotRows(t *testing.T) {
	sql, args := selectKeyedSQL("SELECT * FROM user_fund_navs", "user_fund_navs", seriesKeyCols, "as_of_date ASC, id", Filter{TenantID: "T1", Limit: 2})
	assert.Equal(t, "SELECT * FROM user_fund_navs\n"+
		"WHERE (tenant_id, fund_name, investment_entity) IN (SELECT DISTINCT tenant_id, fund_name, investment_entity "+
		"FROM user_fund_navs WHERE tenant_id::text = $1 ORDER BY tenant_id, fund_name, investment_entity LIMIT $2)\n"+
		"ORDER BY as_of_date ASC, id", sql)
	assert.Equal(t, []any{"T1", 2}, args)

	sql, args = selectKeyedSQL("SELECT * FROM subscriptions", "subscriptions", subscriptionKeyCols, "id", Filter{})
	assert.Equal(t, "SELECT * FROM subscriptions\nORDER BY id", sql)
	assert.Empty(t, args)
}

func TestLimitedNAVReadKeepsWholeSeries(t *testing.T) {
	row := func(date, value string) map[string]any {
		return map[string]any{
			"tenant_id":         "T1",
			"fund_name":         "Growth Fund",
			"investment_entity": "Acme LLC",
			"as_of_date":        date,
			"value":             value,
		}
	}
	q := &fakeQuerier{rows: []map[string]any{
		row("2023-01-01", "100"),
		row("2023-02-01", "105"),
		row("2023-03-01", "95"),
	}}

	rows, err := NewReader(q).NAVs(context.Background(), Filter{Limit: 2})
	require.NoError(t, err)
	assert.NotContains(t, q.gotSQL, "\nLIMIT")
	assert.Contains(t, q.gotSQL, "LIMIT $1)")
	assert.Equal(t, []any{2}, q.gotArgs)

	navs := consolidate.ConsolidateNAV(rows)
	require.Len(t, navs, 1)
	assert.Equal(t, 3, navs[0].Count)
	assert.Equal(t, "95", navs[0].LatestValue)
	assert.Equal(t, "2023-03-01", navs[0].LatestDate.String())
}

func TestLimitedMovementsAndSubscriptionsAreKeyed(t *testing.T) {
	q := &fakeQuerier{}
	r := NewReader(q)

	_, err := r.Transactions(context.Background(), Filter{Limit: 5})
	require.NoError(t, err)
	assert.Contains(t, q.gotSQL, "FROM user_fund_transactions ORDER BY tenant_id, fund_name, investment_entity LIMIT $1)")

	_, err = r.Subscriptions(context.Background(), Filter{Limit: 5})
	require.NoError(t, err)
	assert.Contains(t, q.gotSQL, "WHERE (tenant_id, fund_name) IN (SELECT DISTINCT tenant_id, fund_name FROM subscriptions")
	assert.NotContains(t, q.gotSQL, "\nLIMIT")
}

func TestSubscriptionsMapping(t *testing.T) {
	created := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	q := &fakeQuerier{rows: []map[string]any{{
		"id":                "s1",
		"tenant_id":         "T1",
		"fund_name":         "Growth Fund",
		"investment_entity": "Acme LLC",
		"as_of_date":        "2023-01-01",
		"commitment_amount": "50000",
		"created_at":        created,
		"updated_at":        nil,
	}}}

	subs, err := NewReader(q).Subscriptions(context.Background(), Filter{TenantID: "T1"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	s := subs[0]
	assert.Equal(t, "Growth Fund", s.FundName)
	assert.Equal(t, "2023-01-01", s.AsOfDate.String())
	require.NotNil(t, s.CommitmentAmount)
	assert.Equal(t, "50000", *s.CommitmentAmount)
	assert.Equal(t, created, s.CreatedAt)
	assert.True(t, s.UpdatedAt.IsZero())
	assert.Contains(t, q.gotSQL, "FROM subscriptions")
	assert.Equal(t, []any{"T1"}, q.gotArgs)
}

func TestMissingRequiredColumnFails(t *testing.T) {
	q := &fakeQuerier{rows: []map[string]any{{
		"tenant_id":         "T1",
		"fund_name":         "Growth Fund",
		"investment_entity": nil,
		"as_of_date":        "2023-01-01",
	}}}
	_, err := NewReader(q).NAVs(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_fund_navs.investment_entity")
}

func TestMalformedDateFails(t *testing.T) {
	q := &fakeQuerier{rows: []map[string]any{{
		"tenant_id":         "T1",
		"fund_name":         "Growth Fund",
		"investment_entity": "Acme LLC",
		"as_of_date":        "2023-13-45",
		"value":             "100",
	}}}
	_, err := NewReader(q).NAVs(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "as_of_date")
}

func TestMovementsAreTaggedWithSource(t *testing.T) {
	q := &fakeQuerier{rows: []map[string]any{{
		"tenant_id":         "T1",
		"fund_name":         "Growth Fund",
		"investment_entity": "Acme LLC",
		"as_of_date":        time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		"type":              "fee",
		"amount":            "12.5",
	}}}
	r := NewReader(q)

	mv, err := r.Movements(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceMovements, mv[0].Source)

	tx, err := r.Transactions(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTransactions, tx[0].Source)
	assert.Contains(t, q.gotSQL, "FROM user_fund_transactions")
	assert.Equal(t, "2023-02-01", tx[0].AsOfDate.String())
}

func TestUsersOptionalFields(t *testing.T) {
	q := &fakeQuerier{rows: []map[string]any{{
		"id":           [16]byte{1},
		"tenant_id":    "T1",
		"email":        nil,
		"is_active":    true,
		"notify_email": "false",
	}}}
	users, err := NewReader(q).Users(context.Background(), Filter{})
	require.NoError(t, err)
	u := users[0]
	assert.Equal(t, "01000000-0000-0000-0000-000000000000", u.ID)
	assert.Nil(t, u.Email)
	require.NotNil(t, u.IsActive)
	assert.True(t, *u.IsActive)
	require.NotNil(t, u.NotifyEmail)
	assert.False(t, *u.NotifyEmail)
}

func TestQueryErrorPropagates(t *testing.T) {
	q := &fakeQuerier{err: errors.New("connection refused")}
	_, err := NewReader(q).Tenants(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query tenants")
}
