// Package source reads the relational investment dataset and maps rows to domain records.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/fundgraph/internal/domain"
)

// Querier is the row source contract: run a parameterised read, get rows back.
// *pgdb.Client satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error)
}

// Filter scopes a read. TenantID empty means every tenant; Limit <= 0 means no limit.
type Filter struct {
	TenantID string
	Limit    int
}

type Reader struct {
	q Querier
}

func NewReader(q Querier) *Reader {
	return &Reader{q: q}
}

// selectSQL appends the tenant predicate, ordering and limit to a base select.
func selectSQL(base, tenantColumn, orderBy string, f Filter) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(base)
	if f.TenantID != "" {
		args = append(args, f.TenantID)
		fmt.Fprintf(&sb, "\nWHERE %s::text = $%d", tenantColumn, len(args))
	}
	sb.WriteString("\nORDER BY " + orderBy)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&sb, "\nLIMIT $%d", len(args))
	}
	return sb.String(), args
}

// selectKeyedSQL is selectSQL for tables whose rows are consumed in groups. Limit caps the
// number of distinct keys rather than rows, so every group that is read is read whole.
func selectKeyedSQL(base, table string, keyCols []string, orderBy string, f Filter) (string, []any) {
	if f.Limit <= 0 {
		return selectSQL(base, "tenant_id", orderBy, f)
	}
	var (
		sb     strings.Builder
		args   []any
		tenant string
	)
	if f.TenantID != "" {
		args = append(args, f.TenantID)
		tenant = fmt.Sprintf(" WHERE tenant_id::text = $%d", len(args))
	}
	args = append(args, f.Limit)
	keys := strings.Join(keyCols, ", ")

	sb.WriteString(base)
	fmt.Fprintf(&sb, "\nWHERE (%s) IN (SELECT DISTINCT %s FROM %s%s ORDER BY %s LIMIT $%d)", keys, keys, table, tenant, keys, len(args))
	sb.WriteString("\nORDER BY " + orderBy)
	return sb.String(), args
}

var (
	seriesKeyCols       = []string{"tenant_id", "fund_name", "investment_entity"}
	subscriptionKeyCols = []string{"tenant_id", "fund_name"}
)

func load[T any](ctx context.Context, r *Reader, table, sql string, args []any, mapRow func(*rowReader) T) ([]T, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	out := make([]T, 0, len(rows))
	for i, raw := range rows {
		rr := &rowReader{table: table, row: raw}
		rec := mapRow(rr)
		if rr.err != nil {
			return nil, fmt.Errorf("row %d: %w", i, rr.err)
		}
		out = append(out, rec)
	}
	return out, nil
}

const tenantsSQL = `SELECT id::text AS id, name, created_at, updated_at
FROM tenants`

func (r *Reader) Tenants(ctx context.Context, f Filter) ([]domain.Tenant, error) {
	sql, args := selectSQL(tenantsSQL, "id", "created_at, id", f)
	return load(ctx, r, "tenants", sql, args, func(rr *rowReader) domain.Tenant {
		return domain.Tenant{
			ID:        rr.required("id"),
			Name:      rr.text("name"),
			CreatedAt: rr.timestamp("created_at"),
			UpdatedAt: rr.timestamp("updated_at"),
		}
	})
}

const usersSQL = `SELECT id::text AS id, tenant_id::text AS tenant_id, email, first_name, last_name, phone, role,
  is_active, notify_email, notify_sms, notify_capital_calls, notify_distributions, notify_documents,
  created_at, updated_at
FROM users`

func (r *Reader) Users(ctx context.Context, f Filter) ([]domain.User, error) {
	sql, args := selectSQL(usersSQL, "tenant_id", "created_at, id", f)
	return load(ctx, r, "users", sql, args, func(rr *rowReader) domain.User {
		return domain.User{
			ID:                  rr.required("id"),
			TenantID:            rr.required("tenant_id"),
			Email:               rr.optString("email"),
			FirstName:           rr.optString("first_name"),
			LastName:            rr.optString("last_name"),
			Phone:               rr.optString("phone"),
			Role:                rr.optString("role"),
			IsActive:            rr.optBool("is_active"),
			NotifyEmail:         rr.optBool("notify_email"),
			NotifySMS:           rr.optBool("notify_sms"),
			NotifyCapitalCalls:  rr.optBool("notify_capital_calls"),
			NotifyDistributions: rr.optBool("notify_distributions"),
			NotifyDocuments:     rr.optBool("notify_documents"),
			CreatedAt:           rr.timestamp("created_at"),
			UpdatedAt:           rr.timestamp("updated_at"),
		}
	})
}

const entitiesSQL = `SELECT id::text AS id, tenant_id::text AS tenant_id, investment_entity, entity_alias, entity_type,
  created_at, updated_at
FROM user_entities`

func (r *Reader) UserEntities(ctx context.Context, f Filter) ([]domain.UserEntity, error) {
	sql, args := selectSQL(entitiesSQL, "tenant_id", "created_at, id", f)
	return load(ctx, r, "user_entities", sql, args, func(rr *rowReader) domain.UserEntity {
		return domain.UserEntity{
			ID:               rr.required("id"),
			TenantID:         rr.required("tenant_id"),
			InvestmentEntity: rr.required("investment_entity"),
			EntityAlias:      rr.optString("entity_alias"),
			EntityType:       rr.optString("entity_type"),
			CreatedAt:        rr.timestamp("created_at"),
			UpdatedAt:        rr.timestamp("updated_at"),
		}
	})
}

const fundsSQL = `SELECT id::text AS id, tenant_id::text AS tenant_id, fund_name, fund_type, fund_stage, strategy, sector,
  geography, currency, vintage_year::text AS vintage_year, manager_name, administrator, auditor, legal_counsel,
  domicile, status, target_size::text AS target_size, fund_size::text AS fund_size,
  management_fee::text AS management_fee, carried_interest::text AS carried_interest,
  hurdle_rate::text AS hurdle_rate, gp_commitment::text AS gp_commitment, lockup_period, redemption_frequency,
  notice_period, investment_period, term_years::text AS term_years, inception_date::text AS inception_date,
  first_close_date::text AS first_close_date, final_close_date::text AS final_close_date, notes,
  created_at, updated_at
FROM user_funds`

func (r *Reader) UserFunds(ctx context.Context, f Filter) ([]domain.UserFund, error) {
	sql, args := selectSQL(fundsSQL, "tenant_id", "created_at, id", f)
	return load(ctx, r, "user_funds", sql, args, func(rr *rowReader) domain.UserFund {
		return domain.UserFund{
			ID:                  rr.required("id"),
			TenantID:            rr.required("tenant_id"),
			FundName:            rr.required("fund_name"),
			FundType:            rr.optString("fund_type"),
			FundStage:           rr.optString("fund_stage"),
			Strategy:            rr.optString("strategy"),
			Sector:              rr.optString("sector"),
			Geography:           rr.optString("geography"),
			Currency:            rr.optString("currency"),
			VintageYear:         rr.optString("vintage_year"),
			ManagerName:         rr.optString("manager_name"),
			Administrator:       rr.optString("administrator"),
			Auditor:             rr.optString("auditor"),
			LegalCounsel:        rr.optString("legal_counsel"),
			Domicile:            rr.optString("domicile"),
			Status:              rr.optString("status"),
			TargetSize:          rr.optString("target_size"),
			FundSize:            rr.optString("fund_size"),
			ManagementFee:       rr.optString("management_fee"),
			CarriedInterest:     rr.optString("carried_interest"),
			HurdleRate:          rr.optString("hurdle_rate"),
			GPCommitment:        rr.optString("gp_commitment"),
			LockupPeriod:        rr.optString("lockup_period"),
			RedemptionFrequency: rr.optString("redemption_frequency"),
			NoticePeriod:        rr.optString("notice_period"),
			InvestmentPeriod:    rr.optString("investment_period"),
			TermYears:           rr.optString("term_years"),
			InceptionDate:       rr.optString("inception_date"),
			FirstCloseDate:      rr.optString("first_close_date"),
			FinalCloseDate:      rr.optString("final_close_date"),
			Notes:               rr.optString("notes"),
			CreatedAt:           rr.timestamp("created_at"),
			UpdatedAt:           rr.timestamp("updated_at"),
		}
	})
}

const subscriptionsSQL = `SELECT id::text AS id, tenant_id::text AS tenant_id, fund_name, investment_entity,
  as_of_date::text AS as_of_date, commitment_amount::text AS commitment_amount, created_at, updated_at
FROM subscriptions`

func (r *Reader) Subscriptions(ctx context.Context, f Filter) ([]domain.Subscription, error) {
	sql, args := selectKeyedSQL(subscriptionsSQL, "subscriptions", subscriptionKeyCols, "as_of_date ASC, id", f)
	return load(ctx, r, "subscriptions", sql, args, func(rr *rowReader) domain.Subscription {
		return domain.Subscription{
			ID:               rr.required("id"),
			TenantID:         rr.required("tenant_id"),
			FundName:         rr.required("fund_name"),
			InvestmentEntity: rr.required("investment_entity"),
			AsOfDate:         rr.date("as_of_date"),
			CommitmentAmount: rr.optString("commitment_amount"),
			CreatedAt:        rr.timestamp("created_at"),
			UpdatedAt:        rr.timestamp("updated_at"),
		}
	})
}

func seriesKey(rr *rowReader) domain.SeriesKey {
	return domain.SeriesKey{
		FundName:         rr.required("fund_name"),
		InvestmentEntity: rr.required("investment_entity"),
		TenantID:         rr.required("tenant_id"),
	}
}

const navsSQL = `SELECT tenant_id::text AS tenant_id, fund_name, investment_entity, as_of_date::text AS as_of_date,
  nav_value::text AS value, created_at, updated_at
FROM user_fund_navs`

// NAVs returns valuation rows ordered by as_of_date ascending. With a limit, whole series
// are returned for at most Limit keys.
func (r *Reader) NAVs(ctx context.Context, f Filter) ([]domain.NAVRow, error) {
	sql, args := selectKeyedSQL(navsSQL, "user_fund_navs", seriesKeyCols, "as_of_date ASC, id", f)
	return load(ctx, r, "user_fund_navs", sql, args, func(rr *rowReader) domain.NAVRow {
		return domain.NAVRow{
			Key:       seriesKey(rr),
			AsOfDate:  rr.date("as_of_date"),
			Value:     rr.text("value"),
			CreatedAt: rr.timestamp("created_at"),
			UpdatedAt: rr.timestamp("updated_at"),
		}
	})
}

const movementsSQL = `SELECT tenant_id::text AS tenant_id, fund_name, investment_entity, as_of_date::text AS as_of_date,
  movement_type AS type, amount::text AS amount, created_at, updated_at
FROM user_fund_movements`

const transactionsSQL = `SELECT tenant_id::text AS tenant_id, fund_name, investment_entity, as_of_date::text AS as_of_date,
  transaction_type AS type, amount::text AS amount, created_at, updated_at
FROM user_fund_transactions`

// Movements returns cash-flow rows from the movements table, tagged with their source.
func (r *Reader) Movements(ctx context.Context, f Filter) ([]domain.MovementRow, error) {
	return r.movementRows(ctx, "user_fund_movements", movementsSQL, domain.SourceMovements, f)
}

// Transactions returns cash-flow rows from the transactions table, tagged with their source.
func (r *Reader) Transactions(ctx context.Context, f Filter) ([]domain.MovementRow, error) {
	return r.movementRows(ctx, "user_fund_transactions", transactionsSQL, domain.SourceTransactions, f)
}

func (r *Reader) movementRows(ctx context.Context, table, base, src string, f Filter) ([]domain.MovementRow, error) {
	sql, args := selectKeyedSQL(base, table, seriesKeyCols, "as_of_date ASC, id", f)
	return load(ctx, r, table, sql, args, func(rr *rowReader) domain.MovementRow {
		return domain.MovementRow{
			Key:       seriesKey(rr),
			AsOfDate:  rr.date("as_of_date"),
			Source:    src,
			Type:      rr.text("type"),
			Amount:    rr.text("amount"),
			CreatedAt: rr.timestamp("created_at"),
			UpdatedAt: rr.timestamp("updated_at"),
		}
	})
}
