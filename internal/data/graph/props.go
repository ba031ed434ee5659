package graph

import (
	"time"

	"github.com/yungbote/fundgraph/internal/domain"
)

// Every property helper maps "no value" to domain.NullSentinel instead of dropping the key;
// the query assistant relies on each label having one property shape.

func str(s string) any {
	if s == "" {
		return domain.NullSentinel
	}
	return s
}

func optStr(s *string) any {
	if s == nil {
		return domain.NullSentinel
	}
	return *s
}

func optBool(b *bool) any {
	if b == nil {
		return domain.NullSentinel
	}
	return *b
}

func stamp(t time.Time) any {
	return domain.FormatTimestamp(t)
}

func day(d domain.Date) any {
	if d.IsZero() {
		return domain.NullSentinel
	}
	return d.String()
}

func TenantProps(t domain.Tenant) map[string]any {
	return map[string]any{
		"id":         t.ID,
		"name":       str(t.Name),
		"created_at": stamp(t.CreatedAt),
		"updated_at": stamp(t.UpdatedAt),
	}
}

func UserProps(u domain.User) map[string]any {
	return map[string]any{
		"id":                   u.ID,
		"tenant_id":            u.TenantID,
		"email":                optStr(u.Email),
		"first_name":           optStr(u.FirstName),
		"last_name":            optStr(u.LastName),
		"phone":                optStr(u.Phone),
		"role":                 optStr(u.Role),
		"is_active":            optBool(u.IsActive),
		"notify_email":         optBool(u.NotifyEmail),
		"notify_sms":           optBool(u.NotifySMS),
		"notify_capital_calls": optBool(u.NotifyCapitalCalls),
		"notify_distributions": optBool(u.NotifyDistributions),
		"notify_documents":     optBool(u.NotifyDocuments),
		"created_at":           stamp(u.CreatedAt),
		"updated_at":           stamp(u.UpdatedAt),
	}
}

func UserEntityProps(e domain.UserEntity) map[string]any {
	return map[string]any{
		"id":                e.ID,
		"tenant_id":         e.TenantID,
		"investment_entity": e.InvestmentEntity,
		"entity_alias":      optStr(e.EntityAlias),
		"entity_type":       optStr(e.EntityType),
		"created_at":        stamp(e.CreatedAt),
		"updated_at":        stamp(e.UpdatedAt),
	}
}

func UserFundProps(f domain.UserFund) map[string]any {
	return map[string]any{
		"id":                   f.ID,
		"tenant_id":            f.TenantID,
		"fund_name":            f.FundName,
		"fund_type":            optStr(f.FundType),
		"fund_stage":           optStr(f.FundStage),
		"strategy":             optStr(f.Strategy),
		"sector":               optStr(f.Sector),
		"geography":            optStr(f.Geography),
		"currency":             optStr(f.Currency),
		"vintage_year":         optStr(f.VintageYear),
		"manager_name":         optStr(f.ManagerName),
		"administrator":        optStr(f.Administrator),
		"auditor":              optStr(f.Auditor),
		"legal_counsel":        optStr(f.LegalCounsel),
		"domicile":             optStr(f.Domicile),
		"status":               optStr(f.Status),
		"target_size":          optStr(f.TargetSize),
		"fund_size":            optStr(f.FundSize),
		"management_fee":       optStr(f.ManagementFee),
		"carried_interest":     optStr(f.CarriedInterest),
		"hurdle_rate":          optStr(f.HurdleRate),
		"gp_commitment":        optStr(f.GPCommitment),
		"lockup_period":        optStr(f.LockupPeriod),
		"redemption_frequency": optStr(f.RedemptionFrequency),
		"notice_period":        optStr(f.NoticePeriod),
		"investment_period":    optStr(f.InvestmentPeriod),
		"term_years":           optStr(f.TermYears),
		"inception_date":       optStr(f.InceptionDate),
		"first_close_date":     optStr(f.FirstCloseDate),
		"final_close_date":     optStr(f.FinalCloseDate),
		"notes":                optStr(f.Notes),
		"created_at":           stamp(f.CreatedAt),
		"updated_at":           stamp(f.UpdatedAt),
	}
}

func SubscriptionProps(s domain.Subscription) map[string]any {
	return map[string]any{
		"id":                s.ID,
		"tenant_id":         s.TenantID,
		"fund_name":         s.FundName,
		"investment_entity": s.InvestmentEntity,
		"as_of_date":        day(s.AsOfDate),
		"commitment_amount": optStr(s.CommitmentAmount),
		"created_at":        stamp(s.CreatedAt),
		"updated_at":        stamp(s.UpdatedAt),
	}
}

// NAVProps flattens a consolidated NAV; values is the date-ordered JSON series.
func NAVProps(n domain.ConsolidatedNAV) (map[string]any, error) {
	values, err := n.Values.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":                n.ID,
		"tenant_id":         n.Key.TenantID,
		"fund_name":         n.Key.FundName,
		"investment_entity": n.Key.InvestmentEntity,
		"values":            string(values),
		"latest_value":      str(n.LatestValue),
		"latest_date":       day(n.LatestDate),
		"count":             int64(n.Count),
		"created_at":        stamp(n.CreatedAt),
		"updated_at":        stamp(n.UpdatedAt),
	}, nil
}

func MovementsProps(m domain.ConsolidatedMovements) (map[string]any, error) {
	values, err := m.Values.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":                m.ID,
		"tenant_id":         m.Key.TenantID,
		"fund_name":         m.Key.FundName,
		"investment_entity": m.Key.InvestmentEntity,
		"values":            string(values),
		"latest_value":      str(m.LatestValue),
		"latest_type":       str(m.LatestType),
		"latest_date":       day(m.LatestDate),
		"count":             int64(m.Count),
		"created_at":        stamp(m.CreatedAt),
		"updated_at":        stamp(m.UpdatedAt),
	}, nil
}
