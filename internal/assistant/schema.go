// Package assistant answers natural-language questions against the investment graph by
// translating them to read-only Cypher and running them for one tenant.
package assistant

import (
	"fmt"
	"strings"

	"github.com/yungbote/fundgraph/internal/domain"
)

type nodeSchema struct {
	label string
	props string
}

var nodeSchemas = []nodeSchema{
	{domain.LabelTenant, "id, name, created_at, updated_at"},
	{domain.LabelUser, "id, tenant_id, email, first_name, last_name, phone, role, is_active, notify_email, notify_sms, notify_capital_calls, notify_distributions, notify_documents"},
	{domain.LabelUserEntity, "id, tenant_id, investment_entity, entity_alias, entity_type"},
	{domain.LabelUserFund, "id, tenant_id, fund_name, fund_type, fund_stage, strategy, sector, geography, currency, vintage_year, manager_name, status, target_size, fund_size, management_fee, carried_interest, hurdle_rate, lockup_period, redemption_frequency, term_years"},
	{domain.LabelSubscription, "id, tenant_id, fund_name, investment_entity, as_of_date, commitment_amount"},
	{domain.LabelNAV, "id, tenant_id, fund_name, investment_entity, values (JSON string keyed by YYYY-MM-DD), latest_value, latest_date, count"},
	{domain.LabelMovements, "id, tenant_id, fund_name, investment_entity, values (JSON string keyed by YYYY-MM-DD), latest_value, latest_type, latest_date, count"},
}

type relSchema struct {
	from, typ, to string
}

var relSchemas = []relSchema{
	{domain.LabelUser, domain.RelBelongsTo, domain.LabelTenant},
	{domain.LabelTenant, domain.RelManages, domain.LabelUserEntity},
	{domain.LabelTenant, domain.RelManages, domain.LabelUserFund},
	{domain.LabelUserEntity, domain.RelInvestedIn, domain.LabelUserFund},
	{domain.LabelUserFund, domain.RelHasSubscription, domain.LabelSubscription},
	{domain.LabelUserEntity, domain.RelHasSubscription, domain.LabelSubscription},
	{domain.LabelSubscription, domain.RelHasNAV, domain.LabelNAV},
	{domain.LabelSubscription, domain.RelHasMovements, domain.LabelMovements},
	{domain.LabelTenant, domain.RelInterest, domain.LabelUserFund},
}

// SchemaDescription renders the graph vocabulary the translator prompt is built on.
func SchemaDescription() string {
	var sb strings.Builder
	sb.WriteString("Node labels and properties:\n")
	for _, n := range nodeSchemas {
		fmt.Fprintf(&sb, "- (:%s) %s\n", n.label, n.props)
	}
	sb.WriteString("\nRelationships:\n")
	for _, r := range relSchemas {
		fmt.Fprintf(&sb, "- (:%s)-[:%s]->(:%s)\n", r.from, r.typ, r.to)
	}
	fmt.Fprintf(&sb, "\nMissing values are stored as the string %q. Amounts and values are strings.\n", domain.NullSentinel)
	return sb.String()
}
