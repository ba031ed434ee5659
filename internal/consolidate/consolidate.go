// Package consolidate folds per-date observation rows into one record per
// (fund_name, investment_entity, tenant_id) with an embedded, date-ordered series.
//
// Consolidation is a full recompute: callers always pass every source row for the keys
// they want rebuilt, never a delta.
package consolidate

import (
	"regexp"
	"time"

	"github.com/yungbote/fundgraph/internal/domain"
)

const (
	PrefixNAV       = "nav"
	PrefixMovements = "movements"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

func slug(s string) string {
	return nonAlnum.ReplaceAllString(s, "_")
}

// NodeID is the deterministic id of a consolidated node. The tenant is part of the id so
// two tenants holding identically named funds and entities never share a node.
func NodeID(prefix string, key domain.SeriesKey) string {
	return prefix + "_" + slug(key.TenantID) + "_" + slug(key.FundName) + "_" + slug(key.InvestmentEntity)
}

// GroupBy partitions rows on exact key equality. Keys are returned in first-seen order.
func GroupBy[R any](rows []R, key func(R) domain.SeriesKey) ([]domain.SeriesKey, map[domain.SeriesKey][]R) {
	order := make([]domain.SeriesKey, 0)
	groups := make(map[domain.SeriesKey][]R)
	for _, r := range rows {
		k := key(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return order, groups
}

// span tracks the earliest created_at and latest updated_at of a group. Zero times are
// unknown and never win.
type span struct {
	created time.Time
	updated time.Time
}

func (s *span) observe(created, updated time.Time) {
	if !created.IsZero() && (s.created.IsZero() || created.Before(s.created)) {
		s.created = created
	}
	if !updated.IsZero() && updated.After(s.updated) {
		s.updated = updated
	}
}
