package consolidate

import (
	"sort"

	"github.com/yungbote/fundgraph/internal/domain"
)

func navKey(r domain.NAVRow) domain.SeriesKey { return r.Key }

// ConsolidateNAV emits one ConsolidatedNAV per key. When two rows share a date the one with
// the later updated_at is kept; on equal updated_at the row seen last wins.
func ConsolidateNAV(rows []domain.NAVRow) []domain.ConsolidatedNAV {
	order, groups := GroupBy(rows, navKey)
	out := make([]domain.ConsolidatedNAV, 0, len(order))
	for _, key := range order {
		out = append(out, consolidateNAVGroup(key, groups[key]))
	}
	return out
}

func consolidateNAVGroup(key domain.SeriesKey, rows []domain.NAVRow) domain.ConsolidatedNAV {
	byDate := make(map[domain.Date]domain.NAVPoint, len(rows))
	var sp span
	for _, r := range rows {
		sp.observe(r.CreatedAt, r.UpdatedAt)
		if prev, ok := byDate[r.AsOfDate]; ok && prev.UpdatedAt.After(r.UpdatedAt) {
			continue
		}
		byDate[r.AsOfDate] = domain.NAVPoint{
			Date:      r.AsOfDate,
			Value:     r.Value,
			Source:    domain.SourceNAV,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}

	series := make(domain.NAVSeries, 0, len(byDate))
	for _, p := range byDate {
		series = append(series, p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	rec := domain.ConsolidatedNAV{
		ID:        NodeID(PrefixNAV, key),
		Key:       key,
		Values:    series,
		Count:     len(series),
		CreatedAt: sp.created,
		UpdatedAt: sp.updated,
	}
	if n := len(series); n > 0 {
		rec.LatestValue = series[n-1].Value
		rec.LatestDate = series[n-1].Date
	}
	return rec
}
