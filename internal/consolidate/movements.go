package consolidate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yungbote/fundgraph/internal/domain"
)

func movementKey(r domain.MovementRow) domain.SeriesKey { return r.Key }

type entryKey struct {
	source string
	typ    string
}

type trackedEntry struct {
	domain.MovementEntry
	seq int
}

// ConsolidateMovements merges the movements and transactions tables into one
// ConsolidatedMovements per key. Rows on the same date from the same source with the same
// type are summed; anything else on that date is kept as a separate entry.
func ConsolidateMovements(movements, transactions []domain.MovementRow) []domain.ConsolidatedMovements {
	all := make([]domain.MovementRow, 0, len(movements)+len(transactions))
	all = append(all, movements...)
	all = append(all, transactions...)

	order, groups := GroupBy(all, movementKey)
	out := make([]domain.ConsolidatedMovements, 0, len(order))
	for _, key := range order {
		out = append(out, consolidateMovementGroup(key, groups[key]))
	}
	return out
}

func consolidateMovementGroup(key domain.SeriesKey, rows []domain.MovementRow) domain.ConsolidatedMovements {
	days := make(map[domain.Date][]*trackedEntry)
	var sp span
	for seq, r := range rows {
		sp.observe(r.CreatedAt, r.UpdatedAt)
		days[r.AsOfDate] = mergeEntry(days[r.AsOfDate], r, seq)
	}

	dates := make([]domain.Date, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := make(domain.MovementSeries, 0, len(dates))
	for _, d := range dates {
		entries := days[d]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Source != entries[j].Source {
				return entries[i].Source < entries[j].Source
			}
			return entries[i].Type < entries[j].Type
		})
		day := domain.MovementDay{Date: d, Entries: make([]domain.MovementEntry, 0, len(entries))}
		for _, e := range entries {
			day.Entries = append(day.Entries, e.MovementEntry)
		}
		series = append(series, day)
	}

	rec := domain.ConsolidatedMovements{
		ID:        NodeID(PrefixMovements, key),
		Key:       key,
		Values:    series,
		Count:     len(series),
		CreatedAt: sp.created,
		UpdatedAt: sp.updated,
	}
	if n := len(dates); n > 0 {
		last := latestEntry(days[dates[n-1]])
		rec.LatestDate = dates[n-1]
		rec.LatestValue = last.Amount
		rec.LatestType = last.Type
	}
	return rec
}

func mergeEntry(entries []*trackedEntry, r domain.MovementRow, seq int) []*trackedEntry {
	k := entryKey{source: r.Source, typ: r.Type}
	for _, e := range entries {
		if (entryKey{source: e.Source, typ: e.Type}) != k {
			continue
		}
		sum, ok := addAmounts(e.Amount, r.Amount)
		if !ok {
			break
		}
		e.Amount = sum
		e.seq = seq
		if !r.CreatedAt.IsZero() && (e.CreatedAt.IsZero() || r.CreatedAt.Before(e.CreatedAt)) {
			e.CreatedAt = r.CreatedAt
		}
		if r.UpdatedAt.After(e.UpdatedAt) {
			e.UpdatedAt = r.UpdatedAt
		}
		return entries
	}
	return append(entries, &trackedEntry{
		MovementEntry: domain.MovementEntry{
			Source:    r.Source,
			Type:      r.Type,
			Amount:    r.Amount,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		seq: seq,
	})
}

// addAmounts sums two decimal strings. Amounts that do not parse are not summed and the
// rows stay separate entries.
func addAmounts(a, b string) (string, bool) {
	da, err := decimal.NewFromString(a)
	if err != nil {
		return "", false
	}
	db, err := decimal.NewFromString(b)
	if err != nil {
		return "", false
	}
	return da.Add(db).String(), true
}

func latestEntry(entries []*trackedEntry) *trackedEntry {
	var last *trackedEntry
	for _, e := range entries {
		if last == nil || e.seq > last.seq {
			last = e
		}
	}
	return last
}
