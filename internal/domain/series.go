package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// FormatTimestamp renders t in UTC RFC3339, or the null sentinel when unset.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return NullSentinel
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// orNull maps an empty value or amount to the null sentinel.
func orNull(s string) string {
	if s == "" {
		return NullSentinel
	}
	return s
}

type NAVPoint struct {
	Date      Date
	Value     string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NAVSeries holds at most one point per date, ascending.
type NAVSeries []NAVPoint

type navPointJSON struct {
	Value     string `json:"value"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MarshalJSON encodes the series as a date-keyed object whose keys appear in date order,
// so the same series always serialises to the same bytes.
func (s NAVSeries) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(s), func(i int) (string, any) {
		p := s[i]
		return p.Date.String(), navPointJSON{
			Value:     orNull(p.Value),
			Source:    p.Source,
			CreatedAt: FormatTimestamp(p.CreatedAt),
			UpdatedAt: FormatTimestamp(p.UpdatedAt),
		}
	})
}

type MovementEntry struct {
	Source    string
	Type      string
	Amount    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MovementDay struct {
	Date    Date
	Entries []MovementEntry
}

// MovementSeries holds one day per date, ascending; a day may carry several entries
// (one per source and movement type).
type MovementSeries []MovementDay

type movementEntryJSON struct {
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (s MovementSeries) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(s), func(i int) (string, any) {
		day := s[i]
		entries := make([]movementEntryJSON, 0, len(day.Entries))
		for _, e := range day.Entries {
			entries = append(entries, movementEntryJSON{
				Type:      e.Type,
				Amount:    orNull(e.Amount),
				Source:    e.Source,
				CreatedAt: FormatTimestamp(e.CreatedAt),
				UpdatedAt: FormatTimestamp(e.UpdatedAt),
			})
		}
		return day.Date.String(), entries
	})
}

func marshalOrdered(n int, at func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		key, val := at(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type ConsolidatedNAV struct {
	ID          string
	Key         SeriesKey
	Values      NAVSeries
	LatestValue string
	LatestDate  Date
	Count       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ConsolidatedMovements struct {
	ID          string
	Key         SeriesKey
	Values      MovementSeries
	LatestValue string
	LatestType  string
	LatestDate  Date
	Count       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
