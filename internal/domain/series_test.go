package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, raw string) Date {
	t.Helper()
	d, err := ParseDate(raw)
	require.NoError(t, err)
	return d
}

func TestParseDateLayouts(t *testing.T) {
	for _, raw := range []string{"2023-03-01", "2023-03-01T10:00:00Z", "2023-03-01 23:59:59"} {
		assert.Equal(t, "2023-03-01", mustDate(t, raw).String(), raw)
	}
	_, err := ParseDate("03/01/2023")
	assert.Error(t, err)
}

func TestDateOrderingIsChronological(t *testing.T) {
	// "2023-9-1" would sort after "2023-10-01" as a string.
	a := mustDate(t, "2023-09-01")
	b := mustDate(t, "2023-10-01")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
}

func TestNAVSeriesMarshalIsOrdered(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NAVSeries{
		{Date: mustDate(t, "2023-01-01"), Value: "100", Source: SourceNAV, CreatedAt: ts, UpdatedAt: ts},
		{Date: mustDate(t, "2023-02-01"), Value: "105", Source: SourceNAV},
	}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"2023-01-01":{"value":"100","source":"navs","created_at":"2024-01-02T03:04:05Z","updated_at":"2024-01-02T03:04:05Z"},`+
			`"2023-02-01":{"value":"105","source":"navs","created_at":"__NULL__","updated_at":"__NULL__"}}`,
		string(raw))
}

func TestMovementSeriesMarshal(t *testing.T) {
	s := MovementSeries{{
		Date: mustDate(t, "2023-01-01"),
		Entries: []MovementEntry{
			{Source: SourceMovements, Type: "capital_call", Amount: "10"},
			{Source: SourceTransactions, Type: "fee", Amount: "1"},
		},
	}}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"2023-01-01":[{"type":"capital_call","amount":"10","source":"movements"`)
	assert.Contains(t, string(raw), `{"type":"fee","amount":"1","source":"transactions"`)
}

func TestSeriesMarshalNullValues(t *testing.T) {
	nav, err := json.Marshal(NAVSeries{{Date: mustDate(t, "2023-01-01"), Source: SourceNAV}})
	require.NoError(t, err)
	assert.Contains(t, string(nav), `"value":"__NULL__"`)

	mv, err := json.Marshal(MovementSeries{{
		Date:    mustDate(t, "2023-01-01"),
		Entries: []MovementEntry{{Source: SourceMovements, Type: "fee"}},
	}})
	require.NoError(t, err)
	assert.Contains(t, string(mv), `"amount":"__NULL__"`)
}
