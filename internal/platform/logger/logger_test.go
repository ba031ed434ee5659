package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"neo4j_password", "hunter2",
		"dsn", "postgres://app:pw@db:5432/funds",
		"email", "a@b.c",
		"tenant_id", "t1",
		"dangling",
	})

	assert.Equal(t, "[REDACTED]", out[1])
	assert.Equal(t, "postgres://[REDACTED]@db:5432/funds", out[3])
	assert.True(t, strings.HasPrefix(out[5].(string), "hash:"))
	assert.Equal(t, "t1", out[7])
	assert.Equal(t, "dangling", out[8])
}

func TestRedactDSNWithoutUserinfo(t *testing.T) {
	assert.Equal(t, "bolt://localhost:7687", redactDSN("bolt://localhost:7687"))
}
