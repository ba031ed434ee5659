package neo4jdb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/fundgraph/internal/platform/logger"
)

func TestClientAgainstLiveNeo4j(t *testing.T) {
	uri := os.Getenv("TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("set TEST_NEO4J_URI to run neo4j integration tests")
	}
	t.Setenv("NEO4J_URI", uri)

	c, err := NewFromEnv(logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	ctx := context.Background()
	res, err := c.Run(ctx, "MERGE (n:IntegrationProbe {id: $id}) RETURN n.id AS id", map[string]any{"id": "probe-1"})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "probe-1", res.Records[0]["id"])

	again, err := c.Run(ctx, "MERGE (n:IntegrationProbe {id: $id}) RETURN n.id AS id", map[string]any{"id": "probe-1"})
	require.NoError(t, err)
	assert.Zero(t, again.Summary.NodesCreated)

	read, err := c.Read(ctx, "MATCH (n:IntegrationProbe) RETURN count(n) AS n", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, read.Records[0]["n"])

	_, err = c.Run(ctx, "MATCH (n:IntegrationProbe) DETACH DELETE n", nil)
	require.NoError(t, err)
}

func TestClosedClientErrors(t *testing.T) {
	var c *Client
	_, err := c.Run(context.Background(), "RETURN 1", nil)
	assert.Error(t, err)
	assert.NoError(t, c.Close(context.Background()))
}

func TestNewFromEnvRequiresURI(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	_, err := NewFromEnv(logger.NewNop())
	assert.ErrorContains(t, err, "NEO4J_URI")
}
