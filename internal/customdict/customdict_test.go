package customdict

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *CustomDict {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client)
}

func TestAddRemoveAll(t *testing.T) {
	ctx := context.Background()
	cd := newStore(t)

	require.NoError(t, cd.Add(ctx, " Kafka "))
	require.NoError(t, cd.Add(ctx, "kubectl"))
	words, err := cd.All(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kafka", "kubectl"}, words)

	require.NoError(t, cd.Remove(ctx, "KAFKA"))
	words, err = cd.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kubectl"}, words)
}
