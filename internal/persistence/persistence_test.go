package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/package-service/internal/config"
)

func TestDisabledBackends(t *testing.T) {
	ctx := context.Background()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Configured())
	assert.Error(t, pg.Ping(ctx))
	assert.Nil(t, pg.PoolHandle())
	pg.Close()

	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	assert.Nil(t, r)
	assert.False(t, r.Configured())
	assert.Nil(t, r.ClientHandle())
	assert.Error(t, r.Ping(ctx))
	r.Close()
}

func TestRedisConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(r.Close)

	require.True(t, r.Configured())
	assert.NoError(t, r.Ping(context.Background()))
}
