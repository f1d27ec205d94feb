package db

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestConnectRedisSingleNode(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(RedisConfig{Addresses: []string{mr.Addr()}, PoolSize: 2})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(t.Context(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestConnectRedisRequiresAddress(t *testing.T) {
	client, err := ConnectRedis(RedisConfig{})
	require.Error(t, err)
	require.Nil(t, client)

	client, err = ConnectRedis(RedisConfig{ClusterMode: true})
	require.Error(t, err)
	require.Nil(t, client)
}

func TestConnectDBRequiresURL(t *testing.T) {
	conn, err := ConnectDB(PostgresConfig{})
	require.Error(t, err)
	require.Nil(t, conn)
}
