package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"supplement-workers/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_PingAndClose(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedis(config.RedisConfig{Address: mr.Addr(), PoolSize: 2})
	require.NoError(t, err)

	assert.NoError(t, rdb.Ping(context.Background()))
	require.NoError(t, rdb.Close())
	assert.Error(t, rdb.Ping(context.Background()))
}

func TestRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func esServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestElasticsearch_Ping(t *testing.T) {
	srv := esServer(t, http.StatusOK)

	es, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	assert.NoError(t, es.Ping(context.Background()))
}

func TestElasticsearch_PingErrorStatus(t *testing.T) {
	srv := esServer(t, http.StatusUnauthorized)

	es, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	err = es.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestElasticsearch_RequiresAddresses(t *testing.T) {
	_, err := NewElasticsearch(config.ElasticsearchConfig{})
	assert.Error(t, err)
}
