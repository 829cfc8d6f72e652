package llama_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alejandrodnm/yieldsite/internal/adapters/llama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPools_Success(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/llama_pools.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pools", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	client := llama.NewClient(srv.URL+"/pools", time.Second)
	pools, err := client.FetchPools(context.Background())

	require.NoError(t, err)
	require.Len(t, pools, 3)

	p := pools[0]
	assert.Equal(t, "Ethereum", p.Chain)
	assert.Equal(t, "lido", p.Project)
	assert.Equal(t, "STETH", p.Symbol)
	assert.Equal(t, "747c1d2a-c668-4682-b9f9-296708a3dd90", p.Pool)
	assert.InDelta(t, 23917612345, p.TVLUsd, 0.5)
	assert.InDelta(t, 2.9, p.APY, 0.0001)
	require.NotNil(t, p.Sigma)
	assert.InDelta(t, 0.04, *p.Sigma, 0.0001)
	assert.Nil(t, p.APYReward)
	assert.Nil(t, p.PoolMeta)
	require.NotNil(t, p.Count)
	assert.Equal(t, 1000, *p.Count)

	// sigma: null y sigma ausente son lo mismo
	assert.Nil(t, pools[1].Sigma)
	assert.Nil(t, pools[2].Sigma)
	assert.Zero(t, pools[0].StabilityScore, "score is computed by the fetcher, not the API")

	// claves que Pool no modela se conservan para reescribirlas
	require.Len(t, p.Extra, 3)
	assert.JSONEq(t, `2.87`, string(p.Extra["apyBase7d"]))
	assert.JSONEq(t, `null`, string(p.Extra["il7d"]))
}

func TestFetchPools_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","data":[]}`))
	}))
	defer srv.Close()

	_, err := llama.NewClient(srv.URL, time.Second).FetchPools(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, llama.ErrBadStatus)
}

func TestFetchPools_MissingStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"pool":"x"}]}`))
	}))
	defer srv.Close()

	_, err := llama.NewClient(srv.URL, time.Second).FetchPools(context.Background())
	assert.ErrorIs(t, err, llama.ErrBadStatus)
}

func TestFetchPools_ServerErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := llama.NewClient(srv.URL, time.Second).FetchPools(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, 1, calls)
}

func TestFetchPools_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":[`))
	}))
	defer srv.Close()

	_, err := llama.NewClient(srv.URL, time.Second).FetchPools(context.Background())
	assert.Error(t, err)
}

func TestFetchPools_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status":"success","data":[]}`))
	}))
	defer srv.Close()

	_, err := llama.NewClient(srv.URL, 20*time.Millisecond).FetchPools(context.Background())
	assert.Error(t, err)
}

func TestFetchPools_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	pools, err := llama.NewClient(srv.URL, time.Second).FetchPools(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pools)
	assert.NotNil(t, pools)
}

func TestFetchPools_CancelledContextSendsNothing(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := llama.NewClient(srv.URL, time.Second).FetchPools(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
