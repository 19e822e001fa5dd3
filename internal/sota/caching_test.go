package sota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/alexjj/wen-goat/internal/cache"
	"github.com/alexjj/wen-goat/internal/domain"
)

type countingUpstream struct {
	resolveCalls int
	fetchCalls   int
	resolveErr   error
	records      []domain.ActivationRecord
}

func (u *countingUpstream) ResolveUserID(_ context.Context, callsign string) (int64, error) {
	u.resolveCalls++
	if u.resolveErr != nil {
		return 0, u.resolveErr
	}
	return int64(len(callsign)), nil
}

func (u *countingUpstream) FetchActivations(_ context.Context, _ int64) ([]domain.ActivationRecord, error) {
	u.fetchCalls++
	return u.records, nil
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

type readOnlyStore struct {
	*cache.MemoryStore
}

func (readOnlyStore) Set(context.Context, string, []byte) error {
	return errors.New("READONLY You can't write against a read only replica.")
}

func cacheLookups(t *testing.T, kind, result string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "wengoat_cache_lookups_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["kind"] == kind && labels["result"] == result {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestCachingClientMemoisesBothCalls(t *testing.T) {
	ctx := context.Background()
	upstream := &countingUpstream{records: []domain.ActivationRecord{
		{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), CumulativeTotal: 12},
	}}
	client := NewCachingClient(upstream, cache.NewMemoryStore(), nil)

	for i := 0; i < 3; i++ {
		id, err := client.ResolveUserID(ctx, "M0ABC")
		require.NoError(t, err)
		require.Equal(t, int64(5), id)

		records, err := client.FetchActivations(ctx, id)
		require.NoError(t, err)
		require.Equal(t, upstream.records, records)
	}

	require.Equal(t, 1, upstream.resolveCalls)
	require.Equal(t, 1, upstream.fetchCalls)
}

func TestCachingClientDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	upstream := &countingUpstream{resolveErr: domain.ErrResolutionFailed}
	client := NewCachingClient(upstream, cache.NewMemoryStore(), nil)

	_, err := client.ResolveUserID(ctx, "N0PE")
	require.ErrorIs(t, err, domain.ErrResolutionFailed)
	_, err = client.ResolveUserID(ctx, "N0PE")
	require.ErrorIs(t, err, domain.ErrResolutionFailed)
	require.Equal(t, 2, upstream.resolveCalls)
}

func TestCachingClientCachesEmptyHistory(t *testing.T) {
	ctx := context.Background()
	upstream := &countingUpstream{records: []domain.ActivationRecord{}}
	client := NewCachingClient(upstream, cache.NewMemoryStore(), nil)

	for i := 0; i < 2; i++ {
		records, err := client.FetchActivations(ctx, 7)
		require.NoError(t, err)
		require.Empty(t, records)
	}
	require.Equal(t, 1, upstream.fetchCalls)
}

func TestCachingClientFallsBackWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	upstream := &countingUpstream{}
	client := NewCachingClient(upstream, brokenStore{}, nil)

	before := cacheLookups(t, "callsign", "bypass")

	id, err := client.ResolveUserID(ctx, "G4XYZ")
	require.NoError(t, err)
	require.Equal(t, int64(5), id)
	require.Equal(t, 1, upstream.resolveCalls)
	require.Equal(t, before+1, cacheLookups(t, "callsign", "bypass"))

	_, err = client.FetchActivations(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 1, upstream.fetchCalls)
}

func TestCachingClientCallsUpstreamOnceWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	upstream := &countingUpstream{records: []domain.ActivationRecord{
		{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), CumulativeTotal: 12},
	}}
	client := NewCachingClient(upstream, readOnlyStore{cache.NewMemoryStore()}, nil)

	id, err := client.ResolveUserID(ctx, "M0ABC")
	require.NoError(t, err)
	require.Equal(t, int64(5), id)
	require.Equal(t, 1, upstream.resolveCalls)

	records, err := client.FetchActivations(ctx, id)
	require.NoError(t, err)
	require.Equal(t, upstream.records, records)
	require.Equal(t, 1, upstream.fetchCalls)
}
