package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/amanihealth/amani/internal/cache"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/stretchr/testify/require"
)

type stubProfile struct {
	entry *cache.Entry[healthsdk.UserProfile]
	err   error
	delay time.Duration
}

func (s stubProfile) Get(ctx context.Context) (*cache.Entry[healthsdk.UserProfile], error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.entry, s.err
}

type stubRecords struct {
	records []healthsdk.MedicalRecord
	src     cache.Source
	err     error
}

func (s stubRecords) List(context.Context) ([]healthsdk.MedicalRecord, cache.Source, error) {
	return s.records, s.src, s.err
}

func freshProfile() *cache.Entry[healthsdk.UserProfile] {
	return &cache.Entry[healthsdk.UserProfile]{
		Value:  healthsdk.UserProfile{ID: "u1", FullName: "Grace"},
		Source: cache.SourceFresh,
	}
}

func TestHydrateBothFresh(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(
		stubProfile{entry: freshProfile()},
		stubRecords{src: cache.SourceFresh},
	)

	res := c.Hydrate(context.Background())
	require.True(t, res.ProfileOK)
	require.True(t, res.RecordsOK)
}

func TestHydratePartialResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile stubProfile
		records stubRecords
		want    Result
	}{
		{
			name:    "profile fails records land",
			profile: stubProfile{err: &healthsdk.APIError{Kind: healthsdk.KindNetworkUnavailable}},
			records: stubRecords{src: cache.SourceFresh},
			want:    Result{ProfileOK: false, RecordsOK: true},
		},
		{
			name:    "records fail profile lands",
			profile: stubProfile{entry: freshProfile()},
			records: stubRecords{err: &healthsdk.APIError{Kind: healthsdk.KindServer}},
			want:    Result{ProfileOK: true, RecordsOK: false},
		},
		{
			name:    "stale fallbacks are not fresh",
			profile: stubProfile{entry: func() *cache.Entry[healthsdk.UserProfile] { e := freshProfile(); e.Source = cache.SourceStale; return e }()},
			records: stubRecords{src: cache.SourceStale},
			want:    Result{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := NewCoordinator(tc.profile, tc.records).Hydrate(context.Background())
			require.Equal(t, tc.want, res)
		})
	}
}

func TestHydrateWaitsForBoth(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(
		stubProfile{entry: freshProfile(), delay: 50 * time.Millisecond},
		stubRecords{src: cache.SourceFresh},
	)

	start := time.Now()
	res := c.Hydrate(context.Background())
	require.True(t, res.ProfileOK)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
