package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackline/internal/apperrors"
	"trackline/internal/cache"
	"trackline/internal/testsupport"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "dashboard:summary:7:10", cache.Key(7, 10))
	assert.Equal(t, "dashboard:summary:30:5", cache.Key(30, 5))
}

func TestPutGetRoundTrip(t *testing.T) {
	summaries, _ := testsupport.SetupSummaryCache(t, 5*time.Minute)
	ctx := context.Background()

	payload := []byte(`{"days":7,"totalEvents":42}`)
	require.NoError(t, summaries.Put(ctx, 7, 10, payload))

	got, err := summaries.Get(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGetMissOnEmptyCache(t *testing.T) {
	summaries, _ := testsupport.SetupSummaryCache(t, 5*time.Minute)

	_, err := summaries.Get(context.Background(), 7, 10)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestKeysAreIndependentPerParameters(t *testing.T) {
	summaries, _ := testsupport.SetupSummaryCache(t, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, summaries.Put(ctx, 7, 10, []byte("seven")))

	_, err := summaries.Get(ctx, 30, 10)
	assert.ErrorIs(t, err, cache.ErrMiss)

	got, err := summaries.Get(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("seven"), got)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	summaries, mr := testsupport.SetupSummaryCache(t, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, summaries.Put(ctx, 7, 10, []byte("fresh")))

	mr.FastForward(5*time.Minute + time.Second)

	_, err := summaries.Get(ctx, 7, 10)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestPutRestartsTTL(t *testing.T) {
	summaries, mr := testsupport.SetupSummaryCache(t, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, summaries.Put(ctx, 7, 10, []byte("first")))
	mr.FastForward(4 * time.Minute)
	require.NoError(t, summaries.Put(ctx, 7, 10, []byte("second")))
	mr.FastForward(4 * time.Minute)

	// Eight minutes after the first write, but the second write
	// restarted the clock.
	got, err := summaries.Get(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestInvalidate(t *testing.T) {
	summaries, _ := testsupport.SetupSummaryCache(t, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, summaries.Put(ctx, 7, 10, []byte("stale")))
	require.NoError(t, summaries.Invalidate(ctx, 7, 10))

	_, err := summaries.Get(ctx, 7, 10)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestInvalidateMissingKeyIsNoop(t *testing.T) {
	summaries, _ := testsupport.SetupSummaryCache(t, 5*time.Minute)
	assert.NoError(t, summaries.Invalidate(context.Background(), 7, 10))
}

func TestBackendDownIsUnavailableNotMiss(t *testing.T) {
	summaries, mr := testsupport.SetupSummaryCache(t, 5*time.Minute)
	ctx := context.Background()
	mr.Close()

	_, err := summaries.Get(ctx, 7, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCacheUnavailable)
	assert.NotErrorIs(t, err, cache.ErrMiss)

	err = summaries.Put(ctx, 7, 10, []byte("x"))
	assert.ErrorIs(t, err, apperrors.ErrCacheUnavailable)
}
