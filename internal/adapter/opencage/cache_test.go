package opencage

import (
	"context"
	"errors"
	"testing"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	coords       domain.Coordinates
	place        domain.Place
	err          error
	forwardCalls int
	reverseCalls int
}

func (c *countingGeocoder) Geocode(_ context.Context, _ string) (domain.Coordinates, error) {
	c.forwardCalls++
	return c.coords, c.err
}

func (c *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.Place, error) {
	c.reverseCalls++
	return c.place, c.err
}

func TestCachedGeocoder_ForwardHit(t *testing.T) {
	inner := &countingGeocoder{coords: domain.Coordinates{Lat: -27.87, Lon: -54.48}}
	c := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	for range 3 {
		coords, err := c.Geocode(context.Background(), "Santa Rosa - RS, Brasil")
		require.NoError(t, err)
		assert.Equal(t, -27.87, coords.Lat)
	}

	assert.Equal(t, 1, inner.forwardCalls)
}

func TestCachedGeocoder_DistinctQueriesMiss(t *testing.T) {
	inner := &countingGeocoder{}
	c := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = c.Geocode(context.Background(), "query one")
	_, _ = c.Geocode(context.Background(), "query two")

	assert.Equal(t, 2, inner.forwardCalls)
}

func TestCachedGeocoder_ErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	c := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := c.Geocode(context.Background(), "q")
	require.Error(t, err)
	_, err = c.Geocode(context.Background(), "q")
	require.Error(t, err)

	assert.Equal(t, 2, inner.forwardCalls)
}

func TestCachedGeocoder_ReverseHit(t *testing.T) {
	inner := &countingGeocoder{place: domain.Place{City: "Loanda", State: "PR"}}
	c := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	for range 2 {
		place, err := c.ReverseGeocode(context.Background(), -22.9297, -53.1366)
		require.NoError(t, err)
		assert.Equal(t, "Loanda", place.City)
	}

	assert.Equal(t, 1, inner.reverseCalls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", cached{place: domain.Place{City: "A"}})
	c.put("b", cached{place: domain.Place{City: "B"}})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", cached{place: domain.Place{City: "C"}})

	_, ok = c.get("b")
	assert.False(t, ok)
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExistingKey(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", cached{place: domain.Place{City: "old"}})
	c.put("a", cached{place: domain.Place{City: "new"}})

	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "new", v.place.City)
	assert.Len(t, c.entries, 1)
}
