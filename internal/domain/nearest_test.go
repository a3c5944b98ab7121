package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoster = Roster{
	{Name: "Alan", City: "Blumenau", State: "SC", WhatsApp: "4799638565", Lat: -26.9155, Lon: -49.0709},
	{Name: "Peterson", City: "Tubarão", State: "SC", WhatsApp: "4899658600", Lat: -28.4713, Lon: -49.0144},
	{Name: "Cristian", City: "Santa Rosa", State: "RS", WhatsApp: "5984491079", Lat: -27.8702, Lon: -54.4796},
}

func TestSelectNearest_PicksMinimum(t *testing.T) {
	// Florianópolis: Tubarão (~100 km) is closer than Blumenau (~120 km).
	rep, dist, ok := SelectNearest(Coordinates{Lat: -27.5954, Lon: -48.5480}, testRoster, "SC",
		NearestPolicy{CutoffKm: 200})

	require.True(t, ok)
	assert.Equal(t, "Peterson", rep.Name)
	assert.Less(t, dist, 200.0)
}

func TestSelectNearest_RespectsCutoff(t *testing.T) {
	// A single representative ~250 km away must not be returned.
	far := Roster{{Name: "Cristian", State: "RS", Lat: -27.8702, Lon: -54.4796}}

	// Porto Alegre is ~330 km from Santa Rosa.
	_, _, ok := SelectNearest(Coordinates{Lat: -30.0346, Lon: -51.2177}, far, "RS",
		NearestPolicy{CutoffKm: 200})
	assert.False(t, ok)

	// A generous cutoff admits it.
	rep, _, ok := SelectNearest(Coordinates{Lat: -30.0346, Lon: -51.2177}, far, "RS",
		NearestPolicy{CutoffKm: 400})
	require.True(t, ok)
	assert.Equal(t, "Cristian", rep.Name)
}

func TestSelectNearest_EmptyStateDefaultPolicy(t *testing.T) {
	// No roster entries in BA and no fallback: NoMatch regardless of how
	// close out-of-state entries are.
	_, _, ok := SelectNearest(Coordinates{Lat: -26.92, Lon: -49.07}, testRoster, "BA",
		NearestPolicy{CutoffKm: 200})
	assert.False(t, ok)
}

func TestSelectNearest_EmptyStateFallbackAll(t *testing.T) {
	// Same spot, fallback enabled: the whole roster is searched and the
	// Blumenau entry (0 km away) wins despite the state mismatch.
	rep, dist, ok := SelectNearest(Coordinates{Lat: -26.9155, Lon: -49.0709}, testRoster, "BA",
		NearestPolicy{CutoffKm: 200, FallbackAll: true})

	require.True(t, ok)
	assert.Equal(t, "Alan", rep.Name)
	assert.Zero(t, dist)
}

func TestSelectNearest_TieKeepsRosterOrder(t *testing.T) {
	twin := Roster{
		{Name: "First", State: "SC", Lat: -27.0, Lon: -49.0},
		{Name: "Second", State: "SC", Lat: -27.0, Lon: -49.0},
	}

	rep, _, ok := SelectNearest(Coordinates{Lat: -27.1, Lon: -49.1}, twin, "SC",
		NearestPolicy{CutoffKm: 200})
	require.True(t, ok)
	assert.Equal(t, "First", rep.Name)
}

func TestRosterByState(t *testing.T) {
	sc := testRoster.ByState("SC")
	require.Len(t, sc, 2)
	assert.Equal(t, "Alan", sc[0].Name)
	assert.Equal(t, "Peterson", sc[1].Name)
	assert.Empty(t, testRoster.ByState("SP"))
}
