package demand

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScheduleShape(t *testing.T) {
	s := DefaultSchedule()

	// Phase blocks partition the rounds 5+4+3+3+3+2.
	boundaries := []struct {
		firstRound int
		phase      Phase
	}{
		{1, Phase{4, 6, 0.10}},
		{6, Phase{6, 9, 0.15}},
		{10, Phase{9, 13, 0.20}},
		{13, Phase{4, 7, 0.25}},
		{16, Phase{5, 7, 0.10}},
		{19, Phase{10, 14, 0.30}},
	}
	for _, b := range boundaries {
		assert.Equal(t, b.phase, s[b.firstRound-1], "round %d", b.firstRound)
	}
	for i, p := range s {
		assert.LessOrEqual(t, p.Min, p.Max, "round %d", i+1)
		assert.GreaterOrEqual(t, p.Volatility, 0.0, "round %d", i+1)
	}
}

func TestDemandBoundsAndClamp(t *testing.T) {
	g := NewGenerator(DefaultSchedule(), rand.New(rand.NewSource(7)))
	s := DefaultSchedule()

	for trial := 0; trial < 200; trial++ {
		for round := 1; round <= Rounds; round++ {
			d := g.Demand(round)
			p := s[round-1]
			upper := int(math.Ceil(float64(p.Max) * (1 + p.Volatility)))
			assert.GreaterOrEqual(t, d, 0)
			assert.LessOrEqual(t, d, upper, "round %d", round)
		}
	}
}

func TestDemandOutsideGameIsZero(t *testing.T) {
	g := NewGenerator(DefaultSchedule(), rand.New(rand.NewSource(1)))
	assert.Zero(t, g.Demand(0))
	assert.Zero(t, g.Demand(-3))
	assert.Zero(t, g.Demand(Rounds+1))
}

func TestDemandDeterministicUnderSeed(t *testing.T) {
	a := NewGenerator(DefaultSchedule(), rand.New(rand.NewSource(42)))
	b := NewGenerator(DefaultSchedule(), rand.New(rand.NewSource(42)))

	for round := 1; round <= Rounds; round++ {
		assert.Equal(t, a.Demand(round), b.Demand(round), "round %d", round)
	}
}

func TestLoadSchedule(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	good := write("good.yaml", `
phases:
  - {rounds: 10, min: 3, max: 5, volatility: 0.1}
  - {rounds: 10, min: 8, max: 12, volatility: 0.2}
`)
	s, err := LoadSchedule(good)
	require.NoError(t, err)
	assert.Equal(t, Phase{3, 5, 0.1}, s[0])
	assert.Equal(t, Phase{3, 5, 0.1}, s[9])
	assert.Equal(t, Phase{8, 12, 0.2}, s[10])
	assert.Equal(t, Phase{8, 12, 0.2}, s[19])

	cases := map[string]string{
		"short.yaml":    "phases:\n  - {rounds: 5, min: 1, max: 2, volatility: 0}\n",
		"long.yaml":     "phases:\n  - {rounds: 25, min: 1, max: 2, volatility: 0}\n",
		"bounds.yaml":   "phases:\n  - {rounds: 20, min: 5, max: 2, volatility: 0}\n",
		"negvol.yaml":   "phases:\n  - {rounds: 20, min: 1, max: 2, volatility: -0.5}\n",
		"empty.yaml":    "phases: []\n",
		"norounds.yaml": "phases:\n  - {rounds: 0, min: 1, max: 2, volatility: 0}\n",
	}
	for name, body := range cases {
		_, err := LoadSchedule(write(name, body))
		assert.ErrorIs(t, err, ErrBadSchedule, name)
	}

	_, err = LoadSchedule(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
