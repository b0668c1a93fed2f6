// Package demand produces the exogenous customer demand signal: a fixed
// 6-phase market-cycle schedule over 20 rounds plus bounded random noise.
package demand

import (
	"math"
	"math/rand"
)

// Rounds is the fixed length of a game.
const Rounds = 20

// Phase bounds the demand draw for the rounds it covers.
type Phase struct {
	Min        int
	Max        int
	Volatility float64
}

// Schedule assigns one phase per round, index 0 = round 1.
type Schedule [Rounds]Phase

// phaseBlock is a phase applied to a run of consecutive rounds.
type phaseBlock struct {
	rounds int
	phase  Phase
}

// defaultBlocks encodes the market cycle: stable low, ramp, peak,
// sharp drop, stabilize, closing spike.
var defaultBlocks = []phaseBlock{
	{5, Phase{Min: 4, Max: 6, Volatility: 0.10}},
	{4, Phase{Min: 6, Max: 9, Volatility: 0.15}},
	{3, Phase{Min: 9, Max: 13, Volatility: 0.20}},
	{3, Phase{Min: 4, Max: 7, Volatility: 0.25}},
	{3, Phase{Min: 5, Max: 7, Volatility: 0.10}},
	{2, Phase{Min: 10, Max: 14, Volatility: 0.30}},
}

// DefaultSchedule expands the built-in phase blocks into a per-round schedule.
func DefaultSchedule() Schedule {
	var s Schedule
	i := 0
	for _, b := range defaultBlocks {
		for r := 0; r < b.rounds; r++ {
			s[i] = b.phase
			i++
		}
	}
	return s
}

// Generator draws per-round demand from a schedule. All randomness comes from
// the injected source, so a fixed seed replays the same demand sequence.
type Generator struct {
	schedule Schedule
	rng      *rand.Rand
}

// NewGenerator builds a generator over the given schedule and random source.
func NewGenerator(schedule Schedule, rng *rand.Rand) *Generator {
	return &Generator{schedule: schedule, rng: rng}
}

// Demand returns the customer demand for a round, or 0 outside [1, Rounds].
// The draw is base ~ U[min,max] plus noise ~ U[-1,1]*volatility*base,
// rounded and clamped to zero.
func (g *Generator) Demand(round int) int {
	if round < 1 || round > Rounds {
		return 0
	}
	p := g.schedule[round-1]
	base := p.Min + g.rng.Intn(p.Max-p.Min+1)
	noise := (g.rng.Float64()*2 - 1) * p.Volatility * float64(base)
	q := int(math.Round(float64(base) + noise))
	if q < 0 {
		return 0
	}
	return q
}
