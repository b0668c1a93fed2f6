package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"bullwhip-go/internal/chain"
)

func TestPolicyFor(t *testing.T) {
	// Opening rounds: everyone is cautious.
	for round := 1; round < 5; round++ {
		for _, role := range chain.Order {
			assert.Equal(t, PolicyConservative, PolicyFor(round, role), "round %d %s", round, role)
		}
	}

	// Mid game: role-specific temperaments.
	for round := 5; round < 12; round++ {
		assert.Equal(t, PolicyReactive, PolicyFor(round, chain.Retailer))
		assert.Equal(t, PolicyBalanced, PolicyFor(round, chain.Distributor))
		assert.Equal(t, PolicyBalanced, PolicyFor(round, chain.Wholesaler))
		assert.Equal(t, PolicyConservative, PolicyFor(round, chain.Manufacturer))
		assert.Equal(t, PolicyAggressive, PolicyFor(round, chain.Supplier))
	}

	// Late game: everyone chases the trend.
	for _, round := range []int{12, 15, 20} {
		for _, role := range chain.Order {
			assert.Equal(t, PolicyReactive, PolicyFor(round, role), "round %d %s", round, role)
		}
	}
}

func TestDecideDeterministicUnderSeed(t *testing.T) {
	in := PolicyInput{Inventory: 10, OrderHistory: []int{5, 6, 7}}
	for _, p := range []Policy{PolicyConservative, PolicyBalanced, PolicyAggressive, PolicyReactive} {
		a := Decide(p, in, 8, rand.New(rand.NewSource(99)))
		b := Decide(p, in, 8, rand.New(rand.NewSource(99)))
		assert.Equal(t, a, b, p.String())
	}
}

func TestDecideNoiseBounds(t *testing.T) {
	// Inventory in the neutral band: only the [-2,2] noise moves the order.
	in := PolicyInput{Inventory: 10}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		got := Decide(PolicyConservative, in, 10, rng)
		assert.GreaterOrEqual(t, got, 8)
		assert.LessOrEqual(t, got, 12)
	}
}

func TestDecideBalancedAggressive(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		// balanced: round(10*1.2)=12, plus noise.
		got := Decide(PolicyBalanced, PolicyInput{Inventory: 10}, 10, rng)
		assert.GreaterOrEqual(t, got, 10)
		assert.LessOrEqual(t, got, 14)

		// aggressive with low stock adds the +5 kicker: round(10*1.5)+5=20,
		// then noise, then the <3 inventory boost.
		got = Decide(PolicyAggressive, PolicyInput{Inventory: 0}, 10, rng)
		assert.GreaterOrEqual(t, got, 24) // ceil(18*1.3)
		assert.LessOrEqual(t, got, 29)    // ceil(22*1.3)
	}
}

func TestDecideReactiveTrend(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	// avg(last3)=4, trend=(6-2)*1.5=6 -> 10 before noise.
	for i := 0; i < 100; i++ {
		got := Decide(PolicyReactive, PolicyInput{Inventory: 10, OrderHistory: []int{2, 4, 6}}, 9, rng)
		assert.GreaterOrEqual(t, got, 8)
		assert.LessOrEqual(t, got, 12)
	}

	// No usable history: the current order stands in for the average.
	for i := 0; i < 100; i++ {
		got := Decide(PolicyReactive, PolicyInput{Inventory: 10}, 7, rng)
		assert.GreaterOrEqual(t, got, 5)
		assert.LessOrEqual(t, got, 9)
	}
}

func TestDecideInventoryCorrections(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 100; i++ {
		// Overstocked: orders shrink to at most floor((10+2)*0.7).
		got := Decide(PolicyConservative, PolicyInput{Inventory: 25}, 10, rng)
		assert.LessOrEqual(t, got, 8)

		// Starved: orders grow to at least ceil((10-2)*1.3).
		got = Decide(PolicyConservative, PolicyInput{Inventory: 1}, 10, rng)
		assert.GreaterOrEqual(t, got, 11)
	}
}

func TestDecideNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		got := Decide(PolicyConservative, PolicyInput{Inventory: 25}, 0, rng)
		assert.GreaterOrEqual(t, got, 0)
	}
}
