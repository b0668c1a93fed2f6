package strategy

import (
	"math"
	"math/rand"

	"bullwhip-go/internal/chain"
)

// Policy is an internal ordering temperament for roles the player does not
// control. The vocabulary is independent of the named Strategy set.
type Policy int

const (
	PolicyConservative Policy = iota
	PolicyBalanced
	PolicyAggressive
	PolicyReactive
)

var policyNames = [4]string{"conservative", "balanced", "aggressive", "reactive"}

func (p Policy) String() string {
	if p < PolicyConservative || p > PolicyReactive {
		return "unknown"
	}
	return policyNames[p]
}

// PolicyFor selects the policy driving a role at a given round. Early rounds
// are uniformly cautious, the mid game is role-specific, and the late game
// chases trends everywhere.
func PolicyFor(round int, role chain.Role) Policy {
	switch {
	case round < 5:
		return PolicyConservative
	case round < 12:
		switch role {
		case chain.Retailer:
			return PolicyReactive
		case chain.Distributor, chain.Wholesaler:
			return PolicyBalanced
		case chain.Manufacturer:
			return PolicyConservative
		case chain.Supplier:
			return PolicyAggressive
		}
	}
	return PolicyReactive
}

// PolicyInput is the entity state an internal policy may read. OrderHistory
// excludes the order currently being processed.
type PolicyInput struct {
	Inventory    int
	OrderHistory []int
}

// Decide computes the quantity an internal policy orders upstream given the
// demand just processed. All policies share a final adjustment: integer noise
// in [-2, 2] from rng, a clamp at zero, and an inventory correction (×0.7
// floored above 20 on hand, ×1.3 ceiled below 3).
func Decide(p Policy, in PolicyInput, currentOrder int, rng *rand.Rand) int {
	var q float64
	switch p {
	case PolicyConservative:
		q = float64(currentOrder)
	case PolicyBalanced:
		q = float64(currentOrder) * 1.2
	case PolicyAggressive:
		q = float64(currentOrder) * 1.5
		if in.Inventory < 5 {
			q += 5
		}
	case PolicyReactive:
		last3 := lastN(in.OrderHistory, 3)
		avgRecent := float64(currentOrder)
		if len(last3) > 0 {
			avgRecent = mean(last3)
		}
		trend := 0.0
		if len(in.OrderHistory) >= 2 {
			trend = float64(last3[len(last3)-1] - last3[0])
		}
		q = avgRecent + trend*1.5
	}
	q = math.Round(q)

	q += float64(rng.Intn(5) - 2)
	if q < 0 {
		q = 0
	}
	switch {
	case in.Inventory > 20:
		q = math.Floor(q * 0.7)
	case in.Inventory < 3:
		q = math.Ceil(q * 1.3)
	}
	return clampRound(q)
}
