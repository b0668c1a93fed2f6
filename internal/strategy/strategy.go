// Package strategy hosts the two decision vocabularies of the game: named
// player strategies selectable from outside, and the internal policies that
// drive the four roles the player does not control. Every function here is
// state-in, quantity-out and never mutates the caller's slices.
package strategy

import (
	"errors"
	"math"
)

// ErrUnknownStrategy indicates a strategy name outside the closed set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy is a named, externally selectable ordering policy.
type Strategy int

const (
	Lean Strategy = iota
	Balanced
	Aggressive
	Reactive
	Predictive
)

var strategyNames = [5]string{"lean", "balanced", "aggressive", "reactive", "predictive"}

func (s Strategy) String() string {
	if s < Lean || s > Predictive {
		return "unknown"
	}
	return strategyNames[s]
}

// Parse resolves a strategy by its lowercase name.
func Parse(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, ErrUnknownStrategy
}

// Input is the observable state a player strategy may read.
type Input struct {
	Inventory         int
	IncomingOrder     int
	OrderHistory      []int
	IncomingShipments []int
}

// Order computes the quantity a named strategy would place, rounded to
// nearest and clamped to zero.
//
// Lean covers bare demand against the inventory position (on-hand plus
// pipeline). Balanced adds a flat safety buffer of 5. Aggressive overshoots
// recent demand by 15 and ignores the pipeline. Reactive extrapolates the
// trend over the last three orders. Predictive forecasts with a moving
// average plus twice the least-squares slope over a window of up to five
// orders, carrying 1.5 standard deviations of safety stock.
func Order(s Strategy, in Input) int {
	demand := float64(in.IncomingOrder)
	position := float64(in.Inventory + sum(in.IncomingShipments))

	var q float64
	switch s {
	case Lean:
		q = demand - position
	case Balanced:
		q = demand + 5 - position
	case Aggressive:
		q = math.Max(demand, mean(lastN(in.OrderHistory, 3))) + 15 - float64(in.Inventory)
	case Reactive:
		if len(in.OrderHistory) < 2 {
			q = demand - float64(in.Inventory)
			break
		}
		last3 := lastN(in.OrderHistory, 3)
		trend := float64(last3[len(last3)-1] - last3[0])
		q = mean(last3) + 2*trend - float64(in.Inventory)
	case Predictive:
		if len(in.OrderHistory) < 3 {
			return Order(Balanced, in)
		}
		window := lastN(in.OrderHistory, 5)
		forecast := mean(window) + 2*slope(window)
		safety := 1.5 * stdDev(window)
		q = forecast + safety - float64(in.Inventory)
	}
	return clampRound(q)
}
