package game

import (
	"fmt"

	"bullwhip-go/internal/chain"
	"bullwhip-go/internal/score"
)

// InitialInventory is the stock every role starts with.
const InitialInventory = 12

// RoundRecord is the immutable outcome of one round for one entity. Cost
// accumulators are sums over these records, so live-round costs and
// end-of-game rollups can never disagree.
type RoundRecord struct {
	Order        int
	Fulfilled    int
	Unfulfilled  int
	Inventory    int
	StockoutCost float64
	HoldingCost  float64
}

// Entity is the mutable per-role state. It is owned and mutated exclusively
// by the Engine; everything handed to other packages is a copy.
type Entity struct {
	Role      chain.Role
	Inventory int

	// FIFO queues. OutgoingOrders doubles as the placement history: the
	// adjacent upstream entity reads its most recent entry as the next
	// incoming order.
	IncomingOrders    []int
	OutgoingOrders    []int
	IncomingShipments []int

	// OrderHistory records, per round, the quantity this entity was asked
	// to fulfill. InventoryHistory is seeded with the initial stock, so it
	// always holds one more entry than rounds processed.
	OrderHistory     []int
	InventoryHistory []int

	Records []RoundRecord
}

func newEntity(role chain.Role) *Entity {
	return &Entity{
		Role:             role,
		Inventory:        InitialInventory,
		InventoryHistory: []int{InitialInventory},
	}
}

// StockoutCosts sums the stockout penalties accrued so far.
func (e *Entity) StockoutCosts() float64 {
	var total float64
	for _, r := range e.Records {
		total += r.StockoutCost
	}
	return total
}

// HoldingCosts sums the holding penalties accrued so far.
func (e *Entity) HoldingCosts() float64 {
	var total float64
	for _, r := range e.Records {
		total += r.HoldingCost
	}
	return total
}

// UnfulfilledDemand sums the units this entity failed to ship.
func (e *Entity) UnfulfilledDemand() int {
	total := 0
	for _, r := range e.Records {
		total += r.Unfulfilled
	}
	return total
}

// lastOutgoingOrder is the most recently placed upstream order, 0 before any.
func (e *Entity) lastOutgoingOrder() int {
	if len(e.OutgoingOrders) == 0 {
		return 0
	}
	return e.OutgoingOrders[len(e.OutgoingOrders)-1]
}

// history snapshots the entity as the read-only view the analytics consume.
func (e *Entity) history() score.RoleHistory {
	h := score.RoleHistory{
		Role:         e.Role,
		Orders:       append([]int(nil), e.OrderHistory...),
		Inventories:  append([]int(nil), e.InventoryHistory...),
		Fulfilled:    make([]int, 0, len(e.Records)),
		Unfulfilled:  make([]int, 0, len(e.Records)),
		StockoutCost: e.StockoutCosts(),
		HoldingCost:  e.HoldingCosts(),
	}
	for _, r := range e.Records {
		h.Fulfilled = append(h.Fulfilled, r.Fulfilled)
		h.Unfulfilled = append(h.Unfulfilled, r.Unfulfilled)
	}
	return h
}

// mustNonNegative guards the core inventory invariant. A negative value can
// only mean a protocol bug, so it aborts loudly instead of clamping.
func (e *Entity) mustNonNegative() {
	if e.Inventory < 0 {
		panic(fmt.Sprintf("game: %s inventory went negative (%d)", e.Role, e.Inventory))
	}
}
