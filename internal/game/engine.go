// Package game implements the round-processing engine: five supply chain
// entities advanced in a fixed order through exactly twenty rounds, with a
// two-round shipment pipeline between adjacent stages. One role is driven by
// externally supplied orders; the other four by internal policies.
//
// The engine is strictly sequential and single-owner. Its methods are not
// safe for concurrent use; callers that share an Engine must serialize
// access. Snapshots and results are deep copies, so readers can never corrupt
// the round-dependency chain.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"bullwhip-go/internal/chain"
	"bullwhip-go/internal/score"
	"bullwhip-go/internal/strategy"
)

// MaxRounds is the fixed game length.
const MaxRounds = 20

var (
	// ErrInvalidRound indicates a round outside [1, MaxRounds] or out of
	// sequence with the rounds already processed.
	ErrInvalidRound = errors.New("invalid round")

	// ErrGameOver indicates a turn submitted after the final round.
	ErrGameOver = errors.New("game is over")

	// ErrGameInProgress indicates final results requested before the final
	// round was processed.
	ErrGameInProgress = errors.New("game still in progress")
)

// DemandSource produces the exogenous customer demand for a round. The
// retailer's incoming orders come from here; tests substitute fixed values.
type DemandSource interface {
	Demand(round int) int
}

// processOrder advances the chain from the retailer upward, so every role's
// incoming order reads already-finalized downstream state and no same-round
// cycle can form.
var processOrder = [5]chain.Role{
	chain.Retailer, chain.Distributor, chain.Wholesaler, chain.Manufacturer, chain.Supplier,
}

// RoundResult reports the externally driven role's outcome for one round.
type RoundResult struct {
	Role         chain.Role `json:"role"`
	Round        int        `json:"round"`
	NewInventory int        `json:"new_inventory"`
	StockoutCost float64    `json:"stockout_cost"`
	HoldingCost  float64    `json:"holding_cost"`
	Fulfilled    int        `json:"fulfilled"`
	Unfulfilled  int        `json:"unfulfilled"`
}

// RoundState is the read-only view handed to charts and the hosting app.
type RoundState struct {
	Round             int        `json:"round"`
	Role              chain.Role `json:"role"`
	Inventory         int        `json:"inventory"`
	PendingOrders     int        `json:"pending_orders"`
	IncomingShipments []int      `json:"incoming_shipments"`
	LastOrders        []int      `json:"last_orders"`
}

// Results is the idempotent end-of-game report.
type Results struct {
	PlayerRole         chain.Role             `json:"player_role"`
	PlayerLabel        string                 `json:"player_label"`
	Rankings           []score.Ranking        `json:"rankings"`
	Bullwhip           []score.RoleMetrics    `json:"bullwhip"`
	Insights           []score.Insight        `json:"insights"`
	InventoryHistory   map[chain.Role][]int   `json:"inventory_history"`
	OrderHistory       map[chain.Role][]int   `json:"order_history"`
	PlayerOrderHistory []int                  `json:"player_order_history"`
	Responsibility     map[chain.Role]int     `json:"responsibility"`
	ServiceLevel       map[chain.Role]float64 `json:"service_level"`
}

// Engine owns the five entities and advances them one round at a time.
type Engine struct {
	entities map[chain.Role]*Entity
	demand   DemandSource
	rng      *rand.Rand
	player   chain.Role
	label    string
	rounds   int // completed rounds
}

// New builds a fresh game. player is the externally driven role, src feeds
// the retailer's demand, and rng drives the internal policies' noise. A fixed
// seed behind both makes the whole game replayable.
func New(player chain.Role, label string, src DemandSource, rng *rand.Rand) (*Engine, error) {
	if !player.Valid() {
		return nil, fmt.Errorf("player %d: %w", int(player), chain.ErrUnknownRole)
	}
	entities := make(map[chain.Role]*Entity, len(chain.Order))
	for _, role := range chain.Order {
		entities[role] = newEntity(role)
	}
	return &Engine{
		entities: entities,
		demand:   src,
		rng:      rng,
		player:   player,
		label:    label,
	}, nil
}

// Rounds returns how many rounds have been completed.
func (g *Engine) Rounds() int { return g.rounds }

// PlayerRole returns the externally driven role.
func (g *Engine) PlayerRole() chain.Role { return g.player }

// Finished reports whether all rounds have been processed.
func (g *Engine) Finished() bool { return g.rounds >= MaxRounds }

// ProcessExternalTurn runs one full round: the externally driven role places
// the caller-supplied quantity, every other role orders via its internal
// policy. Rounds must be submitted in sequence starting at 1.
func (g *Engine) ProcessExternalTurn(role chain.Role, quantity, round int) (RoundResult, error) {
	if !role.Valid() {
		return RoundResult{}, fmt.Errorf("role %d: %w", int(role), chain.ErrUnknownRole)
	}
	if role != g.player {
		return RoundResult{}, fmt.Errorf("%s is driven internally, the external actor plays %s: %w", role, g.player, chain.ErrUnknownRole)
	}
	if g.rounds >= MaxRounds {
		return RoundResult{}, fmt.Errorf("round %d: %w", round, ErrGameOver)
	}
	if round < 1 || round > MaxRounds {
		return RoundResult{}, fmt.Errorf("round %d outside [1,%d]: %w", round, MaxRounds, ErrInvalidRound)
	}
	if round != g.rounds+1 {
		return RoundResult{}, fmt.Errorf("round %d submitted, expected %d: %w", round, g.rounds+1, ErrInvalidRound)
	}

	if quantity < 0 {
		quantity = 0
	}

	var result RoundResult
	for _, r := range processOrder {
		rec := g.step(r, round, quantity)
		if r == role {
			result = RoundResult{
				Role:         r,
				Round:        round,
				NewInventory: rec.Inventory,
				StockoutCost: rec.StockoutCost,
				HoldingCost:  rec.HoldingCost,
				Fulfilled:    rec.Fulfilled,
				Unfulfilled:  rec.Unfulfilled,
			}
		}
	}
	g.rounds = round
	return result, nil
}

// step advances one entity through the per-round protocol: receive the
// incoming order, fulfill from stock, receive a pipelined shipment, place the
// upstream order, accrue costs, dispatch downstream.
func (g *Engine) step(role chain.Role, round, externalQuantity int) RoundRecord {
	e := g.entities[role]

	// 1-2. Incoming order, strict FIFO through the queue.
	e.IncomingOrders = append(e.IncomingOrders, g.incomingOrder(role, round))
	orderToProcess := e.IncomingOrders[0]
	e.IncomingOrders = e.IncomingOrders[1:]

	// 3-4. Fulfill from stock.
	fulfilled := orderToProcess
	if fulfilled > e.Inventory {
		fulfilled = e.Inventory
	}
	unfulfilled := orderToProcess - fulfilled
	e.Inventory -= fulfilled
	e.mustNonNegative()

	// 5. Shipment receipt. Holding the pop until two shipments are queued
	// enforces the two-round pipeline latency.
	if len(e.IncomingShipments) >= 2 {
		e.Inventory += e.IncomingShipments[0]
		e.IncomingShipments = e.IncomingShipments[1:]
	}

	// 6. Order placement: external value for the player, policy otherwise.
	// The policy sees the history without the order being processed.
	placed := externalQuantity
	if role != g.player {
		placed = strategy.Decide(
			strategy.PolicyFor(round, role),
			strategy.PolicyInput{Inventory: e.Inventory, OrderHistory: e.OrderHistory},
			orderToProcess,
			g.rng,
		)
	}
	e.OutgoingOrders = append(e.OutgoingOrders, placed)
	e.OrderHistory = append(e.OrderHistory, orderToProcess)

	// 7. Cost accrual.
	cost := score.RoundCost(e.Inventory, unfulfilled)
	rec := RoundRecord{
		Order:        orderToProcess,
		Fulfilled:    fulfilled,
		Unfulfilled:  unfulfilled,
		Inventory:    e.Inventory,
		StockoutCost: cost.Stockout,
		HoldingCost:  cost.Holding,
	}
	e.Records = append(e.Records, rec)
	e.InventoryHistory = append(e.InventoryHistory, e.Inventory)

	// 8. Shipment dispatch. The supplier forwards the raw order quantity:
	// upstream production is not inventory-limited.
	if down, ok := chain.Downstream(role); ok {
		qty := fulfilled
		if role == chain.Supplier {
			qty = orderToProcess
		}
		g.entities[down].IncomingShipments = append(g.entities[down].IncomingShipments, qty)
	}
	return rec
}

// incomingOrder resolves step 1: customer demand for the retailer, otherwise
// the most recently finalized upstream order of the adjacent downstream role.
func (g *Engine) incomingOrder(role chain.Role, round int) int {
	if role == chain.Retailer {
		return g.demand.Demand(round)
	}
	down, _ := chain.Downstream(role)
	return g.entities[down].lastOutgoingOrder()
}

// Snapshot returns a read-only view of one role. It never mutates state and
// may be called any number of times.
func (g *Engine) Snapshot(round int, role chain.Role) (RoundState, error) {
	if !role.Valid() {
		return RoundState{}, fmt.Errorf("role %d: %w", int(role), chain.ErrUnknownRole)
	}
	if round < 1 || round > MaxRounds {
		return RoundState{}, fmt.Errorf("round %d outside [1,%d]: %w", round, MaxRounds, ErrInvalidRound)
	}
	e := g.entities[role]

	pending := 0
	if len(e.IncomingOrders) > 0 {
		pending = e.IncomingOrders[0]
	}
	last := e.OrderHistory
	if len(last) > 10 {
		last = last[len(last)-10:]
	}
	return RoundState{
		Round:             round,
		Role:              role,
		Inventory:         e.Inventory,
		PendingOrders:     pending,
		IncomingShipments: append([]int(nil), e.IncomingShipments...),
		LastOrders:        append([]int(nil), last...),
	}, nil
}

// Histories snapshots every entity in chain order for the analytics.
func (g *Engine) Histories() []score.RoleHistory {
	out := make([]score.RoleHistory, 0, len(chain.Order))
	for _, role := range chain.Order {
		out = append(out, g.entities[role].history())
	}
	return out
}

// FinalResults assembles the end-of-game report. It is idempotent and only
// available once all rounds are processed.
func (g *Engine) FinalResults() (Results, error) {
	if !g.Finished() {
		return Results{}, fmt.Errorf("%d of %d rounds processed: %w", g.rounds, MaxRounds, ErrGameInProgress)
	}

	histories := g.Histories()
	res := Results{
		PlayerRole:       g.player,
		PlayerLabel:      g.label,
		Rankings:         score.Rank(histories),
		Bullwhip:         score.BullwhipMetrics(histories),
		InventoryHistory: make(map[chain.Role][]int, len(histories)),
		OrderHistory:     make(map[chain.Role][]int, len(histories)),
		Responsibility:   make(map[chain.Role]int, len(histories)),
		ServiceLevel:     make(map[chain.Role]float64, len(histories)),
	}
	res.Insights = score.Insights(g.player, res.Rankings, res.Bullwhip)

	for _, h := range histories {
		res.InventoryHistory[h.Role] = h.Inventories
		res.OrderHistory[h.Role] = h.Orders
		res.Responsibility[h.Role] = score.ResponsibilityScore(h.Role, histories)

		fulfilled, demanded := 0, 0
		for i := range h.Orders {
			fulfilled += h.Fulfilled[i]
			demanded += h.Orders[i]
		}
		res.ServiceLevel[h.Role] = score.ServiceLevel(fulfilled, demanded)

		if h.Role == g.player {
			res.PlayerOrderHistory = h.Orders
		}
	}
	return res, nil
}
