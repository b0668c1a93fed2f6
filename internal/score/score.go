// Package score derives the post-game analytics: costs, service level,
// bullwhip variance ratios, cross-round responsibility attribution, rankings,
// and qualitative insights. Everything here is a pure function over completed
// histories; nothing mutates its inputs.
package score

import (
	"math"
	"sort"

	"bullwhip-go/internal/chain"
)

// Per-unit penalty rates.
const (
	StockoutCostPerUnit = 1.0
	HoldingCostPerUnit  = 0.5
)

// RoleHistory is the read-only view of one entity's completed game that the
// analytics consume. All slices hold one entry per round, except Inventories
// which is seeded with the initial stock and holds rounds+1 entries.
type RoleHistory struct {
	Role         chain.Role
	Orders       []int
	Inventories  []int
	Fulfilled    []int
	Unfulfilled  []int
	StockoutCost float64
	HoldingCost  float64
}

// Cost is the penalty charged for a single round.
type Cost struct {
	Stockout float64
	Holding  float64
	Total    float64
}

// RoundCost prices one round: unmet demand at the stockout rate, stock on
// hand at the holding rate.
func RoundCost(inventory, unfulfilled int) Cost {
	c := Cost{
		Stockout: float64(unfulfilled) * StockoutCostPerUnit,
		Holding:  float64(inventory) * HoldingCostPerUnit,
	}
	c.Total = c.Stockout + c.Holding
	return c
}

// ServiceLevel is the percentage of demand satisfied, 100 when there was no
// demand at all.
func ServiceLevel(fulfilled, total int) float64 {
	if total == 0 {
		return 100
	}
	return 100 * float64(fulfilled) / float64(total)
}

// FillRate is the percentage of order lines covered from stock; same guard
// as ServiceLevel.
func FillRate(fulfilled, total int) float64 {
	if total == 0 {
		return 100
	}
	return 100 * float64(fulfilled) / float64(total)
}

// InventoryTurnover relates total demand to average inventory, 0 when no
// stock was ever held.
func InventoryTurnover(avgInventory, totalDemand float64) float64 {
	if avgInventory == 0 {
		return 0
	}
	return totalDemand / avgInventory
}

// RoleMetrics summarizes one role's order signal and its amplification
// relative to the adjacent downstream role.
type RoleMetrics struct {
	Role                   chain.Role `json:"role"`
	Mean                   float64    `json:"mean"`
	Variance               float64    `json:"variance"`
	StdDev                 float64    `json:"std_dev"`
	CoefficientOfVariation float64    `json:"coefficient_of_variation"`
	BullwhipRatio          float64    `json:"bullwhip_ratio"`
}

// BullwhipMetrics computes per-role order statistics and the bullwhip ratio,
// the ratio of a role's order variance to its immediate downstream
// neighbor's. The most-downstream role's ratio is 1, as is any ratio whose
// downstream variance is zero.
func BullwhipMetrics(histories []RoleHistory) []RoleMetrics {
	byRole := make(map[chain.Role]RoleHistory, len(histories))
	for _, h := range histories {
		byRole[h.Role] = h
	}

	out := make([]RoleMetrics, 0, len(histories))
	for _, h := range histories {
		m := RoleMetrics{Role: h.Role}
		m.Mean = mean(h.Orders)
		m.Variance = variance(h.Orders)
		m.StdDev = math.Sqrt(m.Variance)
		if m.Mean != 0 {
			m.CoefficientOfVariation = m.StdDev / m.Mean
		}

		m.BullwhipRatio = 1
		if down, ok := chain.Downstream(h.Role); ok {
			if dh, ok := byRole[down]; ok {
				if dv := variance(dh.Orders); dv != 0 {
					m.BullwhipRatio = m.Variance / dv
				}
			}
		}
		out = append(out, m)
	}
	return out
}

// ResponsibilityScore attributes a role's stockouts to downstream stockouts
// occurring later, lagged by twice the chain distance: a shortage at round r
// is held responsible for a shortage at a role k steps downstream at round
// r+2k, crediting the overlap of the two shortages.
func ResponsibilityScore(role chain.Role, histories []RoleHistory) int {
	byRole := make(map[chain.Role]RoleHistory, len(histories))
	for _, h := range histories {
		byRole[h.Role] = h
	}
	own, ok := byRole[role]
	if !ok {
		return 0
	}

	scoreTotal := 0
	for r, short := range own.Unfulfilled {
		if short <= 0 {
			continue
		}
		for d := role + 1; d.Valid(); d++ {
			dh, ok := byRole[d]
			if !ok {
				continue
			}
			affected := r + 2*chain.DownstreamDistance(role, d)
			if affected >= len(dh.Unfulfilled) {
				continue
			}
			if dShort := dh.Unfulfilled[affected]; dShort > 0 {
				scoreTotal += min(short, dShort)
			}
		}
	}
	return scoreTotal
}

// Ranking places one role on the cost leaderboard.
type Ranking struct {
	Role         chain.Role `json:"role"`
	Rank         int        `json:"rank"`
	StockoutCost float64    `json:"stockout_cost"`
	HoldingCost  float64    `json:"holding_cost"`
	TotalCost    float64    `json:"total_cost"`
}

// Rank orders roles by ascending total cost, ranks 1..N. Ties resolve by
// chain order, supplier first.
func Rank(histories []RoleHistory) []Ranking {
	out := make([]Ranking, 0, len(histories))
	for _, h := range histories {
		out = append(out, Ranking{
			Role:         h.Role,
			StockoutCost: h.StockoutCost,
			HoldingCost:  h.HoldingCost,
			TotalCost:    h.StockoutCost + h.HoldingCost,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalCost != out[j].TotalCost {
			return out[i].TotalCost < out[j].TotalCost
		}
		return out[i].Role < out[j].Role
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func mean(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	total := 0
	for _, v := range vals {
		total += v
	}
	return float64(total) / float64(len(vals))
}

// variance is the population variance (divide by n).
func variance(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := float64(v) - m
		ss += d * d
	}
	return ss / float64(len(vals))
}
