package score

import (
	"fmt"

	"bullwhip-go/internal/chain"
)

// Insight levels, ordered roughly by how pleased the reader should be.
const (
	LevelSuccess = "success"
	LevelGood    = "good"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelTip     = "tip"
)

// Insight is a deterministic categorical takeaway from a finished game.
type Insight struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Insights derives the post-game commentary for the externally driven role
// from fixed thresholds over the rankings and bullwhip metrics.
func Insights(player chain.Role, rankings []Ranking, metrics []RoleMetrics) []Insight {
	var out []Insight

	for _, rk := range rankings {
		if rk.Role != player {
			continue
		}
		switch {
		case rk.Rank == 1:
			out = append(out, Insight{LevelSuccess, fmt.Sprintf("You ran the cheapest operation in the chain (%.1f total cost).", rk.TotalCost)})
		case rk.Rank <= 2:
			out = append(out, Insight{LevelGood, fmt.Sprintf("You finished #%d of %d on total cost.", rk.Rank, len(rankings))})
		default:
			out = append(out, Insight{LevelInfo, fmt.Sprintf("You finished #%d of %d on total cost.", rk.Rank, len(rankings))})
		}
		break
	}

	maxRatio := 0.0
	for _, m := range metrics {
		if m.BullwhipRatio > maxRatio {
			maxRatio = m.BullwhipRatio
		}
	}
	switch {
	case maxRatio > 2:
		out = append(out, Insight{LevelWarning, fmt.Sprintf("Severe bullwhip effect: order variance amplified %.1fx between adjacent stages.", maxRatio)})
	case maxRatio > 1.5:
		out = append(out, Insight{LevelInfo, fmt.Sprintf("Moderate bullwhip effect: peak amplification %.1fx.", maxRatio)})
	default:
		out = append(out, Insight{LevelSuccess, "Order variance stayed flat along the chain: the bullwhip was tamed."})
	}

	if ratio, ok := avgStockoutShare(rankings); ok {
		switch {
		case ratio > 0.7:
			out = append(out, Insight{LevelTip, "Costs are stockout-heavy: carry more safety stock to stop losing sales."})
		case ratio < 0.3:
			out = append(out, Insight{LevelTip, "Costs are holding-heavy: the chain is hoarding inventory it never sells."})
		}
	}
	return out
}

// avgStockoutShare averages, across roles, the share of each role's cost
// that came from stockouts. ok is false when no role accrued any cost.
func avgStockoutShare(rankings []Ranking) (float64, bool) {
	var total float64
	n := 0
	for _, rk := range rankings {
		if rk.TotalCost == 0 {
			continue
		}
		total += rk.StockoutCost / rk.TotalCost
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}
