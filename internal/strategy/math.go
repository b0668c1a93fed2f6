package strategy

import "math"

func sum(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

// lastN returns the trailing n entries without copying.
func lastN(vals []int, n int) []int {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}

func mean(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	return float64(sum(vals)) / float64(len(vals))
}

// slope is the ordinary least squares slope of vals against their indices.
func slope(vals []int) float64 {
	n := float64(len(vals))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range vals {
		x, y := float64(i), float64(v)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// stdDev is the population standard deviation (divide by n).
func stdDev(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := float64(v) - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}

// clampRound rounds to the nearest non-negative integer.
func clampRound(q float64) int {
	if q <= 0 {
		return 0
	}
	return int(math.Round(q))
}
