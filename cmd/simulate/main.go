// Command simulate runs a complete seeded game from the terminal: a named
// strategy drives the externally controlled role for all twenty rounds and
// the final analytics are printed. Useful for comparing strategies and for
// replaying a game by seed.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bullwhip-go/internal/chain"
	"bullwhip-go/internal/demand"
	"bullwhip-go/internal/game"
	"bullwhip-go/internal/strategy"
)

type options struct {
	seed         int64
	role         string
	strategyName string
	label        string
	scheduleFile string
	quiet        bool
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a full bullwhip game with a named strategy at the wheel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&opts.role, "role", "retailer", "role the strategy plays")
	cmd.Flags().StringVar(&opts.strategyName, "strategy", "balanced", "lean, balanced, aggressive, reactive or predictive")
	cmd.Flags().StringVar(&opts.label, "label", "autopilot", "label for the external actor")
	cmd.Flags().StringVar(&opts.scheduleFile, "schedule", "", "YAML demand schedule override")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "only print the final report")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts options) error {
	role, err := chain.Parse(opts.role)
	if err != nil {
		return fmt.Errorf("role %q: %w", opts.role, err)
	}
	strat, err := strategy.Parse(opts.strategyName)
	if err != nil {
		return fmt.Errorf("strategy %q: %w", opts.strategyName, err)
	}

	schedule := demand.DefaultSchedule()
	if opts.scheduleFile != "" {
		if schedule, err = demand.LoadSchedule(opts.scheduleFile); err != nil {
			return err
		}
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engine, err := game.New(role, opts.label, demand.NewGenerator(schedule, rng), rng)
	if err != nil {
		return err
	}

	cmd.Printf("seed=%d role=%s strategy=%s\n", seed, role, strat)
	for round := 1; round <= game.MaxRounds; round++ {
		snap, err := engine.Snapshot(round, role)
		if err != nil {
			return err
		}
		quantity := strategy.Order(strat, strategyInput(snap))
		result, err := engine.ProcessExternalTurn(role, quantity, round)
		if err != nil {
			return err
		}
		if !opts.quiet {
			cmd.Printf("round %2d: ordered %3d, fulfilled %3d, short %3d, inventory %3d, cost %.1f\n",
				round, quantity, result.Fulfilled, result.Unfulfilled, result.NewInventory,
				result.StockoutCost+result.HoldingCost)
		}
	}

	results, err := engine.FinalResults()
	if err != nil {
		return err
	}
	printReport(cmd, results)
	return nil
}

// strategyInput maps a snapshot onto the observable state a strategy reads.
// Before any history exists, the forecast falls back to the opening phase's
// typical demand.
func strategyInput(snap game.RoundState) strategy.Input {
	incoming := 5
	if n := len(snap.LastOrders); n > 0 {
		incoming = snap.LastOrders[n-1]
	}
	return strategy.Input{
		Inventory:         snap.Inventory,
		IncomingOrder:     incoming,
		OrderHistory:      snap.LastOrders,
		IncomingShipments: snap.IncomingShipments,
	}
}

func printReport(cmd *cobra.Command, results game.Results) {
	cmd.Println("\nfinal standings (lower total cost is better):")
	for _, rk := range results.Rankings {
		cmd.Printf("  #%d %-12s stockout %7.1f  holding %7.1f  total %7.1f\n",
			rk.Rank, rk.Role, rk.StockoutCost, rk.HoldingCost, rk.TotalCost)
	}

	cmd.Println("\nbullwhip amplification (order variance vs downstream):")
	for _, m := range results.Bullwhip {
		cmd.Printf("  %-12s mean %6.2f  var %7.2f  cv %5.2f  ratio %5.2f\n",
			m.Role, m.Mean, m.Variance, m.CoefficientOfVariation, m.BullwhipRatio)
	}

	cmd.Println("\nservice level / responsibility:")
	for _, role := range chain.Order {
		cmd.Printf("  %-12s service %6.1f%%  responsibility %d\n",
			role, results.ServiceLevel[role], results.Responsibility[role])
	}

	cmd.Println("\ninsights:")
	for _, in := range results.Insights {
		cmd.Printf("  [%s] %s\n", in.Level, in.Message)
	}
}
