package main

import (
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var debtCmd = &cobra.Command{
	Use:   "debt",
	Short: "Debt payoff planning",
}

var debtOptimizeCmd = &cobra.Command{
	Use:   "optimize [input-file]",
	Short: "Build a payoff plan with the avalanche or snowball strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadDebts(args[0])
		if err != nil {
			return err
		}
		extra, strategy, err := extraAndStrategy(cmd)
		if err != nil {
			return err
		}
		plan, err := newEngine(cfg.Settings).Debts.Optimize(cfg.ActiveLoans(), extra, strategy)
		if err != nil {
			return err
		}
		return render(cmd, plan)
	},
}

var debtCompareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare the avalanche and snowball strategies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadDebts(args[0])
		if err != nil {
			return err
		}
		extra, err := decimalFlag(cmd, "extra")
		if err != nil {
			return err
		}
		comparison, err := newEngine(cfg.Settings).Debts.CompareStrategies(cfg.ActiveLoans(), extra)
		if err != nil {
			return err
		}
		return render(cmd, comparison)
	},
}

var debtConsolidateCmd = &cobra.Command{
	Use:   "consolidate [input-file]",
	Short: "Evaluate consolidating every loan into one at a new rate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadDebts(args[0])
		if err != nil {
			return err
		}
		rate, err := decimalFlag(cmd, "rate")
		if err != nil {
			return err
		}
		report, err := newEngine(cfg.Settings).Debts.AnalyzeConsolidation(cfg.ActiveLoans(), rate)
		if err != nil {
			return err
		}
		return render(cmd, report)
	},
}

var debtAccelerateCmd = &cobra.Command{
	Use:   "accelerate [input-file]",
	Short: "Compare minimum payments with an accelerated avalanche plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadDebts(args[0])
		if err != nil {
			return err
		}
		extra, err := decimalFlag(cmd, "extra")
		if err != nil {
			return err
		}
		comparison, err := newEngine(cfg.Settings).Debts.ComparePaymentStrategies(cfg.ActiveLoans(), extra)
		if err != nil {
			return err
		}
		return render(cmd, comparison)
	},
}

var debtWaterfallCmd = &cobra.Command{
	Use:   "waterfall [input-file]",
	Short: "Simulate month by month with freed payments rolling to the next loan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadDebts(args[0])
		if err != nil {
			return err
		}
		extra, strategy, err := extraAndStrategy(cmd)
		if err != nil {
			return err
		}
		schedule, err := newEngine(cfg.Settings).Debts.SimulateWaterfall(cfg.ActiveLoans(), extra, strategy)
		if err != nil {
			return err
		}
		return render(cmd, schedule)
	},
}

func init() {
	for _, c := range []*cobra.Command{debtOptimizeCmd, debtCompareCmd, debtAccelerateCmd, debtWaterfallCmd} {
		c.Flags().String("extra", "0", "Extra monthly payment above the minimums")
	}
	for _, c := range []*cobra.Command{debtOptimizeCmd, debtWaterfallCmd} {
		c.Flags().String("strategy", "avalanche", "Payoff strategy (avalanche, snowball)")
	}
	debtConsolidateCmd.Flags().String("rate", "", "Annual rate of the consolidation loan as a fraction (required)")
	_ = debtConsolidateCmd.MarkFlagRequired("rate")

	debtCmd.AddCommand(debtOptimizeCmd, debtCompareCmd, debtConsolidateCmd, debtAccelerateCmd, debtWaterfallCmd)
	rootCmd.AddCommand(debtCmd)
}

func loadDebts(path string) (*domain.Configuration, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if len(cfg.ActiveLoans()) == 0 {
		logger.WithField("file", path).Warn("input file has no loans with a balance")
	}
	return cfg, nil
}

func extraAndStrategy(cmd *cobra.Command) (extra decimal.Decimal, strategy domain.PayoffStrategy, err error) {
	if extra, err = decimalFlag(cmd, "extra"); err != nil {
		return
	}
	raw, _ := cmd.Flags().GetString("strategy")
	strategy, err = domain.ParseStrategy(raw)
	return
}
