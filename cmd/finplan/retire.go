package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rgehrsitz/finplan/internal/breakeven"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
	"github.com/spf13/cobra"
)

var retireCmd = &cobra.Command{
	Use:   "retire",
	Short: "Retirement projection and analysis",
}

var retireProjectCmd = &cobra.Command{
	Use:   "project [input-file]",
	Short: "Project balances and income at retirement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, err := requireProfile(args[0])
		if err != nil {
			return err
		}
		result, err := newEngine(cfg.Settings).Growth.ProjectPlan(profile)
		if err != nil {
			return err
		}
		return render(cmd, result)
	},
}

var retireYearlyCmd = &cobra.Command{
	Use:   "yearly [input-file]",
	Short: "Show year-by-year balances up to retirement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, err := requireProfile(args[0])
		if err != nil {
			return err
		}
		rows, err := newEngine(cfg.Settings).Growth.YearlyProjections(profile)
		if err != nil {
			return err
		}
		return render(cmd, rows)
	},
}

var retireSimulateCmd = &cobra.Command{
	Use:   "simulate [input-file]",
	Short: "Run a Monte Carlo simulation of market returns",
	Long: `Run a Monte Carlo simulation of annual returns drawn around the expected return.

Examples:
  finplan retire simulate plan.yaml --trials 5000 --seed 42
  finplan retire simulate plan.yaml --volatility 0.20 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, err := requireProfile(args[0])
		if err != nil {
			return err
		}

		settings := cfg.Settings
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			settings.MonteCarlo.Seed = &seed
		}
		if cmd.Flags().Changed("volatility") {
			volatility, err := decimalFlag(cmd, "volatility")
			if err != nil {
				return err
			}
			settings.MonteCarlo.Volatility = &volatility
		}
		if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
			settings.MonteCarlo.Workers = workers
		}
		trials, _ := cmd.Flags().GetInt("trials")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := newEngine(settings).MonteCarlo.Simulate(ctx, profile, trials)
		if err != nil {
			return err
		}
		return render(cmd, result)
	},
}

var retireSensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Sweep return, contribution and inflation rates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, err := requireProfile(args[0])
		if err != nil {
			return err
		}
		report, err := newEngine(cfg.Settings).Sensitivity.Analyze(profile)
		if err != nil {
			return err
		}
		return render(cmd, report)
	},
}

var retireWhatIfCmd = &cobra.Command{
	Use:   "whatif [input-file]",
	Short: "Compare the plan with modified scenarios",
	Long: `Compare the base plan with scenarios built from transforms or templates.

Each --with flag adds one transform to a single custom scenario. Every name
in --template adds one built-in scenario.

Examples:
  finplan retire whatif plan.yaml --with postpone_retirement:years=2 --with set_return:rate=0.05
  finplan retire whatif plan.yaml --template postpone_2yr,market_pessimistic
  finplan retire whatif --list-templates`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list-templates"); list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runWhatIf,
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		return nil
	}

	cfg, profile, err := requireProfile(args[0])
	if err != nil {
		return err
	}

	specs, _ := cmd.Flags().GetStringArray("with")
	rawTemplates, _ := cmd.Flags().GetString("template")
	templates := transform.ParseTemplateList(rawTemplates)
	if len(specs) == 0 && len(templates) == 0 {
		return fmt.Errorf("--with or --template is required (see --list-templates)")
	}

	engine := newEngine(cfg.Settings)
	compareEngine := compare.NewEngine(engine.Growth)
	compareEngine.Logger = logger

	var scenarios []compare.Scenario
	if len(specs) > 0 {
		transforms, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		scenarios = append(scenarios, compare.Scenario{Name: name, Transforms: transforms})
	}
	for _, name := range templates {
		t, found := compareEngine.TemplateRegistry.Get(name)
		if !found {
			return fmt.Errorf("unknown template %q (see --list-templates)", name)
		}
		scenarios = append(scenarios, compare.Scenario{Name: t.Name, Description: t.Description, Transforms: t.Transforms})
	}

	set, err := compareEngine.WhatIf(cmd.Context(), profile, scenarios)
	if err != nil {
		return fmt.Errorf("what-if comparison failed: %w", err)
	}
	return render(cmd, set)
}

var retireSolveCmd = &cobra.Command{
	Use:   "solve [input-file]",
	Short: "Find the contribution, retirement age or extra payment that meets a goal",
	Long: `Solve for the smallest change that puts the plan on track.

Targets:
  monthly_contribution  minimum monthly employer-plan contribution
  retirement_age        earliest on-track retirement age
  extra_payment         minimum extra debt payment to finish within --payoff-months
  all                   every target the input file supports`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	rawTarget, _ := cmd.Flags().GetString("target")
	target, err := breakeven.ParseTarget(rawTarget)
	if err != nil {
		return err
	}

	// Only the extra-payment search runs without a profile.
	profile := cfg.Profile
	if profile == nil && target != breakeven.OptimizeExtraPayment {
		return domain.NewValidationError("profile", "%s has no profile section", args[0])
	}

	constraints, err := solveConstraints(cmd)
	if err != nil {
		return err
	}

	solver := breakeven.NewDefaultSolver(newEngine(cfg.Settings))
	ctx := cmd.Context()

	if target == breakeven.OptimizeAll {
		result, err := solver.OptimizeAll(ctx, *profile, cfg.ActiveLoans(), constraints)
		if err != nil {
			return err
		}
		return render(cmd, result)
	}

	req := breakeven.OptimizationRequest{
		Loans:       cfg.ActiveLoans(),
		Target:      target,
		Constraints: constraints,
	}
	if profile != nil {
		req.Profile = *profile
	}
	req.MaxIterations, _ = cmd.Flags().GetInt("max-iterations")
	if req.Tolerance, err = decimalFlag(cmd, "tolerance"); err != nil {
		return err
	}

	result, err := solver.Optimize(ctx, req)
	if err != nil {
		return err
	}
	return render(cmd, result)
}

// solveConstraints starts from the default bounds and overrides only the
// flags the user set.
func solveConstraints(cmd *cobra.Command) (breakeven.Constraints, error) {
	c := breakeven.DefaultConstraints()
	flags := cmd.Flags()

	if flags.Changed("min-contribution") {
		v, err := decimalFlag(cmd, "min-contribution")
		if err != nil {
			return c, err
		}
		c.MinContribution = &v
	}
	if flags.Changed("max-contribution") {
		v, err := decimalFlag(cmd, "max-contribution")
		if err != nil {
			return c, err
		}
		c.MaxContribution = &v
	}
	if flags.Changed("min-age") {
		v, _ := flags.GetInt("min-age")
		c.MinRetirementAge = &v
	}
	if flags.Changed("max-age") {
		v, _ := flags.GetInt("max-age")
		c.MaxRetirementAge = &v
	}
	if flags.Changed("max-extra") {
		v, err := decimalFlag(cmd, "max-extra")
		if err != nil {
			return c, err
		}
		c.MaxExtraPayment = &v
	}
	c.TargetPayoffMonths, _ = flags.GetInt("payoff-months")

	return c, c.Validate()
}

func init() {
	retireSimulateCmd.Flags().Int("trials", 0, "Number of trials (default from settings)")
	retireSimulateCmd.Flags().Int64("seed", 0, "Random seed for reproducible runs")
	retireSimulateCmd.Flags().String("volatility", "", "Annual return standard deviation as a fraction")
	retireSimulateCmd.Flags().Int("workers", 0, "Parallel workers (default from settings)")

	retireWhatIfCmd.Flags().StringArray("with", nil, "Transform spec name:key=value,... (repeatable)")
	retireWhatIfCmd.Flags().String("name", "custom", "Name of the scenario built from --with")
	retireWhatIfCmd.Flags().String("template", "", "Comma-separated list of built-in scenario templates")
	retireWhatIfCmd.Flags().Bool("list-templates", false, "List the built-in scenario templates")

	retireSolveCmd.Flags().String("target", string(breakeven.OptimizeContribution), "Target (monthly_contribution, retirement_age, extra_payment, all)")
	retireSolveCmd.Flags().String("min-contribution", "", "Lower bound for the monthly contribution")
	retireSolveCmd.Flags().String("max-contribution", "", "Upper bound for the monthly contribution")
	retireSolveCmd.Flags().Int("min-age", 0, "Earliest retirement age to consider")
	retireSolveCmd.Flags().Int("max-age", 0, "Latest retirement age to consider")
	retireSolveCmd.Flags().String("max-extra", "", "Upper bound for the extra debt payment")
	retireSolveCmd.Flags().Int("payoff-months", 0, "Months within which the debts must be paid off")
	retireSolveCmd.Flags().Int("max-iterations", 0, "Search iteration cap (default from solver options)")
	retireSolveCmd.Flags().String("tolerance", "", "Search tolerance in dollars")

	retireCmd.AddCommand(retireProjectCmd, retireYearlyCmd, retireSimulateCmd, retireSensitivityCmd, retireWhatIfCmd, retireSolveCmd)
	rootCmd.AddCommand(retireCmd)
}
