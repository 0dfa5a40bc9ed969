package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/output"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "finplan",
	Short: "Personal finance planning CLI",
	Long: `Debt payoff optimization, retirement projection, Monte Carlo simulation,
sensitivity analysis and savings goal prioritization from a single input file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: configureLogger,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringP("format", "f", "console", "Output format (console, json, csv)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

// configureLogger applies the persistent logging flags. Logs go to stderr so
// that report output on stdout stays machine readable.
func configureLogger(cmd *cobra.Command, args []string) error {
	logger.SetOutput(cmd.ErrOrStderr())

	logFormat, _ := cmd.Flags().GetString("log-format")
	switch strings.ToLower(logFormat) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unsupported log format: %s (choose text, json)", logFormat)
	}

	logger.SetLevel(logrus.InfoLevel)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		logger.SetLevel(logrus.DebugLevel)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate an input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args[0])
		if err != nil {
			return err
		}

		profile := "no profile"
		if cfg.Profile != nil {
			profile = "a profile"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Input file %s is valid: %d loans, %s, %d goals\n",
			args[0], len(cfg.Loans), profile, len(cfg.Goals))
		return nil
	},
}

func loadConfig(path string) (*domain.Configuration, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	logger.WithField("file", path).Debug("loaded input file")
	return cfg, nil
}

// requireProfile loads an input file that must carry a retirement profile.
func requireProfile(path string) (*domain.Configuration, domain.RetirementProfile, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, domain.RetirementProfile{}, err
	}
	if cfg.Profile == nil {
		return nil, domain.RetirementProfile{}, domain.NewValidationError("profile", "%s has no profile section", path)
	}
	return cfg, *cfg.Profile, nil
}

func newEngine(settings domain.Settings) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWithSettings(settings)
	engine.SetLogger(logger)
	return engine
}

// render writes v to stdout in the format selected by --format.
func render(cmd *cobra.Command, v any) error {
	name, _ := cmd.Flags().GetString("format")
	f, err := output.GetFormatterByName(name)
	if err != nil {
		return err
	}
	data, err := f.Format(v)
	if err != nil {
		return fmt.Errorf("failed to format %s output: %w", f.Name(), err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// decimalFlag reads a flag holding a decimal string.
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(name, "invalid decimal %q", raw)
	}
	return d, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
