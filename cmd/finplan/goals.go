package main

import (
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Savings goal planning",
}

var goalsPrioritizeCmd = &cobra.Command{
	Use:   "prioritize [input-file]",
	Short: "Score and rank savings goals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args[0])
		if err != nil {
			return err
		}
		if len(cfg.Goals) == 0 {
			return domain.NewValidationError("goals", "%s has no goals section", args[0])
		}
		matrix, err := newEngine(cfg.Settings).Goals.BuildMatrix(cfg.Goals)
		if err != nil {
			return err
		}
		return render(cmd, matrix)
	},
}

func init() {
	goalsCmd.AddCommand(goalsPrioritizeCmd)
	rootCmd.AddCommand(goalsCmd)
}
