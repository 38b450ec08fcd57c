package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strategyevolve",
	Short: "Backtest and evolve MA crossover + RSI trading strategies",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backtestCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
