package main

import (
	"fmt"
	"os"
	"time"

	"github.com/homekeep/backend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose      bool
	catalogPath  string
	timeout      time.Duration
	reconcileAll bool

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "homekeep",
	Short: "homekeep - recipe package sizes and shopping list totals",
	Long: `homekeep turns recipe quantities into store packages, estimates shelf
prices and keeps shopping list totals in line with their items.

Store and catalog settings come from config.yaml, .env or HOMEKEEP_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New("production", level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// resolveCmd converts a recipe quantity into a store package
var resolveCmd = &cobra.Command{
	Use:   "resolve <ingredient> <quantity> <unit>",
	Short: "Resolve a recipe quantity to a purchasable package",
	Example: `  homekeep resolve "brown sugar" 0.5 cup
  homekeep resolve eggs 2 large`,
	Args: cobra.ExactArgs(3),
	RunE: runResolve,
}

// priceCmd prints the estimated shelf price range
var priceCmd = &cobra.Command{
	Use:   "price <ingredient>",
	Short: "Show the estimated price range for an ingredient",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrice,
}

// reconcileCmd recomputes stored list totals
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [listID]",
	Short: "Recompute a shopping list total from its items",
	Long: `Recompute a shopping list's stored total from the estimated costs of its
items and overwrite the stored value. Use --all to reconcile every list.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if reconcileAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runReconcile,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (default: catalog.path setting or built-in tables)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	reconcileCmd.Flags().BoolVar(&reconcileAll, "all", false, "Reconcile every shopping list")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(reconcileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
