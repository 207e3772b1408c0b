package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"area-reconciler/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesConfirm bool

// cacheCmd is the parent command for result cache maintenance.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear cached reports",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status <area>",
	Short: "Show which cached reports of an area are current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		entries, err := a.service().CacheStatus(ctx, args[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			state := "stale"
			if e.Current {
				state = "current"
			}
			fmt.Printf("%-8s %s\n", state, e.Path)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <area>",
	Short: "Remove every cached report of an area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		entries, err := a.service().CacheStatus(ctx, args[0])
		if err != nil {
			return err
		}
		if !confirmClear(len(entries)) {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		for _, e := range entries {
			key := reconcile.CacheKey{Area: args[0], Report: string(e.Report), Format: string(e.Format)}
			if err := a.cache.Invalidate(ctx, key); err != nil {
				return fmt.Errorf("failed to remove %s: %w", e.Path, err)
			}
		}
		a.logger.Info("Cleared cached reports", zap.String("area", args[0]), zap.Int("count", len(entries)))
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")
	cacheCmd.AddCommand(cacheStatusCmd, cacheClearCmd)
	RootCmd.AddCommand(cacheCmd)
}

// confirmClear prompts the user for confirmation or uses --yes flag.
func confirmClear(n int) bool {
	if yesConfirm {
		return true
	}

	fmt.Printf("Remove up to %d cached reports? Type 'yes' to confirm: ", n)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
