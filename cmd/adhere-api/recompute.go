package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/adhere/backend/internal/logger"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute adherence snapshots once",
	Long:  `Compute and store today's adherence snapshot for every recently active user, then exit.`,
	RunE:  runRecompute,
}

var recomputeAt string

func init() {
	recomputeCmd.Flags().StringVar(&recomputeAt, "at", "", "RFC3339 instant to compute for (default: now)")
}

func runRecompute(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	now := time.Now()
	if recomputeAt != "" {
		now, err = time.Parse(time.RFC3339, recomputeAt)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Scheduler.Timeout)
	defer cancel()

	d, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.service.RecomputeSnapshots(ctx, now)
	if err != nil {
		return fmt.Errorf("recompute failed: %w", err)
	}

	log.Info("recompute finished",
		logger.Int("users", result.Users),
		logger.Int("computed", result.Computed),
		logger.Int("failed", result.Failed),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "users=%d computed=%d failed=%d\n", result.Users, result.Computed, result.Failed)
	return nil
}
