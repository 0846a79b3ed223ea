package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the meeting cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached meetings",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if meetingCache == nil {
		return errors.New("meeting cache not configured")
	}

	n, err := meetingCache.Purge(cmd.Context())
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries\n", n)
	return nil
}
