package cmd

import "github.com/spf13/cobra"

// redisCmd groups commands for the Redis fact mirror.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Inspect the Redis fact mirror",
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
