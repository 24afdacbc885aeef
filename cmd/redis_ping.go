package cmd

import (
	"context"
	"fmt"
	"time"

	"today-i-learned/internal/factstore"
	"today-i-learned/internal/redisclient"
	"today-i-learned/internal/storage"

	"github.com/spf13/cobra"
)

// pingCmd checks the mirror is reachable and reports how many facts it holds.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and count mirrored facts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		facts, err := storage.NewRedisStore(rdb).List(ctx, factstore.TopQuery(""))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d facts)\n", res, cfg.Redis.Addr, len(facts))
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
