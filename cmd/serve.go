package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"today-i-learned/internal/redisclient"
	"today-i-learned/internal/storage"
	"today-i-learned/worker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background workers",
	Long: "Mirror the hosted fact table into Redis and publish a markdown digest of the\n" +
		"most interesting facts once per period.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		// Redis client
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		local := storage.NewRedisStore(rdb)

		var ws []worker.Worker
		if cfg.Supabase.URL != "" {
			logger.Info("starting mirror", zap.String("url", cfg.Supabase.URL), zap.Duration("interval", cfg.Mirror.Interval))
			ws = append(ws, &worker.MirrorWorker{
				Source:   newSupabase(cfg, logger),
				Sink:     local,
				Interval: cfg.Mirror.Interval,
				Limit:    cfg.Store.Limit,
				Log:      logger.Named("mirror"),
			})
		} else {
			logger.Warn("supabase.url not set, digest reads redis only")
		}

		assistant, err := newAssistant(cfg, logger)
		if err != nil {
			return err
		}
		ws = append(ws, &worker.DigestBuilder{
			Store:      local,
			Marker:     local,
			Frequency:  cfg.Digest.Frequency,
			TopN:       cfg.Digest.TopN,
			OutputDir:  cfg.Digest.OutputDir,
			Interval:   cfg.Digest.Interval,
			Title:      cfg.Digest.Title,
			Preface:    cfg.Digest.Preface,
			Postscript: cfg.Digest.Postscript,
			Language:   cfg.Digest.Language,
			Summarizer: assistant,
			Log:        logger.Named("digest"),
		})

		mgr := worker.NewManager(ws...)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		go func() {
			select {
			case s := <-sigc:
				logger.Info("received signal, shutting down", zap.String("signal", s.String()))
				cancel()
			case <-ctx.Done():
			}
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
