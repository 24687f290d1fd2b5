package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drakos74/free-cover/internal/advisor"
	"github.com/drakos74/free-cover/internal/config"
	"github.com/drakos74/free-cover/internal/metrics"
	"github.com/drakos74/free-cover/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const name = "free-cover"

var (
	configPath string
	port       int
	staticDir  string
	modelDir   string
	watch      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the recommendation api and the web client",
	Long: `Serves the prediction api, the metrics endpoint and the single page application.
The port, run mode and debug flag can also be set with PORT, FLASK_ENV and DEBUG.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := config.Init(configPath)
		if err != nil {
			return err
		}
		defer closer.Close()

		if cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}
		if staticDir != "" {
			cfg.Server.StaticDir = staticDir
		}
		if modelDir != "" {
			cfg.Model.Dir = modelDir
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg, watch)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	rootCmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "port to listen on")
	rootCmd.Flags().StringVar(&staticDir, "static", "", "web client build directory (default from config)")
	rootCmd.Flags().StringVarP(&modelDir, "dir", "d", "", "model directory (default from config)")
	rootCmd.Flags().DurationVar(&watch, "watch", 30*time.Second, "interval for reloading the model artifacts")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, interval time.Duration) error {
	a, err := advisor.New(cfg.Model.Dir, cfg.Model.CacheSize)
	if err != nil {
		return err
	}

	s := server.NewServer(name, cfg.Server).
		Add(server.Test(), server.Ready(a), server.Predict(a, metrics.Observer, cfg.Debug))
	if cfg.Debug {
		s.Debug()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(ctx)
	})
	g.Go(func() error {
		warm(ctx, a, interval)
		return nil
	})
	return g.Wait()
}

// warm keeps the model artifacts loaded, so that a new checkpoint is picked up before the next request.
func warm(ctx context.Context, a *advisor.Advisor, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ready := a.Ready()
	if !ready {
		log.Warn().Str("dir", a.Dir()).Msg("model not available, predictions will fail until it is trained")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if now := a.Ready(); now != ready {
				ready = now
				log.Info().Str("dir", a.Dir()).Bool("ready", ready).Msg("model availability changed")
			}
		}
	}
}
