package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/drakos74/free-cover/internal/config"
	"github.com/drakos74/free-cover/internal/data"
	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/drakos74/free-cover/internal/model"
	"github.com/drakos74/free-cover/internal/net"
	"github.com/drakos74/free-cover/internal/preprocess"
	"github.com/drakos74/free-cover/internal/storage"
	"github.com/drakos74/free-cover/internal/storage/checkpoint"
	"github.com/drakos74/free-cover/internal/storage/file/json"
	"github.com/drakos74/free-cover/internal/train"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errNoCheckpoint = errors.New("training ended without a checkpoint")

var (
	configPath string
	dataFile   string
	modelDir   string
	scaler     string
	epochs     int
	seed       uint64
	trees      int
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the premium model",
	Long: `Preprocesses the dataset, trains the premium network with early stopping
and stores the best checkpoint with the fitted encoders in the model directory.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := config.Init(configPath)
		if err != nil {
			return err
		}
		defer closer.Close()

		if dataFile != "" {
			cfg.Model.DataFile = dataFile
		}
		if modelDir != "" {
			cfg.Model.Dir = modelDir
		}
		if scaler != "" {
			cfg.Model.Scaler = preprocess.ScalerKind(scaler)
		}
		if cmd.Flags().Changed("epochs") {
			cfg.Training.Epochs = epochs
		}
		if cmd.Flags().Changed("seed") {
			cfg.Training.Seed = seed
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		shard := json.BlobShard(cfg.Debug)
		if dryRun {
			shard = storage.VoidShard()
		}
		_, err = run(ctx, cfg, shard, trees)
		return err
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	rootCmd.Flags().StringVarP(&dataFile, "data", "d", "", "csv dataset (default from config)")
	rootCmd.Flags().StringVarP(&modelDir, "out", "o", "", "model directory (default from config)")
	rootCmd.Flags().StringVar(&scaler, "scaler", "", "scaler kind, standard or robust (default from config)")
	rootCmd.Flags().IntVarP(&epochs, "epochs", "e", train.DefaultEpochs, "maximum number of epochs")
	rootCmd.Flags().Uint64Var(&seed, "seed", train.DefaultSeed, "seed for the split, batches and initialisation")
	rootCmd.Flags().IntVar(&trees, "trees", train.DefaultTrees, "trees of the feature importance forest, 0 to skip")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "train without storing the checkpoints")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run executes the full training pipeline and returns the training report.
// Every improvement of the validation loss is stored through the shard of the model directory.
func run(ctx context.Context, cfg config.Config, shard storage.Shard, trees int) (train.Report, error) {
	store, err := shard(cfg.Model.Dir)
	if err != nil {
		return train.Report{}, fmt.Errorf("could not open model storage: %w", err)
	}

	records, err := data.LoadCSV(cfg.Model.DataFile)
	if err != nil {
		return train.Report{}, err
	}
	log.Info().Str("file", cfg.Model.DataFile).Int("records", len(records)).Msg("loaded dataset")

	ds, err := preprocess.Preprocess(records, cfg.Model.Scaler)
	if err != nil {
		return train.Report{}, fmt.Errorf("could not preprocess dataset: %w", err)
	}

	trainSet, valSet, err := train.Split(ds.X, ds.Y, cfg.Training.ValidationRatio, cfg.Training.Seed)
	if err != nil {
		return train.Report{}, err
	}

	netCfg := net.NewConfig(len(ds.Features))
	netCfg.Seed = cfg.Training.Seed
	network, err := net.New(netCfg)
	if err != nil {
		return train.Report{}, err
	}

	// the encoders of a previous model stay in place until this run has a checkpoint to pair them with
	saved := 0
	report, err := train.Train(ctx, network, trainSet, valSet, cfg.Training, train.Hooks{
		OnImprove: func(epoch int, loss float64) error {
			if saved == 0 {
				if err := checkpoint.SaveEncoders(store, ds.Encoders); err != nil {
					return err
				}
			}
			c := checkpoint.New(network, ds.Scaler, ds.Features)
			c.Epoch = epoch
			c.BestLoss = loss
			if err := checkpoint.Save(store, c); err != nil {
				return err
			}
			saved++
			log.Debug().Str("id", c.ID).Int("epoch", epoch).Str("loss", coinmath.Format(loss)).Msg("checkpoint")
			return nil
		},
	})
	if err != nil {
		return report, err
	}
	report.Log()
	if saved == 0 {
		return report, fmt.Errorf("%d epochs in '%s': %w", report.Epochs, cfg.Model.Dir, errNoCheckpoint)
	}
	log.Info().Int("checkpoints", saved).Str("dir", cfg.Model.Dir).Msg("stored model")

	if trees > 0 {
		importance, err := train.FeatureImportance(ds.X, ds.Y, model.Names(ds.Features), trees)
		if err != nil {
			return report, fmt.Errorf("could not rank features: %w", err)
		}
		for i, imp := range importance {
			log.Info().
				Int("rank", i+1).
				Str("feature", imp.Feature).
				Float64("weight", coinmath.Round(imp.Weight, 4)).
				Msg("feature importance")
		}
	}
	return report, nil
}
