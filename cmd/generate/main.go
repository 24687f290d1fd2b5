package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/drakos74/free-cover/internal/config"
	"github.com/drakos74/free-cover/internal/data"
	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/drakos74/free-cover/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	out        string
	xlsx       string
	records    int
	seed       uint64
)

var rootCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic insurance dataset",
	Long: `Generates customer records with correlated income, premium and sum assured,
writes them as csv and optionally as an excel sheet.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := config.Init(configPath)
		if err != nil {
			return err
		}
		defer closer.Close()

		if cmd.Flags().Changed("records") {
			cfg.Generator.Records = records
		}
		if cmd.Flags().Changed("seed") {
			cfg.Generator.Seed = seed
		}
		if out == "" {
			out = cfg.Model.DataFile
		}
		return run(cfg.Generator, out, xlsx)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	rootCmd.Flags().StringVarP(&out, "out", "o", "", "csv output file (default from config)")
	rootCmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the dataset to this excel file")
	rootCmd.Flags().IntVarP(&records, "records", "n", data.DefaultRecords, "number of records")
	rootCmd.Flags().Uint64Var(&seed, "seed", data.DefaultSeed, "random seed")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg data.GeneratorConfig, out, xlsx string) error {
	if cfg.Records <= 0 {
		return fmt.Errorf("invalid number of records %d", cfg.Records)
	}
	rr := data.Generate(cfg)
	if err := data.SaveCSV(out, rr); err != nil {
		return err
	}
	log.Info().Str("file", out).Int("records", len(rr)).Msg("saved dataset")

	if xlsx != "" {
		if err := data.SaveXLSX(xlsx, rr); err != nil {
			return err
		}
		log.Info().Str("file", xlsx).Msg("saved spreadsheet")
	}

	describe(rr)
	return nil
}

func describe(rr []model.Record) {
	summary := data.Describe(rr)
	columns := make([]string, 0, len(summary))
	for c := range summary {
		columns = append(columns, string(c))
	}
	sort.Strings(columns)
	for _, c := range columns {
		s := summary[model.Column(c)]
		log.Info().
			Str("column", c).
			Int("count", s.Count).
			Str("mean", coinmath.Format(s.Mean)).
			Str("std", coinmath.Format(s.Std)).
			Str("min", coinmath.Format(s.Min)).
			Str("median", coinmath.Format(s.Median)).
			Str("max", coinmath.Format(s.Max)).
			Msg("summary")
	}
	log.Info().Int("missing-income", data.Missing(rr)).Msg("missing values")
}
