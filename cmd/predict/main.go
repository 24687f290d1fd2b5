package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/drakos74/free-cover/internal/advisor"
	"github.com/drakos74/free-cover/internal/config"
	"github.com/drakos74/free-cover/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	modelDir   string
	demo       bool
	customer   = sample()
)

// sample is the customer used when no flags are given.
func sample() model.Customer {
	return model.Customer{
		Age:           35,
		Gender:        model.Male,
		HealthStatus:  model.Good,
		MaritalStatus: model.Married,
		AnnualIncome:  800000,
		ClaimHistory:  model.NoClaims,
	}
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Recommend a policy for a customer",
	Long: `Loads the model artifacts and prints the policy recommendation for the customer.
With --demo an untrained model with the default encoders is stored first.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := config.Init(configPath)
		if err != nil {
			return err
		}
		defer closer.Close()
		if modelDir != "" {
			cfg.Model.Dir = modelDir
		}
		return run(cmd.OutOrStdout(), cfg.Model, demo, model.NewCustomerData(customer))
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	rootCmd.Flags().StringVarP(&modelDir, "dir", "d", "", "model directory (default from config)")
	rootCmd.Flags().BoolVar(&demo, "demo", false, "store a demo model before predicting")
	rootCmd.Flags().IntVar(&customer.Age, "age", customer.Age, "age of the customer")
	rootCmd.Flags().StringVar(&customer.Gender, "gender", customer.Gender, "gender of the customer")
	rootCmd.Flags().StringVar(&customer.HealthStatus, "health", customer.HealthStatus, "health status")
	rootCmd.Flags().StringVar(&customer.MaritalStatus, "marital", customer.MaritalStatus, "marital status")
	rootCmd.Flags().Float64Var(&customer.AnnualIncome, "income", customer.AnnualIncome, "annual income")
	rootCmd.Flags().StringVar(&customer.ClaimHistory, "claims", customer.ClaimHistory, "claim history")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(w io.Writer, cfg config.Model, demo bool, data model.CustomerData) error {
	if demo {
		if _, err := advisor.SaveDemoModel(cfg.Dir); err != nil {
			return fmt.Errorf("could not save demo model: %w", err)
		}
	}
	a, err := advisor.New(cfg.Dir, cfg.CacheSize)
	if err != nil {
		return err
	}
	rec, err := a.MakePrediction(data)
	if err != nil {
		return err
	}
	log.Debug().Float64("raw-premium", rec.Values.RawPremium).Msg("predicted")

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
