package data

import (
	"fmt"
	"math"
	"strings"

	"github.com/drakos74/free-cover/internal/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultRecords is the default size of the synthetic dataset.
	DefaultRecords = 2000
	// DefaultSeed makes the generated dataset reproducible.
	DefaultSeed = 42
	// DefaultMissingIncome is the number of draws for rows that lose their income value.
	DefaultMissingIncome = 50
)

// GeneratorConfig defines the size and randomness of the synthetic dataset.
type GeneratorConfig struct {
	Records       int    `yaml:"records"`
	Seed          uint64 `yaml:"seed"`
	MissingIncome int    `yaml:"missing_income"`
}

// DefaultGeneratorConfig returns the config the training data is usually generated with.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Records:       DefaultRecords,
		Seed:          DefaultSeed,
		MissingIncome: DefaultMissingIncome,
	}
}

// Generator produces synthetic policy records with correlated income, premium and sum assured.
type Generator struct {
	cfg    GeneratorConfig
	rng    *rand.Rand
	health distuv.Categorical
	noise  distuv.Normal
	// premium and sum assured multipliers
	rate  distuv.Uniform
	cover distuv.Uniform
	// multiplicative noise
	premiumNoise distuv.Normal
	coverNoise   distuv.Normal
}

// NewGenerator creates a new generator for the given config.
func NewGenerator(cfg GeneratorConfig) *Generator {
	src := rand.NewSource(cfg.Seed)
	return &Generator{
		cfg:          cfg,
		rng:          rand.New(src),
		health:       distuv.NewCategorical(model.HealthStatusProbs, src),
		noise:        distuv.Normal{Mu: 0, Sigma: 20000, Src: src},
		rate:         distuv.Uniform{Min: 0.02, Max: 0.05, Src: src},
		cover:        distuv.Uniform{Min: 10, Max: 20, Src: src},
		premiumNoise: distuv.Normal{Mu: 0, Sigma: 0.1, Src: src},
		coverNoise:   distuv.Normal{Mu: 0, Sigma: 0.05, Src: src},
	}
}

// Generate creates the synthetic dataset for the given config.
func Generate(cfg GeneratorConfig) []model.Record {
	return NewGenerator(cfg).Generate()
}

// Generate creates a new dataset.
func (g *Generator) Generate() []model.Record {
	records := make([]model.Record, g.cfg.Records)
	for i := range records {
		records[i] = g.record()
	}

	// missing values, sampled with replacement
	if len(records) > 0 {
		for i := 0; i < g.cfg.MissingIncome; i++ {
			records[g.rng.Intn(len(records))].AnnualIncome = math.NaN()
		}
	}

	for i := range records {
		records[i].Premium = math.Round(records[i].Premium * (1 + g.premiumNoise.Rand()))
		records[i].SumAssured = math.Round(records[i].SumAssured * (1 + g.coverNoise.Rand()))
	}
	return records
}

func (g *Generator) record() model.Record {
	age := g.between(25, 70)
	income := math.Trunc(30000 + float64(age)*1000 + g.noise.Rand())
	premium := math.Trunc(income * g.rate.Rand())
	return model.Record{
		Age:              age,
		Gender:           g.pick(model.Genders),
		HealthStatus:     model.HealthStatuses[int(g.health.Rand())],
		MaritalStatus:    g.pick(model.MaritalStatuses),
		CurrentInsurance: g.pick(model.InsuranceTypes),
		PreviousPolicies: g.between(0, 5),
		ClaimHistory:     g.pick(model.ClaimCategories),
		AnnualIncome:     income,
		Premium:          premium,
		SumAssured:       math.Trunc(premium * g.cover.Rand()),
		FamilyDetails:    g.family(),
	}
}

// family creates the family member description e.g. 'Spouse:34;Child:5'
func (g *Generator) family() string {
	size := g.between(0, 5)
	if size == 0 {
		return "None"
	}
	details := make([]string, size)
	for i := range details {
		relation := g.pick(model.FamilyRelations)
		var age int
		switch relation {
		case "Child":
			age = g.between(1, 25)
		case "Spouse":
			age = g.between(25, 60)
		default:
			age = g.between(45, 80)
		}
		details[i] = fmt.Sprintf("%s:%d", relation, age)
	}
	return strings.Join(details, ";")
}

// between returns a random integer in [lo, hi)
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo)
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}
