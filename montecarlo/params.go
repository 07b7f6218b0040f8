// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package montecarlo

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// StrategyName selects an execution strategy.
type StrategyName string

const (
	Sequential      StrategyName = "sequential"
	WorkerPool      StrategyName = "worker_pool"
	VectorizedBatch StrategyName = "vectorized_batch"
)

// Params are the fixed experiment parameters shared by every replication.
// They are passed by value; nothing in the engine mutates them.
type Params struct {
	// The parameter whose coverage is being checked
	TrueValue float64 `yaml:"true_value" validate:"finite"`
	// Draws per replication
	SampleSize int `yaml:"sample_size" validate:"min=1"`
	// Number of replications
	Replications int `yaml:"replications" validate:"min=1"`
	// Nominal confidence level, e.g. 0.95
	ConfidenceLevel float64 `yaml:"confidence_level" validate:"gt=0,lt=1"`
	// Master seed; 0 = time-based
	Seed uint64 `yaml:"seed"`
}

// Config is everything a Runner needs for one run.
type Config struct {
	Params `yaml:",inline"`

	// Which strategy to run with
	Strategy StrategyName `yaml:"strategy" validate:"oneof=sequential worker_pool vectorized_batch"`

	// Only used by the worker pool. 0 means runtime.NumCPU().
	WorkerCount int `yaml:"worker_count" validate:"omitempty,min=1"`
}

// DefaultConfig mirrors the parallel coverage script: Poisson(2) draws of
// size 10, 10000 replications, 95% intervals.
func DefaultConfig() Config {
	return Config{
		Params: Params{
			TrueValue:       2.0,
			SampleSize:      10,
			Replications:    10000,
			ConfidenceLevel: 0.95,
		},
		Strategy: Sequential,
	}
}

// Workers resolves the worker count for the pool.
func (c Config) Workers() int {
	if c.WorkerCount > 0 {
		return c.WorkerCount
	}
	return runtime.NumCPU()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// finite rejects NaN and +-Inf
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// Validate checks every field and reports all violations as a single
// configuration error. Nothing is coerced.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newConfigError(c.Strategy, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v fails %q", fe.Field(), fe.Value(), fe.Tag()+paramSuffix(fe.Param())))
	}
	return newConfigError(c.Strategy, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; ")))
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// LoadConfig reads a YAML config file on top of DefaultConfig. The result
// is not validated; callers run Validate after applying overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
