// Package config defines the typed solver options and their yaml form.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAbsTol        = 1e-6
	DefaultRelTol        = 1e-10
	DefaultStepTol       = 1e-10
	DefaultMaxIterations = 50
	DefaultMaxBacktracks = 25
	DefaultScaling       = 1.0
)

// Jacobian modes recognized by Validate.
const (
	JacobianAnalytic = "analytic"
	JacobianFD       = "fd"
)

// Config is the validated option set a solve session is initialized with.
// PostCheckTol bounds the residual re-check after a converged result; zero
// means "same as AbsTol".
type Config struct {
	AbsTol        float64 `yaml:"abs_tol"`
	RelTol        float64 `yaml:"rel_tol"`
	StepTol       float64 `yaml:"step_tol"`
	PostCheckTol  float64 `yaml:"post_check_tol"`
	MaxIterations int     `yaml:"max_iterations"`
	MaxBacktracks int     `yaml:"max_backtracks"`
	Scaling       float64 `yaml:"scaling"`
	Jacobian      string  `yaml:"jacobian"`
	Backend       string  `yaml:"backend"`

	// UseDefaults bypasses the tunable linear-solve and step-acceptance
	// options and pins the fixed direct-solve configuration.
	UseDefaults bool `yaml:"use_defaults"`
}

func DefaultConfig() *Config {
	return &Config{
		AbsTol:        DefaultAbsTol,
		RelTol:        DefaultRelTol,
		StepTol:       DefaultStepTol,
		MaxIterations: DefaultMaxIterations,
		MaxBacktracks: DefaultMaxBacktracks,
		Scaling:       DefaultScaling,
		Jacobian:      JacobianAnalytic,
		Backend:       "lu",
	}
}

// Validate checks ranges and enumerations. It does not mutate the config.
func (c *Config) Validate() error {
	if c.AbsTol <= 0 {
		return fmt.Errorf("config: abs_tol must be positive, got %g", c.AbsTol)
	}
	if c.RelTol <= 0 {
		return fmt.Errorf("config: rel_tol must be positive, got %g", c.RelTol)
	}
	if c.StepTol <= 0 {
		return fmt.Errorf("config: step_tol must be positive, got %g", c.StepTol)
	}
	if c.PostCheckTol < 0 {
		return fmt.Errorf("config: post_check_tol must not be negative, got %g", c.PostCheckTol)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("config: max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxBacktracks <= 0 {
		return fmt.Errorf("config: max_backtracks must be positive, got %d", c.MaxBacktracks)
	}
	if c.Scaling <= 0 {
		return fmt.Errorf("config: scaling must be positive, got %g", c.Scaling)
	}
	switch c.Jacobian {
	case JacobianAnalytic, JacobianFD:
	default:
		return fmt.Errorf("config: unknown jacobian mode %q", c.Jacobian)
	}
	switch c.Backend {
	case "", "lu", "qr":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return nil
}

// Effective resolves the configuration a session actually runs with: the
// post-check tolerance default and the UseDefaults pinning.
func (c *Config) Effective() *Config {
	out := *c
	if out.PostCheckTol == 0 {
		out.PostCheckTol = out.AbsTol
	}
	if out.UseDefaults {
		out.Backend = "lu"
		out.Jacobian = JacobianAnalytic
		out.MaxBacktracks = DefaultMaxBacktracks
	}
	return &out
}

// Load reads a yaml config, filling unset fields from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
