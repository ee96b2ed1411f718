package snitchrun

import (
	"context"

	"github.com/loykin/snitchrun/internal/config"
	"github.com/loykin/snitchrun/internal/jobenv"
	"github.com/loykin/snitchrun/internal/key"
	"github.com/loykin/snitchrun/internal/snitch"
)

// Re-export commonly used types for public API

// Config is the resolved invocation configuration.
type Config = config.Config

// Mode selects between start and report.
type Mode = config.Mode

const (
	ModeStart  = config.ModeStart
	ModeReport = config.ModeReport
)

// Status is the two-valued job outcome.
type Status = config.Status

const (
	StatusSuccess = config.StatusSuccess
	StatusError   = config.StatusError
)

// Result carries the named outputs of one invocation.
type Result = snitch.Result

// JobEnv is the injected job-scoped environment used for the timer variable.
type JobEnv = jobenv.Env

// Runner executes a single invocation.
type Runner = snitch.Runner

// NormalizeStatus maps an arbitrary upstream status string onto Status.
func NormalizeStatus(s string) Status { return config.NormalizeStatus(s) }

// DeriveKey builds the sanitized endpoint key from group and name.
func DeriveKey(group, name string) string { return key.Derive(group, name) }

// NewRunner builds a runner; env and client may be nil for defaults.
func NewRunner(cfg *Config) *Runner { return snitch.NewRunner(cfg, nil, nil) }

// Run normalizes, validates and executes cfg in one call.
func Run(ctx context.Context, cfg *Config) (Result, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	return snitch.NewRunner(cfg, nil, nil).Run(ctx)
}
