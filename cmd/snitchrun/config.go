package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loykin/snitchrun/internal/common"
	"github.com/loykin/snitchrun/internal/config"
	"github.com/loykin/snitchrun/internal/httpc"
	"github.com/loykin/snitchrun/internal/jobenv"
	"github.com/loykin/snitchrun/internal/snitch"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"`                 // text, json, color
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"` // enable/disable sensitive data masking
}

// ClientConfig holds TLS options for the outbound request.
type ClientConfig struct {
	Insecure      bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string `mapstructure:"max_tls_version" yaml:"max_tls_version"`
}

// ConfigDoc is the optional YAML config file. Every field acts as a default
// under environment variables and flags.
type ConfigDoc struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	Group          string        `mapstructure:"group" yaml:"group"`
	Name           string        `mapstructure:"name" yaml:"name"`
	Token          string        `mapstructure:"token" yaml:"token"`
	AuthHeader     string        `mapstructure:"auth_header" yaml:"auth_header"`
	AuthScheme     *string       `mapstructure:"auth_scheme" yaml:"auth_scheme"`
	EndpointPath   string        `mapstructure:"endpoint_path" yaml:"endpoint_path"`
	EndpointSuffix string        `mapstructure:"endpoint_suffix" yaml:"endpoint_suffix"`
	TimeoutMS      int           `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	ExtraHeaders   string        `mapstructure:"extra_headers" yaml:"extra_headers"`
	TimerID        string        `mapstructure:"timer_id" yaml:"timer_id"`
	OutputFile     string        `mapstructure:"output_file" yaml:"output_file"`
	EnvFile        string        `mapstructure:"env_file" yaml:"env_file"`
	Logging        LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Client         ClientConfig  `mapstructure:"client" yaml:"client"`
}

// loadConfigDoc reads the optional YAML config file.
func loadConfigDoc(path string) (*ConfigDoc, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var doc ConfigDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &doc, nil
}

// applyDefaults installs the file values as viper defaults so that
// environment variables and flags still win.
func (d *ConfigDoc) applyDefaults(v *viper.Viper) {
	set := func(key, val string) {
		if val != "" {
			v.SetDefault(key, val)
		}
	}
	set("base_url", d.BaseURL)
	set("group", d.Group)
	set("name", d.Name)
	set("token", d.Token)
	set("auth_header", d.AuthHeader)
	if d.AuthScheme != nil {
		v.SetDefault("auth_scheme", *d.AuthScheme)
	}
	set("endpoint_path", d.EndpointPath)
	set("endpoint_suffix", d.EndpointSuffix)
	if d.TimeoutMS != 0 {
		v.SetDefault("timeout_ms", d.TimeoutMS)
	}
	set("extra_headers", d.ExtraHeaders)
	set("timer_id", d.TimerID)
	set("output_file", d.OutputFile)
	set("env_file", d.EnvFile)
	set("log_level", d.Logging.Level)
	set("log_format", d.Logging.Format)
	if d.Client.Insecure {
		v.SetDefault("insecure", "true")
	}
	set("min_tls_version", d.Client.MinTLSVersion)
	set("max_tls_version", d.Client.MaxTLSVersion)
}

// resolveConfig builds the validated configuration record from viper.
// forced overrides the mode input when a subcommand selected it.
func resolveConfig(v *viper.Viper, forced config.Mode) (*config.Config, error) {
	mode := forced
	if mode == "" {
		m, err := config.ParseMode(v.GetString("mode"))
		if err != nil {
			return nil, err
		}
		mode = m
	}

	cfg := &config.Config{
		Mode:            mode,
		Status:          config.NormalizeStatus(v.GetString("status")),
		BaseURL:         v.GetString("base_url"),
		Group:           v.GetString("group"),
		Name:            v.GetString("name"),
		Token:           v.GetString("token"),
		Duration:        v.GetString("duration"),
		ErrorMessage:    v.GetString("error_message"),
		AuthHeader:      v.GetString("auth_header"),
		AuthScheme:      v.GetString("auth_scheme"),
		EndpointPath:    v.GetString("endpoint_path"),
		EndpointSuffix:  v.GetString("endpoint_suffix"),
		TimeoutMS:       v.GetInt("timeout_ms"),
		DryRun:          config.ParseBool(v.GetString("dry_run"), false),
		ExtraHeadersRaw: v.GetString("extra_headers"),
		TimerID:         v.GetString("timer_id"),
		OutputFile:      v.GetString("output_file"),
		EnvFile:         v.GetString("env_file"),
	}

	// fall back to the host CI's well-known file locations
	if cfg.OutputFile == "" {
		cfg.OutputFile = os.Getenv("GITHUB_OUTPUT")
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = os.Getenv("GITHUB_ENV")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run resolves inputs, executes the invocation and emits outputs.
func run(ctx context.Context, forced config.Mode) error {
	v := viper.GetViper()

	var doc *ConfigDoc
	if path := v.GetString("config"); path != "" {
		d, err := loadConfigDoc(path)
		if err != nil {
			return err
		}
		d.applyDefaults(v)
		doc = d
	}

	mask := true
	if doc != nil && doc.Logging.MaskSensitive != nil {
		mask = *doc.Logging.MaskSensitive
	}
	logger := common.Setup(v.GetString("log_level"), v.GetString("log_format"), mask)

	cfg, err := resolveConfig(v, forced)
	if err != nil {
		return err
	}

	client := httpc.FromOptions(
		config.ParseBool(v.GetString("insecure"), false),
		v.GetString("min_tls_version"),
		v.GetString("max_tls_version"),
	)

	runner := snitch.NewRunner(cfg, &jobenv.OS{FilePath: cfg.EnvFile}, client)
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if err := writeOutputs(cfg.OutputFile, res); err != nil {
		return err
	}
	logger.Info("done",
		"status", string(res.Status),
		"endpoint", res.Endpoint,
		"http_status", res.HTTPStatus)
	return nil
}
