package main

import (
	"context"
	"fmt"

	"github.com/loykin/snitchrun/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "snitchrun",
	Short: "Report a job's outcome to a Gatus external endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), "")
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Record a start timestamp for a later report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), config.ModeStart)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit the job's success or failure to the endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), config.ModeReport)
	},
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", "")
	v.SetDefault("mode", string(config.ModeReport))
	v.SetDefault("status", string(config.StatusSuccess))
	v.SetDefault("auth_header", config.DefaultAuthHeader)
	v.SetDefault("auth_scheme", config.DefaultAuthScheme)
	v.SetDefault("endpoint_path", config.DefaultEndpointPath)
	v.SetDefault("endpoint_suffix", config.DefaultEndpointSuffix)
	v.SetDefault("timeout_ms", config.DefaultTimeoutMS)
	v.SetDefault("dry_run", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "color")

	// Environment variables support: SNITCHRUN_BASE_URL, SNITCHRUN_TOKEN, ...
	v.SetEnvPrefix("SNITCHRUN")
	v.AutomaticEnv()

	// Bind flags via Cobra and then bind to Viper
	pf := rootCmd.PersistentFlags()
	pf.String("config", v.GetString("config"), "path to an optional config yaml")
	pf.String("mode", v.GetString("mode"), "start|report")
	pf.String("base-url", "", "base URL of the monitoring service (required for report)")
	pf.String("group", "", "endpoint group (required)")
	pf.String("name", "", "endpoint name (required)")
	pf.String("token", "", "API token (required for report)")
	pf.String("status", v.GetString("status"), "job status; anything except \"success\" counts as error")
	pf.String("duration", "", "explicit duration value, e.g. 250ms or 10s")
	pf.String("error-message", "", "error detail attached when status is error")
	pf.String("auth-header", v.GetString("auth_header"), "header name carrying the token")
	pf.String("auth-scheme", v.GetString("auth_scheme"), "token scheme prefix; empty sends the raw token")
	pf.String("endpoint-path", v.GetString("endpoint_path"), "URL path before the endpoint key")
	pf.String("endpoint-suffix", v.GetString("endpoint_suffix"), "URL path after the endpoint key")
	pf.Int("timeout-ms", v.GetInt("timeout_ms"), "request timeout in milliseconds")
	pf.String("dry-run", v.GetString("dry_run"), "log the request instead of sending it (1/true/yes/y/on)")
	pf.String("extra-headers", "", "extra headers: JSON object or Key: Value lines")
	pf.String("timer-id", "", "override for the timer variable namespace")
	pf.String("output-file", "", "file receiving key=value outputs (default $GITHUB_OUTPUT)")
	pf.String("env-file", "", "file receiving exported env vars (default $GITHUB_ENV)")
	pf.String("log-level", v.GetString("log_level"), "error|warn|info|debug")
	pf.String("log-format", v.GetString("log_format"), "text|json|color")
	pf.String("insecure", "", "skip TLS verification (1/true/yes/y/on)")
	pf.String("min-tls-version", "", "minimum TLS version for the request")
	pf.String("max-tls-version", "", "maximum TLS version for the request")

	for flag, key := range map[string]string{
		"config":          "config",
		"mode":            "mode",
		"base-url":        "base_url",
		"group":           "group",
		"name":            "name",
		"token":           "token",
		"status":          "status",
		"duration":        "duration",
		"error-message":   "error_message",
		"auth-header":     "auth_header",
		"auth-scheme":     "auth_scheme",
		"endpoint-path":   "endpoint_path",
		"endpoint-suffix": "endpoint_suffix",
		"timeout-ms":      "timeout_ms",
		"dry-run":         "dry_run",
		"extra-headers":   "extra_headers",
		"timer-id":        "timer_id",
		"output-file":     "output_file",
		"env-file":        "env_file",
		"log-level":       "log_level",
		"log-format":      "log_format",
		"insecure":        "insecure",
		"min-tls-version": "min_tls_version",
		"max-tls-version": "max_tls_version",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			exitHandler.LogFatalError(fmt.Errorf("panic: %v", r), "invocation failed")
		}
	}()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		exitHandler.LogFatalError(err, "invocation failed")
	}
}
