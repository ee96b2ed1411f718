// Package config resolves the raw invocation inputs into an immutable
// configuration record and validates it before any network activity.
package config

import (
	"fmt"

	"github.com/loykin/snitchrun/internal/util"
)

// Mode selects between recording a start timestamp and submitting a report.
type Mode string

const (
	ModeStart  Mode = "start"
	ModeReport Mode = "report"
)

// Status is the one-way classification of the upstream job outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Input defaults.
const (
	DefaultAuthHeader     = "Authorization"
	DefaultAuthScheme     = "Bearer"
	DefaultEndpointPath   = "/api/v1/endpoints"
	DefaultEndpointSuffix = "/external"
	DefaultTimeoutMS      = 15000
)

// Config is built once per invocation and treated as immutable afterwards.
type Config struct {
	Mode   Mode
	Status Status

	BaseURL string
	Group   string
	Name    string
	Token   string

	Duration     string
	ErrorMessage string

	AuthHeader string
	// AuthScheme prefixes the token value; an explicitly empty value means
	// the raw token is sent without a scheme.
	AuthScheme string

	EndpointPath   string
	EndpointSuffix string

	TimeoutMS int
	DryRun    bool

	ExtraHeadersRaw string
	TimerID         string

	// OutputFile and EnvFile are the host job's named-output and env files.
	OutputFile string
	EnvFile    string
}

// ParseMode normalizes the mode input. Empty defaults to report.
func ParseMode(s string) (Mode, error) {
	switch util.TrimAndLower(s) {
	case "", string(ModeReport):
		return ModeReport, nil
	case string(ModeStart):
		return ModeStart, nil
	default:
		return "", fmt.Errorf("config: invalid mode %q (expected start or report)", s)
	}
}

// NormalizeStatus maps arbitrary upstream job-status vocabularies onto the
// two-valued result. Only the case-insensitive literal "success" counts as
// success; "failure", "cancelled", "skipped" and anything else is error.
func NormalizeStatus(s string) Status {
	if util.TrimAndLower(s) == string(StatusSuccess) {
		return StatusSuccess
	}
	return StatusError
}

// ParseBool coerces the usual truthy tokens; anything else is false and an
// absent/empty input takes the caller-supplied default.
func ParseBool(s string, def bool) bool {
	v, ok := util.TrimEmptyCheck(s)
	if !ok {
		return def
	}
	switch util.TrimAndLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Normalize fills defaulted fields that arrived empty.
func (c *Config) Normalize() {
	c.Group, _ = util.TrimEmptyCheck(c.Group)
	c.Name, _ = util.TrimEmptyCheck(c.Name)
	c.BaseURL, _ = util.TrimEmptyCheck(c.BaseURL)
	c.AuthHeader = util.TrimWithDefault(c.AuthHeader, DefaultAuthHeader)
	c.EndpointPath = util.TrimWithDefault(c.EndpointPath, DefaultEndpointPath)
	c.EndpointSuffix = util.TrimWithDefault(c.EndpointSuffix, DefaultEndpointSuffix)
	if c.TimeoutMS == 0 {
		c.TimeoutMS = DefaultTimeoutMS
	}
}

// Validate enforces required inputs. base-url and token are only needed when
// a report will actually be sent.
func (c *Config) Validate() error {
	if c.Mode != ModeStart && c.Mode != ModeReport {
		return fmt.Errorf("config: invalid mode %q", c.Mode)
	}
	if c.Group == "" {
		return fmt.Errorf("config: missing required input: group")
	}
	if c.Name == "" {
		return fmt.Errorf("config: missing required input: name")
	}
	if c.Mode == ModeReport {
		if c.BaseURL == "" {
			return fmt.Errorf("config: missing required input: base-url")
		}
		if c.Token == "" {
			return fmt.Errorf("config: missing required input: token")
		}
	}
	if c.TimeoutMS <= 0 {
		return fmt.Errorf("config: timeout-ms must be a positive integer, got %d", c.TimeoutMS)
	}
	return nil
}
