// Package snitch implements the reporting pipeline: build the endpoint
// request from the resolved configuration, then either log it (dry run) or
// POST it to the monitoring service.
package snitch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/loykin/snitchrun/internal/config"
	"github.com/loykin/snitchrun/internal/header"
	"github.com/loykin/snitchrun/internal/jobenv"
	"github.com/loykin/snitchrun/internal/key"
)

// Request is the fully resolved outbound call: the endpoint URL with query
// parameters already encoded, and the complete header set.
type Request struct {
	URL     string
	Headers map[string]string
}

// BuildRequest assembles the endpoint URL, query parameters and headers for
// a report. now supplies the clock used for timer-based durations.
func BuildRequest(cfg *config.Config, env jobenv.Env, now func() time.Time) (Request, error) {
	extra, err := header.Parse(cfg.ExtraHeadersRaw)
	if err != nil {
		return Request{}, err
	}

	k := key.Derive(cfg.Group, cfg.Name)

	endpoint := strings.TrimRight(cfg.BaseURL, "/") +
		"/" + strings.TrimLeft(cfg.EndpointPath, "/") +
		"/" + url.PathEscape(k) + cfg.EndpointSuffix

	q := url.Values{}
	q.Set("success", strconv.FormatBool(cfg.Status == config.StatusSuccess))
	if cfg.Status == config.StatusError && cfg.ErrorMessage != "" {
		q.Set("error", cfg.ErrorMessage)
	}
	if d := resolveDuration(cfg, env, now); d != "" {
		q.Set("duration", d)
	}

	return Request{
		URL:     endpoint + "?" + q.Encode(),
		Headers: buildHeaders(cfg, extra),
	}, nil
}

// resolveDuration picks the duration value for the report. An explicit
// duration input always wins. Otherwise the timer variable written by a
// start-mode invocation is consulted; a stored value that is not a positive
// timestamp, or an elapsed time that came out negative (clock went backward),
// drops the parameter entirely.
func resolveDuration(cfg *config.Config, env jobenv.Env, now func() time.Time) string {
	if cfg.Duration != "" {
		return cfg.Duration
	}
	timerVar := key.TimerVar(timerID(cfg))
	raw, ok := env.Lookup(timerVar)
	if !ok {
		return ""
	}
	start, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || start <= 0 {
		return ""
	}
	elapsed := now().UnixMilli() - start
	if elapsed < 0 {
		return ""
	}
	return fmt.Sprintf("%dms", elapsed)
}

// timerID is the explicit timer-id input, falling back to the derived key so
// start and report agree without coordination.
func timerID(cfg *config.Config) string {
	if cfg.TimerID != "" {
		return cfg.TimerID
	}
	return key.Derive(cfg.Group, cfg.Name)
}

// buildHeaders produces the outbound header set: the auth header first, then
// extra headers merged on top (they may override it).
func buildHeaders(cfg *config.Config, extra map[string]string) map[string]string {
	hdrs := map[string]string{}
	if cfg.Token != "" {
		val := cfg.Token
		if cfg.AuthScheme != "" {
			val = cfg.AuthScheme + " " + cfg.Token
		}
		hdrs[cfg.AuthHeader] = val
	}
	for k, v := range extra {
		hdrs[k] = v
	}
	return hdrs
}
