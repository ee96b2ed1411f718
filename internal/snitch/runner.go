package snitch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/loykin/snitchrun/internal/common"
	"github.com/loykin/snitchrun/internal/config"
	"github.com/loykin/snitchrun/internal/httpc"
	"github.com/loykin/snitchrun/internal/jobenv"
	"github.com/loykin/snitchrun/internal/key"
)

// Result carries the named outputs of one invocation.
type Result struct {
	Status Status
	// Endpoint is the full resolved URL; empty in start mode.
	Endpoint string
	// HTTPStatus is the response code; 0 when no HTTP call was made.
	HTTPStatus int
}

// Status aliases the configuration status for output reporting.
type Status = config.Status

// Runner executes a single start or report invocation.
type Runner struct {
	Config *config.Config
	Env    jobenv.Env
	Client *httpc.Httpc

	// now is the clock; replaced in tests.
	now func() time.Time
}

func NewRunner(cfg *config.Config, env jobenv.Env, client *httpc.Httpc) *Runner {
	if env == nil {
		env = &jobenv.OS{FilePath: cfg.EnvFile}
	}
	if client == nil {
		client = &httpc.Httpc{}
	}
	return &Runner{Config: cfg, Env: env, Client: client, now: time.Now}
}

// Run dispatches on the configured mode.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Config.Mode == config.ModeStart {
		return r.Start(ctx)
	}
	return r.Report(ctx)
}

// Start records the current millisecond timestamp under the timer variable
// so that a later report-mode invocation can compute the elapsed duration.
// No network access occurs in this mode.
func (r *Runner) Start(_ context.Context) (Result, error) {
	logger := common.GetLogger().WithComponent("snitch").WithMode("start")

	timerVar := key.TimerVar(timerID(r.Config))
	startMs := r.now().UnixMilli()
	if err := r.Env.Export(timerVar, strconv.FormatInt(startMs, 10)); err != nil {
		return Result{}, fmt.Errorf("snitch: export timer variable %s: %w", timerVar, err)
	}

	logger.Info("recorded start timestamp", "timer_var", timerVar, "start_ms", startMs)
	return Result{Status: config.StatusSuccess, HTTPStatus: 0}, nil
}

// Report builds the endpoint request and submits it, or logs it in dry-run
// mode. Every failure is terminal; no retries.
func (r *Runner) Report(ctx context.Context) (Result, error) {
	logger := common.GetLogger().WithComponent("snitch").WithMode("report")

	req, err := BuildRequest(r.Config, r.Env, r.now)
	if err != nil {
		return Result{}, err
	}

	if r.Config.DryRun {
		logger.Info("dry run, skipping request",
			"endpoint", req.URL,
			"status", string(r.Config.Status),
			"headers", fmt.Sprintf("%v", common.RedactHeaders(req.Headers)))
		return Result{Status: r.Config.Status, Endpoint: req.URL, HTTPStatus: 0}, nil
	}

	timeout := time.Duration(r.Config.TimeoutMS) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Debug("sending report", "endpoint", req.URL, "timeout", timeout)

	resp, err := r.Client.New().R().
		SetContext(ctx).
		SetHeaders(req.Headers).
		Post(req.URL)

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	if err != nil && status == 0 {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{}, fmt.Errorf("snitch: request timed out after %s: %w", timeout, err)
		}
		return Result{}, fmt.Errorf("snitch: request failed: %w", err)
	}

	// body is best effort; a read failure already degraded it to empty
	body := ""
	if resp != nil {
		body = string(resp.Body())
	}
	if status < 200 || status > 299 {
		if body != "" {
			logger.Error("endpoint rejected report", "http_status", status, "body", body)
		}
		return Result{}, fmt.Errorf("snitch: endpoint returned HTTP %d", status)
	}

	logger.Info("report accepted", "endpoint", req.URL, "http_status", status, "status", string(r.Config.Status))
	return Result{Status: r.Config.Status, Endpoint: req.URL, HTTPStatus: status}, nil
}
