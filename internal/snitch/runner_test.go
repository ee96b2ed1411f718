package snitch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/loykin/snitchrun/internal/config"
	"github.com/loykin/snitchrun/internal/jobenv"
	"github.com/loykin/snitchrun/internal/key"
)

func TestRunner_StartExportsTimer(t *testing.T) {
	cfg := &config.Config{Mode: config.ModeStart, Group: "ci", Name: "nightly"}
	cfg.Normalize()
	env := jobenv.NewMap()
	r := NewRunner(cfg, env, nil)
	r.now = fixedNow(time.UnixMilli(1700000000000))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Status != config.StatusSuccess || res.Endpoint != "" || res.HTTPStatus != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	got, ok := env.Lookup("GATUS_SNITCHER_START_CI_NIGHTLY")
	if !ok || got != "1700000000000" {
		t.Fatalf("timer variable = %q, %v", got, ok)
	}
}

func TestRunner_StartHonorsTimerID(t *testing.T) {
	cfg := &config.Config{Mode: config.ModeStart, Group: "g", Name: "n", TimerID: "my.timer"}
	cfg.Normalize()
	env := jobenv.NewMap()
	r := NewRunner(cfg, env, nil)

	if _, err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if _, ok := env.Lookup(key.TimerVar("my.timer")); !ok {
		t.Fatalf("timer-id override not used")
	}
}

func TestRunner_StartThenReportRoundTrip(t *testing.T) {
	env := jobenv.NewMap()

	start := &config.Config{Mode: config.ModeStart, Group: "g", Name: "n"}
	start.Normalize()
	sr := NewRunner(start, env, nil)
	sr.now = fixedNow(time.UnixMilli(5000))
	if _, err := sr.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.WriteHeader(200)
	}))
	defer srv.Close()

	report := &config.Config{
		Mode: config.ModeReport, Status: config.StatusSuccess,
		BaseURL: srv.URL, Group: "g", Name: "n", Token: "t",
	}
	report.Normalize()
	rr := NewRunner(report, env, nil)
	rr.now = fixedNow(time.UnixMilli(5250))
	res, err := rr.Report(context.Background())
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if res.HTTPStatus != 200 {
		t.Fatalf("http status = %d", res.HTTPStatus)
	}
	if !strings.Contains(gotURL, "duration=250ms") {
		t.Fatalf("duration not carried from start: %q", gotURL)
	}
}

func TestRunner_DryRunSkipsNetwork(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := &config.Config{
		Mode: config.ModeReport, Status: config.StatusSuccess,
		BaseURL: srv.URL, Group: "ci", Name: "nightly", Token: "t",
		DryRun: true,
	}
	cfg.Normalize()
	r := NewRunner(cfg, jobenv.NewMap(), nil)

	res, err := r.Report(context.Background())
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if called {
		t.Fatalf("dry run must not touch the network")
	}
	if res.HTTPStatus != 0 || res.Status != config.StatusSuccess {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.HasSuffix(res.Endpoint, "/api/v1/endpoints/ci_nightly/external?success=true") {
		t.Fatalf("endpoint = %q", res.Endpoint)
	}
}

func TestRunner_ReportSendsPOSTWithHeadersAndEmptyBody(t *testing.T) {
	var method, auth string
	var bodyLen int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		bodyLen = int64(len(b))
		w.WriteHeader(200)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Mode: config.ModeReport, Status: config.StatusError,
		BaseURL: srv.URL, Group: "g", Name: "n",
		Token: "tok", AuthScheme: config.DefaultAuthScheme,
		ErrorMessage: "boom",
	}
	cfg.Normalize()
	r := NewRunner(cfg, jobenv.NewMap(), nil)

	res, err := r.Report(context.Background())
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if method != http.MethodPost {
		t.Fatalf("method = %q", method)
	}
	if auth != "Bearer tok" {
		t.Fatalf("auth header = %q", auth)
	}
	if bodyLen != 0 {
		t.Fatalf("body must be empty, got %d bytes", bodyLen)
	}
	if res.Status != config.StatusError || res.HTTPStatus != 200 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunner_Non2xxFailsCitingStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		_, _ = w.Write([]byte("upstream broken"))
	}))
	defer srv.Close()

	cfg := &config.Config{
		Mode: config.ModeReport, Status: config.StatusSuccess,
		BaseURL: srv.URL, Group: "g", Name: "n", Token: "t",
	}
	cfg.Normalize()
	r := NewRunner(cfg, jobenv.NewMap(), nil)

	_, err := r.Report(context.Background())
	if err == nil {
		t.Fatalf("expected failure on HTTP 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error must cite the status code: %v", err)
	}
}

func TestRunner_TimeoutAbortsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Mode: config.ModeReport, Status: config.StatusSuccess,
		BaseURL: srv.URL, Group: "g", Name: "n", Token: "t",
		TimeoutMS: 50,
	}
	cfg.Normalize()
	r := NewRunner(cfg, jobenv.NewMap(), nil)

	begin := time.Now()
	_, err := r.Report(context.Background())
	if err == nil {
		t.Fatalf("expected timeout failure")
	}
	if time.Since(begin) > time.Second {
		t.Fatalf("timeout did not abort the request promptly")
	}
}

func TestRunner_ConnectionRefusedIsFatal(t *testing.T) {
	cfg := &config.Config{
		Mode: config.ModeReport, Status: config.StatusSuccess,
		BaseURL: "http://127.0.0.1:1", Group: "g", Name: "n", Token: "t",
		TimeoutMS: 1000,
	}
	cfg.Normalize()
	r := NewRunner(cfg, jobenv.NewMap(), nil)

	if _, err := r.Report(context.Background()); err == nil {
		t.Fatalf("expected transport failure")
	}
}

func TestRunner_MalformedExtraHeadersFailBeforeNetwork(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := &config.Config{
		Mode: config.ModeReport, Status: config.StatusSuccess,
		BaseURL: srv.URL, Group: "g", Name: "n", Token: "t",
		ExtraHeadersRaw: "no-colon-here",
	}
	cfg.Normalize()
	r := NewRunner(cfg, jobenv.NewMap(), nil)

	if _, err := r.Report(context.Background()); err == nil {
		t.Fatalf("expected configuration error")
	}
	if called {
		t.Fatalf("no request may be attempted after a header parse error")
	}
}
