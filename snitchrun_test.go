package snitchrun

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRun_ValidatesBeforeExecuting(t *testing.T) {
	cfg := &Config{Mode: ModeReport, Group: "g"}
	if _, err := Run(context.Background(), cfg); err == nil || !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected name validation error, got %v", err)
	}
}

func TestRun_ReportAgainstServer(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(200)
	}))
	defer srv.Close()

	cfg := &Config{
		Mode:    ModeReport,
		Status:  NormalizeStatus("failure"),
		BaseURL: srv.URL,
		Group:   "core ext",
		Name:    "api.test",
		Token:   "t",
	}
	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.HTTPStatus != 200 || res.Status != StatusError {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotQuery != "success=false" {
		t.Fatalf("query = %q", gotQuery)
	}
	if !strings.Contains(res.Endpoint, "/core-ext_api-test/") {
		t.Fatalf("endpoint key not derived: %q", res.Endpoint)
	}
}

func TestDeriveKey(t *testing.T) {
	if DeriveKey("core ext", "api.test") != "core-ext_api-test" {
		t.Fatalf("unexpected derived key")
	}
}
