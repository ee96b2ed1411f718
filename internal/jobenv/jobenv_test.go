package jobenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMap_RoundTrip(t *testing.T) {
	m := NewMap()
	if _, ok := m.Lookup("MISSING"); ok {
		t.Fatalf("lookup on empty map must miss")
	}
	if err := m.Export("K", "v"); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	got, ok := m.Lookup("K")
	if !ok || got != "v" {
		t.Fatalf("Lookup = %q, %v", got, ok)
	}
}

func TestOS_ExportAppendsToFileAndProcessEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env")
	e := &OS{FilePath: path}

	t.Setenv("SNITCHRUN_TEST_TIMER", "")
	_ = os.Unsetenv("SNITCHRUN_TEST_TIMER")

	if err := e.Export("SNITCHRUN_TEST_TIMER", "1700000000000"); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if err := e.Export("SNITCHRUN_TEST_OTHER", "x"); err != nil {
		t.Fatalf("Export error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read env file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != "SNITCHRUN_TEST_TIMER=1700000000000" {
		t.Fatalf("unexpected env file contents: %q", string(data))
	}

	// same-process visibility
	if got, ok := e.Lookup("SNITCHRUN_TEST_TIMER"); !ok || got != "1700000000000" {
		t.Fatalf("Lookup after export = %q, %v", got, ok)
	}
}

func TestOS_ExportWithoutFileUsesProcessEnv(t *testing.T) {
	e := &OS{}
	t.Setenv("SNITCHRUN_TEST_NOFILE", "")
	if err := e.Export("SNITCHRUN_TEST_NOFILE", "y"); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if got, _ := e.Lookup("SNITCHRUN_TEST_NOFILE"); got != "y" {
		t.Fatalf("Lookup = %q", got)
	}
}
