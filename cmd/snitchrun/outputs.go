package main

import (
	"fmt"
	"os"

	"github.com/loykin/snitchrun/internal/snitch"
)

// writeOutputs appends the three named outputs as key=value lines to the job
// output file. Without a file the values are only carried in the final log
// line, which run emits unconditionally.
func writeOutputs(path string, res snitch.Result) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, err = fmt.Fprintf(f, "status=%s\nendpoint=%s\nhttp-status=%d\n",
		res.Status, res.Endpoint, res.HTTPStatus)
	if err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
