package key

import "strings"

// TimerVarPrefix namespaces the environment variable that carries a start
// timestamp between a start-mode and a report-mode invocation of the same job.
const TimerVarPrefix = "GATUS_SNITCHER_START_"

var sanitizer = strings.NewReplacer(
	" ", "-",
	"/", "-",
	"_", "-",
	",", "-",
	".", "-",
	"#", "-",
)

// Sanitize replaces characters that are unsafe in endpoint keys and
// environment variable names with '-'.
func Sanitize(s string) string {
	return sanitizer.Replace(s)
}

// Derive builds the endpoint key from group and name. Both sides are
// sanitized independently so the '_' separator stays unambiguous.
func Derive(group, name string) string {
	return Sanitize(group) + "_" + Sanitize(name)
}

// TimerVar derives the environment variable name for the start timestamp.
// The id defaults to the derived key when no explicit timer id was given.
// Identical inputs always yield identical names; start and report rely on
// that to agree on the variable without coordination.
func TimerVar(id string) string {
	v := strings.ReplaceAll(Sanitize(id), "-", "_")
	return TimerVarPrefix + strings.ToUpper(v)
}
