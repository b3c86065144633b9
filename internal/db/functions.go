package db

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

func init() {
	// contains_fold(haystack, needle) is 1 when needle occurs in haystack
	// ignoring case, with Unicode folding. SQLite's own lower() and LIKE only
	// fold ASCII. NULL arguments count as the empty string.
	sqlite.MustRegisterDeterministicScalarFunction("contains_fold", 2, containsFold)
}

func containsFold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	haystack, needle := textArg(args[0]), textArg(args[1])
	if strings.Contains(strings.ToLower(haystack), strings.ToLower(needle)) {
		return int64(1), nil
	}
	return int64(0), nil
}

func textArg(v driver.Value) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}
