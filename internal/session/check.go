package session

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"oxrsession/internal/xr"
)

// checker is the single checking point for runtime results. Failures are
// logged with the call site and counted, never escalated; callers decide
// whether a failure aborts their step.
type checker struct {
	log zerolog.Logger
	// onFailure records the most recent failure for Status.
	onFailure func(call string, res xr.Result)
}

// check returns nil for success codes (qualified ones included) and a
// *xr.CallError otherwise.
func (c *checker) check(res xr.Result, call string) error {
	if res.Succeeded() {
		return nil
	}
	site := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		site = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	c.log.Error().
		Str("call", call).
		Int32("result", int32(res)).
		Str("result_str", res.String()).
		Str("site", site).
		Msg("xr call failed")
	callFailuresTotal.WithLabelValues(call).Inc()
	if c.onFailure != nil {
		c.onFailure(call, res)
	}
	return res.Err(call)
}
