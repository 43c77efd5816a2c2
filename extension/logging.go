package extension

import (
	"fmt"
	"io"
)

// LoggingHook returns a Hook that records every translation it observes to
// w and never short-circuits, grounded in the teacher's own
// fmt.Fprintf(logFile, ...) VERBOSE-style tracing rather than a
// structured logging library the teacher never reaches for.
func LoggingHook(w io.Writer) Hook {
	return func(event Event, result, fakePath string) (string, int, error) {
		fmt.Fprintf(w, "extension: event=%d base=%q fake_path=%q\n", event, result, fakePath)
		return result, 0, nil
	}
}
