// Wraps the service binary so that panic output on stderr ends up in the
// structured log stream instead of being lost by the log collector.
package main

import (
	"os"

	"medscribe.io/enrich/logger"
)

func main() {
	logger.SetupLogging()
	if len(os.Args) < 2 {
		wrapLogger := logger.NewLogger("Logs wrapper")
		wrapLogger.Fatal().Msg("Usage: wrapper <executable> [args...]")
		os.Exit(1)
	}
	logger.WrapProcess(os.Args[1], os.Args[2:]...)
}
