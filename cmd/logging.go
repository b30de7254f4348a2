package cmd

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/df07/go-photon-raytracer/pkg/logging"
)

// setupLogging returns a logger at the level picked by the global flags.
// Without flags only warnings and errors are shown.
func setupLogging(ctx *cli.Context) logging.Logger {
	switch {
	case ctx.Bool(flagDebug):
		return logging.NewDebugLogger("raytracer")
	case ctx.Bool(flagVerbose):
		return logging.NewLogger("raytracer")
	default:
		return logging.NewLevelLogger("raytracer", zap.WarnLevel)
	}
}
