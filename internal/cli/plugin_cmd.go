package cli

import (
	"context"
	"io"
	"os"

	"github.com/rileyhilliard/llamabar/internal/config"
)

// SwiftBarEnv is set by SwiftBar for every plugin it runs.
const SwiftBarEnv = "SWIFTBAR"

// runPlugin is the default action: stream frames under SwiftBar, or
// print one.
func runPlugin(ctx context.Context, out io.Writer) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	p := a.plugin()

	if !streaming(a.cfg) {
		return p.RunOnce(ctx, out)
	}

	changes, stop := a.watchChanges()
	defer stop()
	return p.RunStreaming(ctx, out, changes)
}

func streaming(cfg *config.Config) bool {
	return os.Getenv(SwiftBarEnv) != "" && cfg.Polling.Streaming
}
