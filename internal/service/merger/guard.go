package merger

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/aio-packager/internal/logger"
)

// baseMergerExecutable is the executable name other running instances are
// matched against.
const baseMergerExecutable = "aio-packager"

// isAnotherMergerRunning reports whether another aio-packager process is
// running. Destination exclusivity is this tool's duty as the engine's
// caller, so a second instance refuses to start rather than risk two
// writers racing on the same output file.
func isAnotherMergerRunning(ctx context.Context) bool {
	processList, err := ps.Processes()
	if err != nil {
		logger.WarnKV(ctx, "Unable to list processes, skipping single-instance check", "error", err)
		return false
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == mergerExecutable() {
			logger.WarnKV(ctx, "Found another running instance", "pid", process.Pid())
			return true
		}
	}

	return false
}

// mergerExecutable returns the platform-specific executable name.
func mergerExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return baseMergerExecutable + ".exe"
	}

	return baseMergerExecutable
}
