package merger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/oshokin/aio-packager/internal/config"
	"github.com/oshokin/aio-packager/internal/logger"
)

// Options contains inputs for the merger entry point.
type Options struct {
	// ManifestPath is an optional path to the merge manifest (defaults to
	// aio-merge.yaml).
	ManifestPath string
	// OutputPath overrides the manifest's output path when non-empty.
	OutputPath string
	// FailOnOverlap turns the pre-flight overlap report into an abort
	// instead of a warning.
	FailOnOverlap bool
}

var (
	// errMergerRunning indicates another aio-packager instance is active.
	errMergerRunning = errors.New("another aio-packager instance is running now")
	// errNoValidTargets indicates every manifest target was dropped by the
	// input layer.
	errNoValidTargets = errors.New("no valid targets to merge")
	// errOverlapsRejected indicates overlapping targets with FailOnOverlap set.
	errOverlapsRejected = errors.New("overlapping targets rejected")
)

// Run executes the merge workflow: load the manifest, parse offsets, report
// overlaps, merge and write the container image.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "aio-packager")

	manifest, err := config.Load(opts.ManifestPath)
	if err != nil {
		return err
	}

	outputPath := manifest.Output
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	if isAnotherMergerRunning(ctx) {
		return errMergerRunning
	}

	targets := targetsFromManifest(ctx, manifest)
	if len(targets) == 0 {
		return errNoValidTargets
	}

	overlaps := detectOverlaps(ctx, targets)
	for _, overlap := range overlaps {
		logger.WarnKV(ctx, "Targets overlap, the later one will win",
			"earlier", fmt.Sprintf("%s [%#x..%#x)",
				filepath.Base(overlap.EarlierPath), overlap.EarlierStart, overlap.EarlierEnd),
			"later", fmt.Sprintf("%s [%#x..%#x)",
				filepath.Base(overlap.LaterPath), overlap.LaterStart, overlap.LaterEnd))
	}

	if opts.FailOnOverlap && len(overlaps) > 0 {
		return fmt.Errorf("%w: %d intersecting pairs", errOverlapsRejected, len(overlaps))
	}

	logger.InfoKV(ctx, "Merging targets", "count", len(targets), "output", outputPath)

	headerSize, totalSize, err := mergeToFile(ctx, targets, outputPath)
	if err != nil {
		return fmt.Errorf("merger failed: %w", err)
	}

	logger.InfoKV(ctx, "Merge completed successfully",
		"output", outputPath,
		"header_size", fmt.Sprintf("%#x", headerSize),
		"total_size", fmt.Sprintf("%#x", totalSize))

	return nil
}
