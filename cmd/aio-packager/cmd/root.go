package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/aio-packager/internal/config"
	"github.com/oshokin/aio-packager/internal/logger"
	"github.com/oshokin/aio-packager/internal/service/merger"
	"github.com/oshokin/aio-packager/internal/version"
)

var (
	// outputPath overrides the manifest's output path when set.
	outputPath string

	// failOnOverlap aborts instead of warning when target ranges intersect.
	failOnOverlap bool

	// logLevel is the minimum severity to log.
	logLevel string

	// rootCmd represents the base command for merging firmware binaries.
	rootCmd = &cobra.Command{
		Use:   "aio-packager [manifest]",
		Short: "Merge firmware binaries into a single AIO container image",
		Long: "Merge independently built firmware binaries into one container image " +
			"carrying a fixed-layout header block with each entry's placement, size and CRC-32. " +
			"Targets and their optional offsets come from a YAML manifest.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			manifestPath := config.DefaultManifestFilename
			if len(args) > 0 {
				manifestPath = args[0]
			}

			options := &merger.Options{
				ManifestPath:  manifestPath,
				OutputPath:    outputPath,
				FailOnOverlap: failOnOverlap,
			}

			return merger.Run(ctx, options)
		},
	}
)

// Execute runs the aio-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "destination path, overrides the manifest output")
	rootCmd.Flags().BoolVar(&failOnOverlap, "fail-on-overlap", false, "abort when target ranges intersect instead of warning")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
}
