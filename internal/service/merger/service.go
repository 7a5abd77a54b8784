package merger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/aio-packager/internal/domain/image"
	"github.com/oshokin/aio-packager/internal/logger"
)

var (
	// ErrSourceRead marks a source file that is missing or unreadable.
	// It aborts the whole merge before anything is written.
	ErrSourceRead = errors.New("read source")
	// ErrDestinationWrite marks a destination that cannot be written. The
	// full image is computed before the write starts, and a failed write
	// leaves no partial file behind.
	ErrDestinationWrite = errors.New("write destination")
)

// outputFileMode is the permission for produced container images.
const outputFileMode os.FileMode = 0o644

// mergeToFile loads every target payload, merges them into one container
// image and writes it to outputPath. It returns the header size and the
// total image size.
//
// The entry list is atomic: any unreadable source aborts the call before
// resolution output exists, and a failed destination write leaves no file.
func mergeToFile(ctx context.Context, targets []Target, outputPath string) (headerSize, totalSize int64, err error) {
	entries := make([]*image.Entry, 0, len(targets))

	for _, target := range targets {
		data, readErr := os.ReadFile(filepath.Clean(target.Path))
		if readErr != nil {
			return 0, 0, fmt.Errorf("%w %s: %w", ErrSourceRead, target.Path, readErr)
		}

		entries = append(entries, &image.Entry{
			Path:   target.Path,
			Offset: target.Offset,
			Data:   data,
		})
	}

	img, err := image.Merge(entries)
	if err != nil {
		return 0, 0, fmt.Errorf("merge entries: %w", err)
	}

	for _, entry := range entries {
		logger.DebugKV(ctx, "Placed entry",
			"path", entry.Path,
			"offset", fmt.Sprintf("%#x", entry.ResolvedOffset),
			"size", fmt.Sprintf("%#x", entry.Size),
			"crc32", fmt.Sprintf("%#08x", entry.CRC))
	}

	if err = writeImage(img, outputPath); err != nil {
		return 0, 0, err
	}

	return img.HeaderSize, img.TotalSize, nil
}

// writeImage stages the image to a temporary file next to the destination
// and renames it into place, so an interrupted or failed write never leaves
// a partial destination file.
func writeImage(img *image.Image, outputPath string) error {
	dir := filepath.Dir(outputPath)

	tmp, err := os.CreateTemp(dir, filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrDestinationWrite, outputPath, err)
	}

	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err = tmp.Write(img.Data); err != nil {
		cleanup()
		return fmt.Errorf("%w %s: %w", ErrDestinationWrite, outputPath, err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w %s: %w", ErrDestinationWrite, outputPath, err)
	}

	if err = os.Chmod(tmpName, outputFileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w %s: %w", ErrDestinationWrite, outputPath, err)
	}

	if err = os.Rename(tmpName, outputPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w %s: %w", ErrDestinationWrite, outputPath, err)
	}

	return nil
}
