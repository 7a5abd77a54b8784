package merger

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"github.com/oshokin/aio-packager/internal/domain/image"
	"github.com/oshokin/aio-packager/internal/logger"
)

// Overlap describes two targets whose resolved ranges intersect. The later
// target's bytes will win over the intersection when the merge runs.
type Overlap struct {
	// EarlierPath and its resolved range.
	EarlierPath  string
	EarlierStart int64
	EarlierEnd   int64
	// LaterPath and its resolved range.
	LaterPath  string
	LaterStart int64
	LaterEnd   int64
}

// detectOverlaps re-derives the engine's offset-resolution rule from file
// sizes alone and reports every intersecting pair, before any payload is
// read. A target whose size cannot be determined is skipped from the check;
// the real read error, if any, surfaces during the merge itself.
func detectOverlaps(ctx context.Context, targets []Target) []Overlap {
	headerSize := image.HeaderSize(len(targets))
	cursor := headerSize

	type interval struct {
		path  string
		start int64
		end   int64
	}

	var (
		placed   []interval
		overlaps []Overlap
	)

	for _, target := range targets {
		info, err := os.Stat(filepath.Clean(target.Path))
		if err != nil {
			logger.WarnKV(ctx, "Skipping pre-flight check for unreadable target",
				"path", target.Path, "error", err)
			continue
		}

		size := info.Size()

		// Same three placement rules as the engine's resolver.
		var offset int64

		switch {
		case target.Offset == nil:
			offset = max(cursor, headerSize)
		case *target.Offset < headerSize:
			offset = headerSize
		default:
			offset = *target.Offset
		}

		// Ranges past the 32-bit container limit cannot be placed; the merge
		// itself will reject them, so leave them out of the interval set
		// rather than wrap the cursor.
		if offset > math.MaxUint32 || size > math.MaxUint32-offset {
			logger.WarnKV(ctx, "Skipping pre-flight check for target beyond container limits",
				"path", target.Path, "offset", offset, "size", size)
			continue
		}

		end := offset + size

		for _, prev := range placed {
			if offset < prev.end && end > prev.start {
				overlaps = append(overlaps, Overlap{
					EarlierPath:  prev.path,
					EarlierStart: prev.start,
					EarlierEnd:   prev.end,
					LaterPath:    target.Path,
					LaterStart:   offset,
					LaterEnd:     end,
				})
			}
		}

		placed = append(placed, interval{path: target.Path, start: offset, end: end})
		cursor = end
	}

	return overlaps
}
