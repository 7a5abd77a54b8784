package merger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oshokin/aio-packager/internal/config"
	"github.com/oshokin/aio-packager/internal/logger"
)

// Target is one validated merge input: a source path and an optional
// requested offset. A nil offset means auto-append.
type Target struct {
	// Path is the source binary.
	Path string
	// Offset is the parsed placement request, nil for auto-append.
	Offset *int64
}

// errInvalidOffset is returned for offset text that is neither empty,
// decimal, nor "0x"-prefixed hexadecimal, or that is negative.
var errInvalidOffset = errors.New("invalid offset")

// ParseOffset converts offset text into a placement request. Empty text
// means auto-append and yields nil. Accepted forms are non-negative decimal
// and "0x"-prefixed hexadecimal; anything else is rejected.
func ParseOffset(text string) (*int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var (
		value int64
		err   error
	)

	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		value, err = strconv.ParseInt(text[2:], 16, 64)
	} else {
		value, err = strconv.ParseInt(text, 10, 64)
	}

	if err != nil || value < 0 {
		return nil, fmt.Errorf("%w: %q", errInvalidOffset, text)
	}

	return &value, nil
}

// targetsFromManifest parses manifest targets into engine inputs. A target
// with unparsable offset text is dropped with a warning; it never reaches
// the engine and does not abort the merge.
func targetsFromManifest(ctx context.Context, manifest *config.Manifest) []Target {
	targets := make([]Target, 0, len(manifest.Targets))

	for _, target := range manifest.Targets {
		offset, err := ParseOffset(target.Offset)
		if err != nil {
			logger.WarnKV(ctx, "Dropping target with invalid offset",
				"path", target.Path, "offset", target.Offset)
			continue
		}

		targets = append(targets, Target{
			Path:   target.Path,
			Offset: offset,
		})
	}

	return targets
}
