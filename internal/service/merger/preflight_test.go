package merger

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFill creates a file of the given size filled with one byte value and
// returns its path.
func writeFill(t *testing.T, dir, name string, size int, value byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{value}, size), 0o644))

	return path
}

// TestDetectOverlaps_None verifies that auto-appended targets never overlap.
func TestDetectOverlaps_None(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	targets := []Target{
		{Path: writeFill(t, dir, "a.bin", 256, 0xAA)},
		{Path: writeFill(t, dir, "b.bin", 256, 0xBB)},
	}

	require.Empty(t, detectOverlaps(context.Background(), targets))
}

// TestDetectOverlaps_ExplicitCollision reports an intersecting pair using
// the same resolution rule the engine applies.
func TestDetectOverlaps_ExplicitCollision(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first := writeFill(t, dir, "a.bin", 0x100, 0xAA)
	second := writeFill(t, dir, "b.bin", 0x100, 0xBB)

	// Both explicit offsets clamp below the header region, so both resolve
	// to the header boundary and fully collide.
	zero := int64(0)
	targets := []Target{
		{Path: first, Offset: &zero},
		{Path: second, Offset: &zero},
	}

	overlaps := detectOverlaps(context.Background(), targets)
	require.Len(t, overlaps, 1)
	require.Equal(t, first, overlaps[0].EarlierPath)
	require.Equal(t, second, overlaps[0].LaterPath)
	require.Equal(t, overlaps[0].EarlierStart, overlaps[0].LaterStart)
	require.EqualValues(t, 0xC0, overlaps[0].EarlierStart) // 0x20 + 2*0x50
}

// TestDetectOverlaps_SkipsBeyondLimits leaves targets past the 32-bit
// container limit out of the interval set instead of wrapping the cursor.
func TestDetectOverlaps_SkipsBeyondLimits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	huge := int64(math.MaxInt64)
	targets := []Target{
		{Path: writeFill(t, dir, "a.bin", 64, 0xAA), Offset: &huge},
		{Path: writeFill(t, dir, "b.bin", 64, 0xBB)},
	}

	require.Empty(t, detectOverlaps(context.Background(), targets))
}

// TestDetectOverlaps_SkipsUnreadable leaves unreadable targets out of the
// check without failing it.
func TestDetectOverlaps_SkipsUnreadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	targets := []Target{
		{Path: filepath.Join(dir, "missing.bin")},
		{Path: writeFill(t, dir, "b.bin", 64, 0xBB)},
	}

	require.Empty(t, detectOverlaps(context.Background(), targets))
}
