package merger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/aio-packager/internal/config"
)

// TestParseOffset covers empty, decimal, hex and rejected forms.
func TestParseOffset(t *testing.T) {
	t.Parallel()

	// Empty means auto-append.
	offset, err := ParseOffset("")
	require.NoError(t, err)
	require.Nil(t, offset)

	offset, err = ParseOffset("   ")
	require.NoError(t, err)
	require.Nil(t, offset)

	// Decimal.
	offset, err = ParseOffset("4096")
	require.NoError(t, err)
	require.EqualValues(t, 4096, *offset)

	// Hexadecimal, either prefix case.
	offset, err = ParseOffset("0x1000")
	require.NoError(t, err)
	require.EqualValues(t, 0x1000, *offset)

	offset, err = ParseOffset("0X20")
	require.NoError(t, err)
	require.EqualValues(t, 0x20, *offset)

	// Zero is a valid explicit offset, distinct from auto-append.
	offset, err = ParseOffset("0")
	require.NoError(t, err)
	require.EqualValues(t, 0, *offset)

	// Rejected forms.
	for _, text := range []string{"abc", "0xZZ", "-1", "1000h", "0x", "1.5"} {
		_, err = ParseOffset(text)
		require.ErrorIs(t, err, errInvalidOffset, "input %q", text)
	}
}

// TestTargetsFromManifest drops targets with invalid offsets and keeps order.
func TestTargetsFromManifest(t *testing.T) {
	t.Parallel()

	manifest := &config.Manifest{
		Targets: []config.Target{
			{Path: "a.bin"},
			{Path: "b.bin", Offset: "not-a-number"},
			{Path: "c.bin", Offset: "0x2000"},
		},
	}

	targets := targetsFromManifest(context.Background(), manifest)
	require.Len(t, targets, 2)
	require.Equal(t, "a.bin", targets[0].Path)
	require.Nil(t, targets[0].Offset)
	require.Equal(t, "c.bin", targets[1].Path)
	require.EqualValues(t, 0x2000, *targets[1].Offset)
}
