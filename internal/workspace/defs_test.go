//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polarhour/frameline/internal/timeline"
)

const sampleDef = `
title: GOES-16 sample
origin: 2026-08-23T00:00:00Z
pixels_per_second: 1.0
tracks:
  - title: ABI B13
    family: abi-b13
    colormap: viridis
    range: {min: 180, max: 320}
    metadata:
      platform: G16
      band: 13
    frames:
      - start: 2026-08-23T00:00:00Z
        duration: 10m
        state: ready
      - start: 2026-08-23T00:10:00Z
        duration: 10m
        state: available
  - title: ABI B02
    family: abi-b02
    frames:
      - start: 2026-08-23T00:05:00Z
        duration: 10m
document:
  boundaries:
    - 2026-08-23T01:00:00Z
`

func writeDef(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.frameline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Valid(t *testing.T) {
	def, err := Load(writeDef(t, sampleDef))
	require.NoError(t, err)
	require.Len(t, def.Tracks, 2)
	require.Equal(t, "abi-b13", def.Tracks[0].Family)
	require.Len(t, def.Document.Times, 1)
}

func TestLoad_RejectsMissingTitle(t *testing.T) {
	_, err := Load(writeDef(t, `
tracks:
  - frames:
      - start: 2026-08-23T00:00:00Z
        duration: 10m
`))
	require.Error(t, err)
}

func TestLoad_RejectsBadState(t *testing.T) {
	_, err := Load(writeDef(t, `
tracks:
  - title: t
    frames:
      - start: 2026-08-23T00:00:00Z
        duration: 10m
        state: sideways
`))
	require.Error(t, err)
}

func TestLoad_RejectsBadDurationAndRange(t *testing.T) {
	_, err := Load(writeDef(t, `
tracks:
  - title: t
    frames:
      - start: 2026-08-23T00:00:00Z
        duration: soon
`))
	require.Error(t, err)

	_, err = Load(writeDef(t, `
tracks:
  - title: t
    range: {min: 5, max: 5}
    frames:
      - start: 2026-08-23T00:00:00Z
        duration: 1m
`))
	require.Error(t, err)
}

func TestBuild_Scene(t *testing.T) {
	def, err := Load(writeDef(t, sampleDef))
	require.NoError(t, err)
	scene, err := def.Build()
	require.NoError(t, err)

	require.Equal(t, 2, scene.Len())
	tracks := scene.Tracks()
	require.Equal(t, "ABI B13", tracks[0].Title())
	require.Len(t, tracks[0].Frames(), 2)
	require.Equal(t, timeline.StateReady, tracks[0].Frames()[0].State())
	require.Equal(t, "viridis", tracks[0].Colormap())

	vr, ok := tracks[0].ValueRange()
	require.True(t, ok)
	require.InDelta(t, 180.0, vr.Min, 1e-9)

	family, ok := tracks[0].Metadata().Lookup(timeline.FamilyKey)
	require.True(t, ok)
	require.True(t, family.Equal(timeline.StringValue("abi-b13")))

	band, ok := tracks[0].Metadata().Lookup("band")
	require.True(t, ok)
	require.Equal(t, timeline.KindNumber, band.Kind())
	require.InDelta(t, 13.0, band.Num(), 1e-9)

	// Document boundaries reachable through unscoped navigation.
	scene.SetPlayhead(time.Date(2026, 8, 23, 0, 30, 0, 0, time.UTC))
	got, moved := scene.Jump(timeline.Next)
	require.True(t, moved)
	require.Equal(t, time.Date(2026, 8, 23, 1, 0, 0, 0, time.UTC), got.UTC())
}

func TestBuild_OriginDefaultsToEarliestStart(t *testing.T) {
	def, err := Load(writeDef(t, `
tracks:
  - title: t
    frames:
      - start: 2026-08-23T04:00:00Z
        duration: 10m
      - start: 2026-08-23T03:00:00Z
        duration: 10m
`))
	require.NoError(t, err)
	scene, err := def.Build()
	require.NoError(t, err)
	require.Equal(t,
		time.Date(2026, 8, 23, 3, 0, 0, 0, time.UTC),
		scene.Transform().Origin().UTC())
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.frameline.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.frameline.yml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", ".git", "c.frameline.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.yaml"), []byte("x"), 0o600))

	found, err := Discover(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.frameline.yaml"),
		filepath.Join(root, "sub", "b.frameline.yml"),
	}, found)
}
