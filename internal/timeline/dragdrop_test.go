//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package timeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingApplier struct {
	colormap string
	tracks   []*Track
	calls    int
}

func (r *recordingApplier) ApplyColormap(tracks []*Track, colormap string) {
	r.calls++
	r.tracks = tracks
	r.colormap = colormap
}

// unknownPayload simulates a drag payload kind this core does not know.
type unknownPayload struct{}

func (unknownPayload) Kind() PayloadKind { return PayloadKind(99) }

func TestAccepts_IsStatelessOnKind(t *testing.T) {
	s := newTestScene(t)
	for i := 0; i < 3; i++ {
		require.True(t, s.Accepts(PayloadTrackReorder))
		require.True(t, s.Accepts(PayloadColormap))
		require.False(t, s.Accepts(PayloadUnknown))
		require.False(t, s.Accepts(PayloadKind(99)))
	}
}

func TestDrop_TrackReorder(t *testing.T) {
	s := newTestScene(t)
	a := addTrack(t, s, "a", nil)
	addTrack(t, s, "b", nil)
	c := addTrack(t, s, "c", nil)

	require.NoError(t, s.Drop(a.ID(), TrackReorderPayload{TrackID: c.ID()}))
	require.Equal(t, []string{"c", "a", "b"}, titlesInOrder(s))
	requireDenseRanks(t, s)
}

func TestDrop_SelfReorderIsNoop(t *testing.T) {
	s := newTestScene(t)
	a := addTrack(t, s, "a", nil)
	addTrack(t, s, "b", nil)

	require.NoError(t, s.Drop(a.ID(), TrackReorderPayload{TrackID: a.ID()}))
	require.Equal(t, []string{"a", "b"}, titlesInOrder(s))
	requireDenseRanks(t, s)
}

func TestDrop_ColormapAppliesToFamily(t *testing.T) {
	s := newTestScene(t)
	a := addTrack(t, s, "a", Metadata{FamilyKey: StringValue("abi-b13")})
	b := addTrack(t, s, "b", Metadata{FamilyKey: StringValue("abi-b13")})
	c := addTrack(t, s, "c", Metadata{FamilyKey: StringValue("abi-b02")})

	applier := &recordingApplier{}
	s.SetColormapApplier(applier)

	require.NoError(t, s.Drop(a.ID(), ColormapPayload{Colormap: "viridis", Origin: OriginPalette}))
	require.Equal(t, "viridis", a.Colormap())
	require.Equal(t, "viridis", b.Colormap())
	require.Empty(t, c.Colormap())
	require.Equal(t, 1, applier.calls)
	require.Equal(t, "viridis", applier.colormap)
	require.Len(t, applier.tracks, 2)
}

func TestDrop_ColormapWithoutFamilyAppliesToTargetOnly(t *testing.T) {
	s := newTestScene(t)
	a := addTrack(t, s, "a", nil)
	b := addTrack(t, s, "b", nil)

	require.NoError(t, s.Drop(a.ID(), ColormapPayload{Colormap: "magma", Origin: OriginTrack, SourceTrack: b.ID()}))
	require.Equal(t, "magma", a.Colormap())
	require.Empty(t, b.Colormap())
}

func TestDrop_UnknownPayloadSilentlyIgnored(t *testing.T) {
	s := newTestScene(t)
	a := addTrack(t, s, "a", nil)

	require.NoError(t, s.Drop(a.ID(), unknownPayload{}))
	require.Equal(t, []string{"a"}, titlesInOrder(s))
}

func TestDrop_UnknownTarget(t *testing.T) {
	s := newTestScene(t)
	a := addTrack(t, s, "a", nil)

	err := s.Drop(uuid.New(), TrackReorderPayload{TrackID: a.ID()})
	require.ErrorIs(t, err, ErrNotFound)
}
