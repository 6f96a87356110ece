package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func sampleInput() Input {
	return Input{
		ScreenRect:     &Rect{Max: Pos2{X: 800, Y: 600}},
		HasFocus:       true,
		Time:           12.5,
		PixelsPerPoint: 2,
		MaxTextureSide: 4096,
		Modifiers:      &Modifiers{Ctrl: true, Shift: true},
		PredictedDT:    1.0 / 60,
		Events: []Event{
			{Type: EventPointerMoved, PointerMoved: &Pos2{X: 10, Y: 20}},
			{Type: EventPointerButton, PointerButton: &PointerButtonEvent{
				Pos: Pos2{X: 10, Y: 20}, Button: ButtonPrimary, Pressed: true,
			}},
			{Type: EventKey, Key: &KeyEvent{Key: KeyEnter, Pressed: true, Modifiers: Modifiers{Shift: true}}},
			{Type: EventText, Text: "héllo"},
			{Type: EventPaste, Paste: "clip"},
			{Type: EventScroll, Scroll: &Pos2{Y: -24}},
			{Type: EventZoom, Zoom: 1.5},
			{Type: EventPointerGone},
			{Type: EventCompositionUpdate, CompositionUpdate: "に"},
		},
	}
}

func TestInputRoundTrip(t *testing.T) {
	in := sampleInput()
	buf := in.Marshal()

	var got Input
	require.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, in, got)
}

func TestInputRoundTripIdempotent(t *testing.T) {
	in := sampleInput()
	buf := in.Marshal()

	var first Input
	require.NoError(t, first.Unmarshal(buf))

	var second Input
	require.NoError(t, second.Unmarshal(first.Marshal()))
	assert.Equal(t, first, second)
}

func TestInputTruncatedBuffer(t *testing.T) {
	sample := sampleInput()
	buf := sample.Marshal()
	var in Input
	err := in.Unmarshal(buf[:len(buf)-3])
	require.Error(t, err)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestInputGarbageBuffer(t *testing.T) {
	var in Input
	err := in.Unmarshal([]byte{0xff, 0xff, 0xff, 0xff})
	require.Error(t, err)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestMalformedEventDroppedOthersKept(t *testing.T) {
	in := Input{Events: []Event{
		{Type: EventCopy},
		{Type: EventCut},
	}}
	buf := in.Marshal()

	// Splice a third event entry whose nested bytes are not a valid
	// message, between the two good ones.
	var bad []byte
	bad = protowire.AppendTag(bad, 8, protowire.BytesType)
	bad = protowire.AppendBytes(bad, []byte{0xff, 0xff})

	one := Input{Events: []Event{{Type: EventCopy}}}
	evLen := len(one.Marshal())
	spliced := append(append(append([]byte(nil), buf[:evLen]...), bad...), buf[evLen:]...)

	var got Input
	require.NoError(t, got.Unmarshal(spliced))
	assert.Equal(t, 1, got.DroppedEvents)
	require.Len(t, got.Events, 2)
	assert.Equal(t, EventCopy, got.Events[0].Type)
	assert.Equal(t, EventCut, got.Events[1].Type)
}

func TestInvalidUTF8TextRejected(t *testing.T) {
	var bad []byte
	bad = protowire.AppendTag(bad, 3, protowire.BytesType)
	bad = protowire.AppendBytes(bad, []byte{0xc3, 0x28})

	var ev Event
	require.Error(t, ev.Unmarshal(bad))

	// Inside an Input the bad event is dropped, not fatal.
	var frame []byte
	frame = protowire.AppendTag(frame, 8, protowire.BytesType)
	frame = protowire.AppendBytes(frame, bad)
	var in Input
	require.NoError(t, in.Unmarshal(frame))
	assert.Equal(t, 1, in.DroppedEvents)
	assert.Empty(t, in.Events)
}

func TestUnknownFieldsSkipped(t *testing.T) {
	sample := sampleInput()
	buf := sample.Marshal()
	var extra []byte
	extra = protowire.AppendTag(extra, 99, protowire.VarintType)
	extra = protowire.AppendVarint(extra, 7)
	buf = append(buf, extra...)

	var in Input
	require.NoError(t, in.Unmarshal(buf))
	assert.Len(t, in.Events, 9)
}

func TestSentinelFieldsStayAbsent(t *testing.T) {
	in := Input{HasFocus: true}
	var got Input
	require.NoError(t, got.Unmarshal(in.Marshal()))
	assert.Zero(t, got.Time)
	assert.Zero(t, got.PixelsPerPoint)
	assert.Zero(t, got.MaxTextureSide)
	assert.Nil(t, got.ScreenRect)
	assert.Nil(t, got.Modifiers)
}

func TestOutputRoundTrip(t *testing.T) {
	out := Output{
		Version:      FormatVersion,
		RepaintAfter: 0,
		Frees:        []uint64{6, 8},
		Sets: []TextureSet{{
			ID: 2, Width: 2, Height: 1, Filter: FilterLinear,
			Pixels: []byte{1, 2, 3, 4, 5, 6, 7, 8},
		}},
		Meshes: []MeshPrim{{
			TextureID:   2,
			VertexCount: 1,
			Vertices:    make([]byte, 32),
			IndexCount:  3,
			Indices:     make([]byte, 12),
			Clip:        Rect{Max: Pos2{X: 800, Y: 600}},
		}},
		Platform: []PlatformEvent{{
			Kind: OutputEventValueChanged, Widget: WidgetTextEdit,
			HasText: true, Text: "abc",
		}},
		WantsKeyboard: true,
		CurrentText:   "abc",
	}
	buf := out.Marshal()

	var got Output
	require.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, out, got)
}

func TestOutputIdleFrame(t *testing.T) {
	out := Output{Version: FormatVersion, RepaintAfter: 0.5}
	var got Output
	require.NoError(t, got.Unmarshal(out.Marshal()))
	assert.Equal(t, 0.5, got.RepaintAfter)
	assert.Empty(t, got.Frees)
	assert.Empty(t, got.Sets)
	assert.Empty(t, got.Meshes)
}
