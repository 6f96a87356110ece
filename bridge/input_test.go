package bridge

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollyoak/guibridge/gui"
	"github.com/hollyoak/guibridge/wire"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeUnknownEventTagSkipped(t *testing.T) {
	in := wire.Input{Events: []wire.Event{
		{Type: wire.EventCopy},
		{Type: wire.EventType(999)}, // future enumerant
		{Type: wire.EventCut},
	}}

	raw, err := decodeInput(in.Marshal(), discardLog())
	require.NoError(t, err)
	require.Len(t, raw.Events, 2, "unknown tag drops only its own event")
	assert.IsType(t, gui.EventCopy{}, raw.Events[0])
	assert.IsType(t, gui.EventCut{}, raw.Events[1])
}

func TestDecodeMissingPayloadSkipped(t *testing.T) {
	in := wire.Input{Events: []wire.Event{
		{Type: wire.EventPointerMoved}, // payload absent
		{Type: wire.EventKey},          // payload absent
		{Type: wire.EventKey, Key: &wire.KeyEvent{Key: wire.KeyNone}}, // none key
		{Type: wire.EventZoom, Zoom: 2},
	}}

	raw, err := decodeInput(in.Marshal(), discardLog())
	require.NoError(t, err)
	require.Len(t, raw.Events, 1)
	assert.Equal(t, gui.EventZoom{Factor: 2}, raw.Events[0])
}

func TestDecodeSentinelsBecomeAbsent(t *testing.T) {
	in := wire.Input{
		Time:           -1,
		PixelsPerPoint: -1,
		MaxTextureSide: 0,
		PredictedDT:    1.0 / 120,
	}

	raw, err := decodeInput(in.Marshal(), discardLog())
	require.NoError(t, err)
	assert.Nil(t, raw.Time)
	assert.Nil(t, raw.PixelsPerPoint)
	assert.Nil(t, raw.MaxTextureSide)
	assert.Nil(t, raw.ScreenRect)
	assert.Nil(t, raw.Modifiers)
	assert.Equal(t, float32(1.0/120), raw.PredictedDT)
}

func TestDecodeFullFrame(t *testing.T) {
	in := wire.Input{
		ScreenRect:     &wire.Rect{Max: wire.Pos2{X: 640, Y: 480}},
		HasFocus:       true,
		Time:           2.5,
		PixelsPerPoint: 1.5,
		MaxTextureSide: 8192,
		Modifiers:      &wire.Modifiers{Ctrl: true},
		Events: []wire.Event{
			{Type: wire.EventKey, Key: &wire.KeyEvent{
				Key: wire.KeyQ, Pressed: true,
				Modifiers: wire.Modifiers{Ctrl: true},
			}},
			{Type: wire.EventPointerButton, PointerButton: &wire.PointerButtonEvent{
				Pos: wire.Pos2{X: 5, Y: 6}, Button: wire.ButtonSecondary, Pressed: true,
			}},
			{Type: wire.EventText, Text: "q"},
		},
	}

	raw, err := decodeInput(in.Marshal(), discardLog())
	require.NoError(t, err)

	require.NotNil(t, raw.ScreenRect)
	assert.Equal(t, gui.Pos2{X: 640, Y: 480}, raw.ScreenRect.Max)
	assert.True(t, raw.HasFocus)
	require.NotNil(t, raw.Time)
	assert.Equal(t, 2.5, *raw.Time)
	require.NotNil(t, raw.PixelsPerPoint)
	assert.Equal(t, float32(1.5), *raw.PixelsPerPoint)
	require.NotNil(t, raw.MaxTextureSide)
	assert.Equal(t, 8192, *raw.MaxTextureSide)
	require.NotNil(t, raw.Modifiers)
	assert.True(t, raw.Modifiers.Ctrl)

	require.Len(t, raw.Events, 3)
	key, ok := raw.Events[0].(gui.EventKey)
	require.True(t, ok)
	assert.Equal(t, gui.KeyQ, key.Key)
	assert.True(t, key.Pressed)
	assert.True(t, key.Mods.Ctrl)

	btn, ok := raw.Events[1].(gui.EventPointerButton)
	require.True(t, ok)
	assert.Equal(t, gui.PointerSecondary, btn.Button)
	assert.Equal(t, gui.Pos2{X: 5, Y: 6}, btn.Pos)

	assert.Equal(t, gui.EventText{Text: "q"}, raw.Events[2])
}

func TestDecodeTopLevelFailureSurfaces(t *testing.T) {
	_, err := decodeInput([]byte{0x0a}, discardLog()) // truncated nested field
	require.Error(t, err)
	var de *wire.DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestKeyTableAligned(t *testing.T) {
	k, ok := keyToNative(wire.KeyArrowDown)
	require.True(t, ok)
	assert.Equal(t, gui.KeyArrowDown, k)

	k, ok = keyToNative(wire.KeyF20)
	require.True(t, ok)
	assert.Equal(t, gui.KeyF20, k)

	_, ok = keyToNative(wire.KeyNone)
	assert.False(t, ok)
	_, ok = keyToNative(wire.KeyF20 + 1)
	assert.False(t, ok)
}
