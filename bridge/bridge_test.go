package bridge

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollyoak/guibridge/gui"
	"github.com/hollyoak/guibridge/wire"
)

func quietOpts(host Host) Options {
	return Options{
		Host:   host,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// fakeHost records every callback in order.
type fakeHost struct {
	calls []string
}

func (h *fakeHost) SetTexture(id uint64, _, _, w, ht uint32, _ uint32, _ []byte) {
	h.calls = append(h.calls, fmt.Sprintf("set:%d:%dx%d", id, w, ht))
}
func (h *fakeHost) RemTexture(id uint64) { h.calls = append(h.calls, fmt.Sprintf("rem:%d", id)) }
func (h *fakeHost) BeginPaint()          { h.calls = append(h.calls, "begin") }
func (h *fakeHost) PaintMesh(texID uint64, _ uint32, _ []byte, _ uint32, _ []byte, _, _, _, _ float32) {
	h.calls = append(h.calls, fmt.Sprintf("mesh:%d", texID))
}
func (h *fakeHost) EndPaint() { h.calls = append(h.calls, "end") }
func (h *fakeHost) ShowKeyboard(show bool, text string) {
	h.calls = append(h.calls, fmt.Sprintf("kb:%v:%s", show, text))
}

// scriptEngine returns a canned FullOutput and records what it was fed.
type scriptEngine struct {
	out    gui.FullOutput
	wants  bool
	inputs []gui.RawInput
}

func (e *scriptEngine) BeginFrame(in gui.RawInput) error {
	e.inputs = append(e.inputs, in)
	return nil
}
func (e *scriptEngine) EndFrame() gui.FullOutput { return e.out }
func (e *scriptEngine) WantsKeyboard() bool      { return e.wants }

func emptyFrame(t *testing.T) []byte {
	t.Helper()
	var in wire.Input
	return in.Marshal()
}

func paintedOutput() gui.FullOutput {
	mesh := &gui.Mesh{
		Texture:  gui.ManagedID(0),
		Vertices: []gui.Vertex{{}, {}, {}},
		Indices:  []uint32{0, 1, 2},
	}
	return gui.FullOutput{
		Textures: gui.TexturesDelta{
			Free: []gui.TextureID{gui.ManagedID(3), gui.UserID(4)},
			Set: []gui.TextureUpsert{{
				ID: gui.ManagedID(0),
				Delta: gui.ImageDelta{
					Filter: gui.FilterLinear,
					Image:  gui.ImageData{Size: [2]int{2, 2}, Coverage: []float32{0, 1, 0.5, 1}},
				},
			}},
		},
		Primitives: []gui.ClippedPrimitive{
			{Clip: gui.Rect{Max: gui.Pos2{X: 800, Y: 600}}, Prim: mesh},
			{Clip: gui.Rect{Max: gui.Pos2{X: 800, Y: 600}}, Prim: mesh},
		},
	}
}

func TestDeliveryOrdering(t *testing.T) {
	host := &fakeHost{}
	eng := &scriptEngine{out: paintedOutput(), wants: true}
	inst := newScripted(eng, nil, quietOpts(host))

	out, st := inst.Update(emptyFrame(t))
	require.Equal(t, StatusOK, st)
	assert.Nil(t, out)

	assert.Equal(t, []string{
		"kb:true:",
		"begin",
		"rem:6",  // managed 3 -> 3<<1
		"rem:9",  // user 4 -> 4<<1|1
		"set:0:2x2",
		"mesh:0",
		"mesh:0",
		"end",
	}, host.calls)
}

func TestRepaintAfterSkipsDelivery(t *testing.T) {
	host := &fakeHost{}
	eng := &scriptEngine{out: gui.FullOutput{RepaintAfter: time.Second}}
	inst := newScripted(eng, nil, quietOpts(host))

	_, st := inst.Update(emptyFrame(t))
	require.Equal(t, StatusOK, st)
	assert.Empty(t, host.calls, "idle frame must issue zero delivery calls")
}

func TestRepaintAfterBatchModeEmptyPayload(t *testing.T) {
	eng := &scriptEngine{out: gui.FullOutput{RepaintAfter: 250 * time.Millisecond}}
	inst := newScripted(eng, nil, quietOpts(nil))

	buf, st := inst.Update(emptyFrame(t))
	require.Equal(t, StatusOK, st)

	var out wire.Output
	require.NoError(t, out.Unmarshal(buf))
	assert.Equal(t, uint32(wire.FormatVersion), out.Version)
	assert.Equal(t, 0.25, out.RepaintAfter)
	assert.Empty(t, out.Sets)
	assert.Empty(t, out.Meshes)
	assert.Empty(t, out.Frees)
}

func TestBatchModeOrderingMatchesCallbacks(t *testing.T) {
	eng := &scriptEngine{out: paintedOutput(), wants: true}
	inst := newScripted(eng, nil, quietOpts(nil))

	buf, st := inst.Update(emptyFrame(t))
	require.Equal(t, StatusOK, st)

	var out wire.Output
	require.NoError(t, out.Unmarshal(buf))
	assert.Equal(t, []uint64{6, 9}, out.Frees)
	require.Len(t, out.Sets, 1)
	assert.Equal(t, uint64(0), out.Sets[0].ID)
	require.Len(t, out.Meshes, 2)
	assert.True(t, out.WantsKeyboard)
}

func TestCoverageExpansionUsesEngineGamma(t *testing.T) {
	eng := &scriptEngine{out: paintedOutput()}
	inst := newScripted(eng, nil, quietOpts(nil))

	buf, _ := inst.Update(emptyFrame(t))
	var out wire.Output
	require.NoError(t, out.Unmarshal(buf))

	want := gui.CoverageToRGBA([]float32{0, 1, 0.5, 1})
	assert.Equal(t, want, out.Sets[0].Pixels)
}

func TestUnsupportedPrimitiveIsHardError(t *testing.T) {
	host := &fakeHost{}
	out := paintedOutput()
	out.Primitives = append(out.Primitives, gui.ClippedPrimitive{
		Prim: gui.CallbackPrim{Name: "custom"},
	})
	eng := &scriptEngine{out: out}
	inst := newScripted(eng, nil, quietOpts(host))

	_, st := inst.Update(emptyFrame(t))
	assert.Equal(t, StatusUnsupportedPrimitive, st)
	assert.Empty(t, host.calls, "no partial delivery on a failed frame")
}

func TestDecodeErrorLeavesEngineUntouched(t *testing.T) {
	eng := &scriptEngine{}
	inst := newScripted(eng, nil, quietOpts(nil))

	_, st := inst.Update([]byte{0xff, 0xff, 0xff})
	assert.Equal(t, StatusDecodeError, st)
	assert.Empty(t, eng.inputs, "engine must not see a frame for a bad buffer")

	// The instance stays usable.
	_, st = inst.Update(emptyFrame(t))
	assert.Equal(t, StatusOK, st)
	assert.Len(t, eng.inputs, 1)
}

func TestPanicInAppContained(t *testing.T) {
	eng := &scriptEngine{out: gui.FullOutput{RepaintAfter: time.Second}}
	boom := true
	inst := newScripted(eng, func() {
		if boom {
			panic("app exploded")
		}
	}, quietOpts(nil))

	_, st := inst.Update(emptyFrame(t))
	assert.Equal(t, StatusInternalFault, st)

	boom = false
	_, st = inst.Update(emptyFrame(t))
	assert.Equal(t, StatusOK, st, "instance must survive a contained fault")
}

func TestTextureIDRoundTrip(t *testing.T) {
	for _, id := range []gui.TextureID{
		gui.ManagedID(0), gui.ManagedID(7), gui.ManagedID(1 << 40),
		gui.UserID(0), gui.UserID(7), gui.UserID(1 << 40),
	} {
		assert.Equal(t, id, DecodeTextureID(EncodeTextureID(id)))
	}
	// The two id spaces never collide after encoding.
	assert.NotEqual(t, EncodeTextureID(gui.ManagedID(5)), EncodeTextureID(gui.UserID(5)))
	assert.NotEqual(t, EncodeTextureID(gui.ManagedID(3)), EncodeTextureID(gui.UserID(2)))
}

func TestSentinelScaleUnchangedAcrossUpdates(t *testing.T) {
	var seen []float32
	h := Init(func(*gui.Context) App {
		return AppFunc(func(ctx *gui.Context) {
			seen = append(seen, ctx.PixelsPerPoint())
		})
	}, quietOpts(nil))
	defer Destroy(h)

	first := wire.Input{PixelsPerPoint: 2, ScreenRect: &wire.Rect{Max: wire.Pos2{X: 400, Y: 300}}}
	_, st := Update(h, first.Marshal())
	require.Equal(t, StatusOK, st)

	// Sentinel (-1 encodes as unset/absent) must keep the configured scale.
	second := wire.Input{PixelsPerPoint: -1}
	_, st = Update(h, second.Marshal())
	require.Equal(t, StatusOK, st)

	require.Len(t, seen, 2)
	assert.Equal(t, float32(2), seen[0])
	assert.Equal(t, float32(2), seen[1])
}

func TestDestroyedHandleRejected(t *testing.T) {
	h := Init(func(*gui.Context) App {
		return AppFunc(func(*gui.Context) {})
	}, quietOpts(nil))

	_, st := Update(h, emptyFrame(t))
	require.Equal(t, StatusOK, st)

	Destroy(h)
	_, st = Update(h, emptyFrame(t))
	assert.Equal(t, StatusGone, st)

	// Destroying again is a no-op, not a crash.
	Destroy(h)
	_, st = Update(h, emptyFrame(t))
	assert.Equal(t, StatusGone, st)
}

func TestUnknownHandleRejected(t *testing.T) {
	_, st := Update(Handle(0), nil)
	assert.Equal(t, StatusGone, st)
	_, st = Update(Handle(1<<60), nil)
	assert.Equal(t, StatusGone, st)
}

func TestPlatformTextTracked(t *testing.T) {
	out := paintedOutput()
	out.Platform.Events = []gui.OutputEvent{
		{Kind: gui.OutputValueChanged, Widget: gui.WidgetTextEdit, HasText: true, Text: "hello"},
		{Kind: gui.OutputClicked, Widget: gui.WidgetButton},
	}
	host := &fakeHost{}
	eng := &scriptEngine{out: out, wants: true}
	inst := newScripted(eng, nil, quietOpts(host))

	_, st := inst.Update(emptyFrame(t))
	require.Equal(t, StatusOK, st)
	assert.Equal(t, "kb:true:hello", host.calls[0])
}
