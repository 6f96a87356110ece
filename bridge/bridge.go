// Package bridge drives an immediate-mode GUI engine from a host over the
// wire protocol. A host initializes one Instance per GUI, then calls Update
// once per frame with a serialized wire.Input buffer; the frame's output
// comes back either as a replay of host callbacks or as a serialized
// wire.Output buffer. All failures are contained here and reported as
// Status codes; no fault ever propagates out of an entry point.
package bridge

import (
	"log/slog"

	"github.com/hollyoak/guibridge/gui"
)

// Status is the result of one boundary call.
type Status int32

const (
	StatusOK                   Status = 0
	StatusDecodeError          Status = 1 // malformed input buffer, engine untouched
	StatusUnsupportedPrimitive Status = 2 // frame produced a primitive the wire cannot carry
	StatusInternalFault        Status = 3 // unexpected fault, instance remains usable
	StatusGone                 Status = 4 // unknown or destroyed handle
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDecodeError:
		return "decode error"
	case StatusUnsupportedPrimitive:
		return "unsupported primitive"
	case StatusInternalFault:
		return "internal fault"
	case StatusGone:
		return "gone"
	default:
		return "unknown status"
	}
}

// Host is the callback table a host supplies for callback-mode delivery.
// The table is immutable for the life of an instance. Per frame the call
// order is fixed: ShowKeyboard (if supported), BeginPaint, all RemTexture,
// all SetTexture, all PaintMesh, EndPaint.
type Host interface {
	// SetTexture adds or updates one texture region. Pixels is tightly
	// packed RGBA. Filter is 1 = nearest, 2 = linear.
	SetTexture(id uint64, offsetX, offsetY, width, height uint32, filter uint32, pixels []byte)
	// RemTexture removes a texture. Always delivered before any
	// SetTexture call of the same frame.
	RemTexture(id uint64)
	BeginPaint()
	// PaintMesh draws one clipped mesh. Vertices is vertexCount packed
	// 8-float entries (x y u v r g b a), Indices is indexCount uint32s,
	// both little-endian.
	PaintMesh(textureID uint64, vertexCount uint32, vertices []byte, indexCount uint32, indices []byte, clipMinX, clipMinY, clipMaxX, clipMaxY float32)
	EndPaint()
}

// KeyboardHost is implemented by hosts that can show a soft keyboard / IME.
type KeyboardHost interface {
	ShowKeyboard(show bool, currentText string)
}

// LogHost is implemented by hosts that want the bridge's log stream.
type LogHost interface {
	ShowLog(severity int32, message string)
}

// App is the application run once per frame against the engine context.
// It must not be re-entered concurrently; the driver guarantees one frame
// in flight per instance.
type App interface {
	Update(ctx *gui.Context)
}

// AppFunc adapts a plain function to App.
type AppFunc func(ctx *gui.Context)

func (f AppFunc) Update(ctx *gui.Context) { f(ctx) }

// Engine is what the frame driver needs from a GUI engine. *gui.Context
// implements it; tests substitute scripted engines.
type Engine interface {
	BeginFrame(gui.RawInput) error
	EndFrame() gui.FullOutput
	WantsKeyboard() bool
}

// Options configures Init.
type Options struct {
	// Host enables callback-mode delivery. When nil the instance runs in
	// batch mode and Update returns a serialized wire.Output buffer.
	Host Host
	// Logger overrides the instance logger. When nil and Host implements
	// LogHost, log records are forwarded to the host; otherwise
	// slog.Default is used.
	Logger *slog.Logger
}

// Instance is one live engine + application pair. It is driven by exactly
// one thread of control: the host calls Update synchronously and waits for
// it to return before the next call. Instances are independent; separate
// instances may run on separate threads without shared locks.
type Instance struct {
	engine Engine
	run    func()
	host   Host
	log    *slog.Logger

	// Last text value seen in a text-edit platform event, reported along
	// with keyboard visibility.
	text string

	destroyed bool
}

// New creates an instance around a fresh GUI engine and the application
// produced by newApp. Most hosts want Init, which also registers a handle.
func New(newApp func(ctx *gui.Context) App, opts Options) *Instance {
	ctx := gui.New()
	inst := &Instance{engine: ctx, host: opts.Host}
	inst.log = instanceLogger(opts)
	app := newApp(ctx)
	inst.run = func() { app.Update(ctx) }
	return inst
}

// newScripted wires an arbitrary Engine; used by tests.
func newScripted(engine Engine, run func(), opts Options) *Instance {
	inst := &Instance{engine: engine, host: opts.Host, run: run}
	inst.log = instanceLogger(opts)
	if inst.run == nil {
		inst.run = func() {}
	}
	return inst
}

func instanceLogger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	if lh, ok := opts.Host.(LogHost); ok {
		return slog.New(NewHostLogHandler(lh, slog.LevelInfo))
	}
	return slog.Default()
}

// Update runs one frame cycle against a serialized wire.Input buffer.
//
//  1. decode input; a malformed buffer aborts the cycle with
//     StatusDecodeError and the engine is not touched
//  2. begin frame
//  3. run the application pass
//  4. end frame
//  5. if the engine asked to repaint later, skip all delivery and return
//     success with an empty payload
//  6. otherwise deliver: keyboard visibility, then inside a begin/end
//     paint bracket all texture frees, then all texture upserts, then all
//     meshes, each in produced order
//
// Any panic in steps 2-6 is caught and converted to StatusInternalFault;
// the instance stays usable for the next call.
func (inst *Instance) Update(buf []byte) (out []byte, st Status) {
	if inst.destroyed {
		return nil, StatusGone
	}
	defer func() {
		if r := recover(); r != nil {
			inst.log.Error("frame cycle fault contained", "panic", r)
			out, st = nil, StatusInternalFault
		}
	}()

	raw, err := decodeInput(buf, inst.log)
	if err != nil {
		inst.log.Error("input frame rejected", "err", err)
		return nil, StatusDecodeError
	}

	if err := inst.engine.BeginFrame(raw); err != nil {
		inst.log.Error("begin frame failed", "err", err)
		return nil, StatusInternalFault
	}
	inst.run()
	fo := inst.engine.EndFrame()

	if fo.RepaintAfter > 0 {
		if inst.host == nil {
			return encodeIdle(fo.RepaintAfter), StatusOK
		}
		return nil, StatusOK
	}

	inst.applyPlatform(fo.Platform)

	if inst.host == nil {
		return encodeOutput(&fo, inst.engine.WantsKeyboard(), inst.text)
	}
	return nil, inst.dispatch(&fo)
}

// applyPlatform records the most recent text-edit value so keyboard
// visibility reports carry the field content being edited.
func (inst *Instance) applyPlatform(p gui.PlatformOutput) {
	for _, ev := range p.Events {
		if ev.Widget == gui.WidgetTextEdit && ev.HasText {
			inst.text = ev.Text
		}
	}
}

// Destroy releases the instance. Further Update calls return StatusGone.
func (inst *Instance) Destroy() {
	inst.destroyed = true
	inst.engine = nil
	inst.run = nil
	inst.host = nil
}
