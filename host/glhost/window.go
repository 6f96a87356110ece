package glhost

import (
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hollyoak/guibridge/wire"
)

// Config for the demo window.
type Config struct {
	Title  string
	Width  int // logical points
	Height int
	VSync  bool
}

// Window owns the GLFW window and turns native events into wire.Input
// frames: callbacks accumulate events, NextFrame drains them into one
// serialized buffer per render loop iteration.
type Window struct {
	w       *glfw.Window
	pending []wire.Event
	mods    wire.Modifiers
	cursor  wire.Pos2
	resized bool
	started bool
}

// NewWindow must be called on the main thread before any GL call.
func NewWindow(cfg Config) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if err := gl.Init(); err != nil {
		return nil, err
	}

	gw := &Window{w: win}

	win.SetFramebufferSizeCallback(func(*glfw.Window, int, int) { gw.resized = true })
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		gw.cursor = wire.Pos2{X: float32(x), Y: float32(y)}
		gw.push(wire.Event{Type: wire.EventPointerMoved, PointerMoved: &wire.Pos2{X: float32(x), Y: float32(y)}})
	})
	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			gw.push(wire.Event{Type: wire.EventPointerGone})
		}
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		bt := translateButton(b)
		if bt == wire.ButtonNone {
			return
		}
		gw.mods = translateMods(mods)
		pos := gw.cursor
		gw.push(wire.Event{Type: wire.EventPointerButton, PointerButton: &wire.PointerButtonEvent{
			Pos: pos, Button: bt, Pressed: action == glfw.Press, Modifiers: gw.mods,
		}})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		gw.push(wire.Event{Type: wire.EventScroll, Scroll: &wire.Pos2{X: float32(xoff) * 24, Y: float32(yoff) * 24}})
	})
	win.SetCharCallback(func(_ *glfw.Window, r rune) {
		gw.push(wire.Event{Type: wire.EventText, Text: string(r)})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		gw.mods = translateMods(mods)
		kt := translateKey(key)
		if kt == wire.KeyNone {
			return
		}
		gw.push(wire.Event{Type: wire.EventKey, Key: &wire.KeyEvent{
			Key: kt, Pressed: action != glfw.Release, Modifiers: gw.mods,
		}})
	})

	return gw, nil
}

func (g *Window) push(ev wire.Event) { g.pending = append(g.pending, ev) }

func (g *Window) ShouldClose() bool { return g.w.ShouldClose() }
func (g *Window) Swap()             { g.w.SwapBuffers() }
func (g *Window) Terminate()        { glfw.Terminate() }

func (g *Window) FramebufferSize() (int, int) { return g.w.GetFramebufferSize() }

// PixelsPerPoint reports the window content scale.
func (g *Window) PixelsPerPoint() float32 {
	sx, _ := g.w.GetContentScale()
	if sx <= 0 {
		return 1
	}
	return sx
}

// SizePoints reports the framebuffer size in logical points.
func (g *Window) SizePoints() (float32, float32) {
	fbW, fbH := g.w.GetFramebufferSize()
	ppp := g.PixelsPerPoint()
	return float32(fbW) / ppp, float32(fbH) / ppp
}

// NextFrame polls native events and returns them as one serialized
// wire.Input buffer. Geometry and scale are only re-sent when they changed,
// exercising the protocol's "absent means unchanged" convention.
func (g *Window) NextFrame() []byte {
	glfw.PollEvents()

	in := wire.Input{
		HasFocus:  g.w.GetAttrib(glfw.Focused) == glfw.True,
		Time:      glfw.GetTime(),
		Modifiers: &g.mods,
		Events:    g.pending,
	}
	if !g.started || g.resized {
		w, h := g.SizePoints()
		in.ScreenRect = &wire.Rect{Max: wire.Pos2{X: w, Y: h}}
		in.PixelsPerPoint = g.PixelsPerPoint()
		g.started = true
		g.resized = false
	}
	buf := in.Marshal()
	g.pending = nil
	return buf
}

func translateButton(b glfw.MouseButton) wire.ButtonType {
	switch b {
	case glfw.MouseButtonLeft:
		return wire.ButtonPrimary
	case glfw.MouseButtonRight:
		return wire.ButtonSecondary
	case glfw.MouseButtonMiddle:
		return wire.ButtonMiddle
	case glfw.MouseButton4:
		return wire.ButtonExtra1
	case glfw.MouseButton5:
		return wire.ButtonExtra2
	default:
		return wire.ButtonNone
	}
}

func translateMods(m glfw.ModifierKey) wire.Modifiers {
	return wire.Modifiers{
		Alt:     m&glfw.ModAlt != 0,
		Ctrl:    m&glfw.ModControl != 0,
		Shift:   m&glfw.ModShift != 0,
		Command: m&glfw.ModControl != 0,
	}
}

func translateKey(k glfw.Key) wire.KeyType {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return wire.KeyA + wire.KeyType(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return wire.KeyNum0 + wire.KeyType(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF20:
		return wire.KeyF1 + wire.KeyType(k-glfw.KeyF1)
	}
	switch k {
	case glfw.KeyDown:
		return wire.KeyArrowDown
	case glfw.KeyLeft:
		return wire.KeyArrowLeft
	case glfw.KeyRight:
		return wire.KeyArrowRight
	case glfw.KeyUp:
		return wire.KeyArrowUp
	case glfw.KeyEscape:
		return wire.KeyEscape
	case glfw.KeyTab:
		return wire.KeyTab
	case glfw.KeyBackspace:
		return wire.KeyBackspace
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return wire.KeyEnter
	case glfw.KeySpace:
		return wire.KeySpace
	case glfw.KeyInsert:
		return wire.KeyInsert
	case glfw.KeyDelete:
		return wire.KeyDelete
	case glfw.KeyHome:
		return wire.KeyHome
	case glfw.KeyEnd:
		return wire.KeyEnd
	case glfw.KeyPageUp:
		return wire.KeyPageUp
	case glfw.KeyPageDown:
		return wire.KeyPageDown
	default:
		return wire.KeyNone
	}
}
