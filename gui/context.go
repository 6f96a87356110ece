package gui

import (
	"fmt"
	"time"
)

// IdleRepaint is how long the GUI asks the host to wait before the next
// paint when nothing visual changed this frame.
const IdleRepaint = 500 * time.Millisecond

// FontSize is the base font size in logical points. The atlas is rasterized
// at FontSize * pixels-per-point.
const FontSize = 16

// Context is the long-lived GUI engine state. It is driven through exactly
// one BeginFrame / widget pass / EndFrame cycle at a time; it is not safe
// for concurrent use.
type Context struct {
	// Last-known frame configuration. RawInput fields left unset keep
	// these values, they are never reset to zero.
	screenRect     Rect
	hasFocus       bool
	now            float64
	pixelsPerPoint float32
	maxTextureSide int
	modifiers      Modifiers
	predictedDT    float32

	inFrame    bool
	frameCount uint64
	events     []Event

	// Pointer state.
	pointerPos  Pos2
	pointerGone bool
	down        [pointerButtonCount]bool
	pressed     [pointerButtonCount]bool
	released    [pointerButtonCount]bool
	scroll      Vec2

	// Widget interaction state.
	activeID string
	focusID  string

	// Font atlas and its managed texture id. Rebuilds free the old id and
	// upload under a fresh one, so a single frame never frees and sets the
	// same id.
	atlas      *fontAtlas
	atlasID    uint64
	atlasDirty bool
	atlasFresh bool
	frees      []TextureID

	// Painter. clip bounds every emitted quad; it resets to the screen
	// rect each frame and widgets narrow it while drawing bounded content.
	verts   []Vertex
	inds    []uint32
	cursor  Pos2
	spacing float32
	clip    Rect

	platform         []OutputEvent
	repaintRequested bool
}

// New creates an engine context with sane defaults: 1.0 pixels-per-point,
// 2048 max texture side, an 800x600 screen until the host says otherwise.
func New() *Context {
	return &Context{
		screenRect:     RectMinSize(Pos2{}, Vec2{800, 600}),
		pixelsPerPoint: 1,
		maxTextureSide: 2048,
		atlasDirty:     true,
		spacing:        6,
	}
}

// PixelsPerPoint reports the current scale factor.
func (c *Context) PixelsPerPoint() float32 { return c.pixelsPerPoint }

// ScreenRect reports the current screen rectangle in points.
func (c *Context) ScreenRect() Rect { return c.screenRect }

// Time reports the engine clock in seconds.
func (c *Context) Time() float64 { return c.now }

// RequestRepaint forces RepaintAfter to zero for the current frame.
func (c *Context) RequestRepaint() { c.repaintRequested = true }

// BeginFrame ingests one input snapshot and opens a frame. Optional fields
// of in that are nil leave the corresponding engine state untouched.
func (c *Context) BeginFrame(in RawInput) error {
	if c.inFrame {
		return fmt.Errorf("gui: BeginFrame while a frame is open")
	}
	c.inFrame = true
	c.frameCount++

	if in.ScreenRect != nil {
		c.screenRect = *in.ScreenRect
	}
	c.hasFocus = in.HasFocus
	if in.PredictedDT > 0 {
		c.predictedDT = in.PredictedDT
	}
	if in.Time != nil {
		c.now = *in.Time
	} else {
		c.now += float64(c.predictedDT)
	}
	if in.PixelsPerPoint != nil && *in.PixelsPerPoint > 0 && *in.PixelsPerPoint != c.pixelsPerPoint {
		c.pixelsPerPoint = *in.PixelsPerPoint
		c.atlasDirty = true
	}
	if in.MaxTextureSide != nil && *in.MaxTextureSide > 0 {
		c.maxTextureSide = *in.MaxTextureSide
	}
	if in.Modifiers != nil {
		c.modifiers = *in.Modifiers
	}

	c.events = in.Events
	c.pressed = [pointerButtonCount]bool{}
	c.released = [pointerButtonCount]bool{}
	c.scroll = Vec2{}
	for _, ev := range in.Events {
		switch e := ev.(type) {
		case EventPointerMoved:
			c.pointerPos = e.Pos
			c.pointerGone = false
		case EventPointerButton:
			c.pointerPos = e.Pos
			c.pointerGone = false
			if e.Button >= 0 && e.Button < pointerButtonCount {
				if e.Pressed && !c.down[e.Button] {
					c.pressed[e.Button] = true
				}
				if !e.Pressed && c.down[e.Button] {
					c.released[e.Button] = true
				}
				c.down[e.Button] = e.Pressed
			}
		case EventPointerGone:
			c.pointerGone = true
			c.down = [pointerButtonCount]bool{}
		case EventScroll:
			c.scroll.X += e.Delta.X
			c.scroll.Y += e.Delta.Y
		}
	}

	if c.atlasDirty {
		if err := c.rebuildAtlas(); err != nil {
			c.inFrame = false
			return err
		}
	}

	c.verts = c.verts[:0]
	c.inds = c.inds[:0]
	c.platform = c.platform[:0]
	c.repaintRequested = false
	c.cursor = Pos2{c.screenRect.Min.X + 8, c.screenRect.Min.Y + 8}
	c.clip = c.screenRect
	return nil
}

func (c *Context) rebuildAtlas() error {
	fa, err := buildAtlas(FontSize*c.pixelsPerPoint, c.maxTextureSide)
	if err != nil {
		return fmt.Errorf("rebuild atlas: %w", err)
	}
	if c.atlas != nil {
		c.frees = append(c.frees, ManagedID(c.atlasID))
		c.atlasID++
	}
	c.atlas = fa
	c.atlasDirty = false
	c.atlasFresh = true
	return nil
}

// EndFrame closes the frame and returns its output. When RepaintAfter is
// positive nothing visual changed and Textures/Primitives are left empty.
func (c *Context) EndFrame() FullOutput {
	c.inFrame = false

	out := FullOutput{
		Platform: PlatformOutput{Events: append([]OutputEvent(nil), c.platform...)},
	}

	paintNow := c.repaintRequested || len(c.events) > 0 || c.atlasFresh || c.frameCount <= 1
	if !paintNow {
		out.RepaintAfter = IdleRepaint
		return out
	}

	out.Textures.Free = c.frees
	c.frees = nil
	if c.atlasFresh {
		out.Textures.Set = append(out.Textures.Set, c.atlas.delta(ManagedID(c.atlasID)))
		c.atlasFresh = false
	}
	if len(c.verts) > 0 {
		out.Primitives = append(out.Primitives, ClippedPrimitive{
			Clip: c.screenRect,
			Prim: &Mesh{
				Texture:  ManagedID(c.atlasID),
				Vertices: append([]Vertex(nil), c.verts...),
				Indices:  append([]uint32(nil), c.inds...),
			},
		})
	}
	return out
}

// WantsKeyboard reports whether a text-editing widget has focus, i.e.
// whether a soft keyboard should be visible.
func (c *Context) WantsKeyboard() bool { return c.focusID != "" }

// ===== painter =====

// pushQuad emits one textured quad, cut down to the current clip rect.
// Partially visible quads keep their texel mapping: the UVs are remapped to
// the surviving sub-rectangle.
func (c *Context) pushQuad(r Rect, uv0, uv1 Pos2, col [4]float32) {
	vis := r.Intersect(c.clip)
	if vis.IsEmpty() {
		return
	}
	if vis != r {
		du := (uv1.X - uv0.X) / r.W()
		dv := (uv1.Y - uv0.Y) / r.H()
		uv0 = Pos2{uv0.X + (vis.Min.X-r.Min.X)*du, uv0.Y + (vis.Min.Y-r.Min.Y)*dv}
		uv1 = Pos2{uv1.X - (r.Max.X-vis.Max.X)*du, uv1.Y - (r.Max.Y-vis.Max.Y)*dv}
		r = vis
	}
	base := uint32(len(c.verts))
	c.verts = append(c.verts,
		Vertex{Pos: r.Min, UV: uv0, Color: col},
		Vertex{Pos: Pos2{r.Max.X, r.Min.Y}, UV: Pos2{uv1.X, uv0.Y}, Color: col},
		Vertex{Pos: r.Max, UV: uv1, Color: col},
		Vertex{Pos: Pos2{r.Min.X, r.Max.Y}, UV: Pos2{uv0.X, uv1.Y}, Color: col},
	)
	c.inds = append(c.inds, base, base+1, base+2, base, base+2, base+3)
}

func (c *Context) drawRect(r Rect, col [4]float32) {
	white := c.atlas.WhiteUV
	c.pushQuad(r, white, white, col)
}

// drawText draws a single line with its top-left corner at pos, in points.
func (c *Context) drawText(pos Pos2, s string, col [4]float32) {
	ppp := c.pixelsPerPoint
	baseline := pos.Y + c.atlas.Ascent/ppp
	x := pos.X
	for _, r := range s {
		g, ok := c.atlas.Glyphs[r]
		if !ok {
			if g, ok = c.atlas.Glyphs['?']; !ok {
				continue
			}
		}
		if g.W > 0 && g.H > 0 {
			quad := RectMinSize(
				Pos2{x + g.BearingX/ppp, baseline - g.BearingY/ppp},
				Vec2{float32(g.W) / ppp, float32(g.H) / ppp},
			)
			c.pushQuad(quad, Pos2{g.U0, g.V0}, Pos2{g.U1, g.V1}, col)
		}
		x += g.Advance / ppp
	}
}

// MeasureText returns the size of a single-line string in points.
func (c *Context) MeasureText(s string) (w, h float32) {
	w, h = c.atlas.measure(s)
	return w / c.pixelsPerPoint, h / c.pixelsPerPoint
}

// LineHeight returns the full line advance in points, including the face's
// line gap.
func (c *Context) LineHeight() float32 {
	return (c.atlas.Ascent - c.atlas.Descent + c.atlas.LineGap) / c.pixelsPerPoint
}

// itemRect reserves a w x h slot at the layout cursor and advances it.
func (c *Context) itemRect(w, h float32) Rect {
	r := RectMinSize(c.cursor, Vec2{w, h})
	c.cursor = c.cursor.Add(Vec2{Y: h + c.spacing})
	return r
}

func (c *Context) emitPlatform(ev OutputEvent) {
	c.platform = append(c.platform, ev)
}

// clicked implements the press-inside / release-inside protocol for one
// widget rect using the primary button.
func (c *Context) clicked(id string, r Rect) bool {
	inside := !c.pointerGone && r.Contains(c.pointerPos)
	if c.pressed[PointerPrimary] && inside {
		c.activeID = id
	}
	if c.released[PointerPrimary] {
		was := c.activeID == id
		if was {
			c.activeID = ""
		}
		return was && inside
	}
	return false
}

func (c *Context) hovered(r Rect) bool {
	return !c.pointerGone && r.Contains(c.pointerPos)
}
