package gui

import "time"

// TextureKind discriminates the two texture id spaces. Engine-managed ids
// are allocated by the GUI (the font atlas lives at managed id 0); user ids
// belong to textures the host registered itself. The two spaces must never
// be collapsed into one without a tag.
type TextureKind uint8

const (
	TextureManaged TextureKind = iota
	TextureUser
)

// TextureID names a texture within one of the two id spaces.
type TextureID struct {
	Kind TextureKind
	ID   uint64
}

// ManagedID names a texture in the engine-managed id space. The font atlas
// occupies managed id 0 at startup; rebuilds allocate a fresh id and free
// the old one.
func ManagedID(id uint64) TextureID { return TextureID{Kind: TextureManaged, ID: id} }

// UserID names a host-registered texture.
func UserID(id uint64) TextureID { return TextureID{Kind: TextureUser, ID: id} }

// TextureFilter selects the sampling mode for a texture.
type TextureFilter uint8

const (
	FilterNearest TextureFilter = iota + 1
	FilterLinear
)

// FontGamma is the gamma applied when expanding font coverage to RGBA.
// It must match the value the glyph rasterizer assumed; the host-side glyph
// edges come out visibly wrong otherwise. Pinned contract, not a tunable.
const FontGamma = 1.0

// CoverageToRGBA expands font coverage values (0..1) into premultiplied
// white RGBA texels using FontGamma. This is the only coverage conversion in
// the system; encoders must call it rather than owning a copy.
func CoverageToRGBA(cov []float32) []byte {
	out := make([]byte, len(cov)*4)
	for i, c := range cov {
		// gamma 1.0: straight linear ramp
		a := byte(clamp32(c, 0, 1)*255 + 0.5)
		out[i*4+0] = a
		out[i*4+1] = a
		out[i*4+2] = a
		out[i*4+3] = a
	}
	return out
}

// ImageData is the pixel payload of a texture upsert. Exactly one of RGBA
// and Coverage is non-nil.
type ImageData struct {
	Size     [2]int
	RGBA     []byte    // 4 bytes per texel, row-major
	Coverage []float32 // font coverage, expanded via CoverageToRGBA
}

// ToRGBA returns the payload as RGBA bytes, expanding coverage if needed.
func (d *ImageData) ToRGBA() []byte {
	if d.RGBA != nil {
		return d.RGBA
	}
	return CoverageToRGBA(d.Coverage)
}

// ImageDelta is one texture upsert: a whole image when Pos is nil, or a
// sub-region patch at Pos otherwise.
type ImageDelta struct {
	Pos    *[2]int
	Filter TextureFilter
	Image  ImageData
}

// TextureUpsert pairs a texture id with its image delta.
type TextureUpsert struct {
	ID    TextureID
	Delta ImageDelta
}

// TexturesDelta is the per-frame texture change set. Frees are applied
// before Sets so delivery order stays deterministic.
type TexturesDelta struct {
	Set  []TextureUpsert
	Free []TextureID
}

// Vertex layout: pos2 + uv2 + color4 => 8 floats, packed tightly in this
// order on the wire and in GPU buffers.
type Vertex struct {
	Pos   Pos2
	UV    Pos2
	Color [4]float32
}

// VertexStride is the packed byte size of one Vertex.
const VertexStride = 8 * 4

// Primitive is what a clipped primitive may carry.
type Primitive interface{ isPrimitive() }

// Mesh is a tessellated triangle list referencing one texture.
type Mesh struct {
	Texture  TextureID
	Vertices []Vertex
	Indices  []uint32
}

// CallbackPrim is a host-side custom render callback. The wire protocol has
// no encoding for it; encoders must fail rather than drop it.
type CallbackPrim struct {
	Name string
}

func (*Mesh) isPrimitive()        {}
func (CallbackPrim) isPrimitive() {}

// ClippedPrimitive pairs a primitive with the rectangle it may render into.
type ClippedPrimitive struct {
	Clip Rect
	Prim Primitive
}

// OutputEventKind discriminates platform output events.
type OutputEventKind int

const (
	OutputNone OutputEventKind = iota
	OutputClicked
	OutputDoubleClicked
	OutputTripleClicked
	OutputFocusGained
	OutputTextSelectionChanged
	OutputValueChanged
)

// WidgetKind names the widget class a platform event refers to.
type WidgetKind int

const (
	WidgetNone WidgetKind = iota
	WidgetLabel
	WidgetButton
	WidgetTextEdit
	WidgetSlider
	WidgetOther
)

// OutputEvent is one semantic GUI notification. HasText distinguishes an
// empty current value from no value at all.
type OutputEvent struct {
	Kind    OutputEventKind
	Widget  WidgetKind
	HasText bool
	Text    string
}

// PlatformOutput carries the frame's semantic events, used by hosts to
// drive affordances like soft-keyboard visibility.
type PlatformOutput struct {
	Events []OutputEvent
}

// FullOutput is the result of one frame cycle. RepaintAfter zero means
// "paint now"; a positive duration means nothing visual changed and the
// host may skip all texture/primitive handling for this cycle (Textures and
// Primitives are empty in that case).
type FullOutput struct {
	RepaintAfter time.Duration
	Textures     TexturesDelta
	Primitives   []ClippedPrimitive
	Platform     PlatformOutput
}
